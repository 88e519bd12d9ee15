// Package fuzzy provides layered string matching: exact containment,
// ordered subsequence, and bounded edit distance, in that priority.
package fuzzy

import "unicode"

// Edit-distance matches are capped strictly below the subsequence range
// so the three rules never overlap in score space:
//
//	exact containment   score == 1.0
//	subsequence         0.6 < score < 1.0
//	edit distance       0 < score < 0.6
const (
	subseqFloor   = 0.6
	editTolerance = 2
	editStep      = 0.2
)

// Match is a successful match: a score in (0, 1] and the rune indices
// of the matched characters in the original text, for highlighting.
type Match struct {
	Score   float64
	Indices []int
}

// Find matches query against text. The second return value is false when
// nothing matched. An empty query or empty text never matches.
//
// When caseSensitive is false both sides are folded before comparison;
// the returned indices always refer to the original text.
func Find(query, text string, caseSensitive bool) (Match, bool) {
	if query == "" || text == "" {
		return Match{}, false
	}

	q := []rune(query)
	t := []rune(text)
	if !caseSensitive {
		q = fold(q)
		t = fold(t)
	}

	// Rule 1: contiguous containment scores a perfect 1.0.
	if start := indexRunes(t, q); start >= 0 {
		return Match{Score: 1.0, Indices: contiguous(start, len(q))}, true
	}

	// Rule 2: ordered subsequence. The tightest window containing the
	// query as a subsequence determines the score: the wider the spread,
	// the lower it gets, approaching (but never reaching) the floor.
	if indices, ok := subsequence(t, q); ok {
		span := indices[len(indices)-1] - indices[0] + 1
		// span > len(q) here, otherwise rule 1 would have fired
		score := subseqFloor + (1.0-subseqFloor)*float64(len(q))/float64(span)
		return Match{Score: score, Indices: indices}, true
	}

	// Rule 3: a sliding window of text within edit distance 2 of query.
	if len(q) > len(t)+editTolerance {
		return Match{}, false
	}
	if start, length, dist := bestWindow(t, q); dist <= editTolerance {
		score := subseqFloor - editStep*float64(dist)
		return Match{Score: score, Indices: contiguous(start, length)}, true
	}

	return Match{}, false
}

// FindFields matches query against each field and returns the best
// result along with the index of the winning field. A perfect score
// short-circuits the remaining fields.
func FindFields(query string, fields []string, caseSensitive bool) (Match, int, bool) {
	var best Match
	bestField := -1
	for i, field := range fields {
		m, ok := Find(query, field, caseSensitive)
		if !ok {
			continue
		}
		if bestField < 0 || m.Score > best.Score {
			best = m
			bestField = i
			if best.Score == 1.0 {
				break
			}
		}
	}
	return best, bestField, bestField >= 0
}

func fold(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func contiguous(start, length int) []int {
	indices := make([]int, length)
	for i := range indices {
		indices[i] = start + i
	}
	return indices
}

// indexRunes returns the rune index of the first occurrence of needle in
// haystack, or -1
func indexRunes(haystack, needle []rune) int {
	if len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		j := 0
		for ; j < len(needle); j++ {
			if haystack[i+j] != needle[j] {
				break
			}
		}
		if j == len(needle) {
			return i
		}
	}
	return -1
}

// subsequence finds query as an ordered subsequence of text and returns
// one strictly increasing index per query rune, choosing the occurrence
// with the smallest span. Candidate windows are enumerated by greedy
// forward matching from each feasible start; a backward pass then pulls
// every match as late as possible inside its window.
func subsequence(text, query []rune) ([]int, bool) {
	var best []int
	bestSpan := 0
	offset := 0
	for {
		indices, ok := forwardMatch(text, query, offset)
		if !ok {
			break
		}
		tighten(text, query, indices)
		span := indices[len(indices)-1] - indices[0] + 1
		if best == nil || span < bestSpan {
			best = indices
			bestSpan = span
		}
		offset = indices[0] + 1
	}
	return best, best != nil
}

// forwardMatch greedily matches query in text starting at offset
func forwardMatch(text, query []rune, offset int) ([]int, bool) {
	indices := make([]int, len(query))
	qi := 0
	for ti := offset; ti < len(text) && qi < len(query); ti++ {
		if text[ti] == query[qi] {
			indices[qi] = ti
			qi++
		}
	}
	if qi != len(query) {
		return nil, false
	}
	return indices, true
}

// tighten walks backwards from the fixed last match, choosing the
// latest position for each earlier rune
func tighten(text, query []rune, indices []int) {
	for qi := len(query) - 2; qi >= 0; qi-- {
		ti := indices[qi+1] - 1
		for ti > indices[qi] {
			if text[ti] == query[qi] {
				indices[qi] = ti
				break
			}
			ti--
		}
	}
}

// bestWindow slides windows of length len(query)±tolerance across text
// and returns the earliest window with the minimum edit distance to
// query. The returned distance exceeds editTolerance when no window
// qualifies.
func bestWindow(text, query []rune) (start, length, dist int) {
	minLen := len(query) - editTolerance
	if minLen < 1 {
		minLen = 1
	}
	maxLen := len(query) + editTolerance

	bestDist := editTolerance + 1
	bestStart, bestLen := 0, 0
	for s := 0; s < len(text); s++ {
		for l := minLen; l <= maxLen && s+l <= len(text); l++ {
			d := editDistance(query, text[s:s+l], editTolerance)
			if d < bestDist {
				bestDist, bestStart, bestLen = d, s, l
			}
		}
	}
	return bestStart, bestLen, bestDist
}

// editDistance computes Levenshtein distance between a and b, giving up
// once the distance is guaranteed to exceed cutoff (returns cutoff+1).
func editDistance(a, b []rune, cutoff int) int {
	if diff := len(a) - len(b); diff > cutoff || -diff > cutoff {
		return cutoff + 1
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d := prev[j-1] + cost // substitution
			if del := prev[j] + 1; del < d {
				d = del
			}
			if ins := curr[j-1] + 1; ins < d {
				d = ins
			}
			curr[j] = d
			if d < rowMin {
				rowMin = d
			}
		}
		if rowMin > cutoff {
			return cutoff + 1
		}
		prev, curr = curr, prev
	}
	if prev[len(b)] > cutoff {
		return cutoff + 1
	}
	return prev[len(b)]
}
