package controller

import (
	"sort"
	"strings"

	"siftview/internal/fuzzy"
)

// applyPipeline is the pure offline transformation: active filters
// combined with AND, then text matching, then the comparator. Exact
// matching preserves collection order; fuzzy matching orders by score
// descending; an explicit comparator overrides either.
func applyPipeline[T any](
	items []T,
	filters map[string]Predicate[T],
	query string,
	fields func(T) []string,
	caseSensitive bool,
	fuzzyEnabled bool,
	threshold float64,
	less Less[T],
) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if passesFilters(item, filters) {
			out = append(out, item)
		}
	}

	if query != "" && fields != nil {
		if fuzzyEnabled {
			out = fuzzyPass(out, query, fields, caseSensitive, threshold)
		} else {
			out = termPass(out, query, fields, caseSensitive)
		}
	}

	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func passesFilters[T any](item T, filters map[string]Predicate[T]) bool {
	for _, pred := range filters {
		if !pred(item) {
			return false
		}
	}
	return true
}

// termPass keeps items where every whitespace-separated query term is a
// substring of at least one search field
func termPass[T any](items []T, query string, fields func(T) []string, caseSensitive bool) []T {
	terms := strings.Fields(query)
	if !caseSensitive {
		for i, term := range terms {
			terms[i] = strings.ToLower(term)
		}
	}

	out := items[:0]
	for _, item := range items {
		fs := fields(item)
		if !caseSensitive {
			folded := make([]string, len(fs))
			for i, f := range fs {
				folded[i] = strings.ToLower(f)
			}
			fs = folded
		}
		if matchesAllTerms(fs, terms) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAllTerms(fields, terms []string) bool {
	for _, term := range terms {
		found := false
		for _, field := range fields {
			if strings.Contains(field, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// fuzzyPass keeps items whose best field score reaches the threshold,
// ordered by score descending. The sort is stable so equal scores keep
// collection order.
func fuzzyPass[T any](items []T, query string, fields func(T) []string, caseSensitive bool, threshold float64) []T {
	type scored struct {
		item  T
		score float64
	}
	kept := make([]scored, 0, len(items))
	for _, item := range items {
		m, _, ok := fuzzy.FindFields(query, fields(item), caseSensitive)
		if ok && m.Score >= threshold {
			kept = append(kept, scored{item: item, score: m.Score})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })

	out := make([]T, len(kept))
	for i, s := range kept {
		out[i] = s.item
	}
	return out
}
