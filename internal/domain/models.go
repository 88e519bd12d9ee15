package domain

import "strings"

// Query represents the current search text and its derived terms
type Query struct {
	Text string
}

// Terms returns the whitespace-separated terms of the query.
// Callers use these for highlighting individual words.
func (q Query) Terms() []string {
	return strings.Fields(q.Text)
}

// IsEmpty reports whether the query contains no text at all
func (q Query) IsEmpty() bool {
	return q.Text == ""
}

// TrimmedLen returns the rune length of the query with surrounding
// whitespace removed. The minimum-length gate is checked against this.
func (q Query) TrimmedLen() int {
	return len([]rune(strings.TrimSpace(q.Text)))
}
