package cite

import (
	"strings"
	"unicode"
)

// NormalizeFragment lower-cases text, collapses every run of non-alphanumeric
// characters to a single space and trims the result. Both snippets and page
// fragments go through this before comparison.
func NormalizeFragment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		} else {
			space = true
		}
	}
	return b.String()
}

// MatchFragments returns the indices of fragments that match the snippet
// after normalization. A fragment matches when either normalized form
// contains the other. Fragments whose normalized form is shorter than minLen
// never match, so trivial tokens like "the" cannot light up a page.
func MatchFragments(snippet string, fragments []string, minLen int) []int {
	ns := NormalizeFragment(snippet)
	if ns == "" {
		return nil
	}

	var matches []int
	for i, f := range fragments {
		nf := NormalizeFragment(f)
		if len(nf) < minLen {
			continue
		}
		if strings.Contains(ns, nf) || strings.Contains(nf, ns) {
			matches = append(matches, i)
		}
	}
	return matches
}
