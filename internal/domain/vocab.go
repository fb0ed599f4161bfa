package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// VocabularyEntry is one row of the reference vocabulary: a canonical event
// type label and up to two match patterns. Order across entries determines
// precedence; an empty pattern never matches.
type VocabularyEntry struct {
	Canonical string
	Pattern1  string
	Pattern2  string
}

// Vocabulary is the compiled, ordered vocabulary used to normalize raw
// event-type labels.
type Vocabulary struct {
	entries   []compiledEntry
	canonical map[string]struct{} // upper-cased canonical labels
}

type compiledEntry struct {
	canonical string
	first     *regexp.Regexp // nil when the source column was empty
	second    *regexp.Regexp
}

// CompileVocabulary compiles the ordered entries. Errors name the offending
// row so a broken vocabulary file is easy to fix.
func CompileVocabulary(entries []VocabularyEntry) (*Vocabulary, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}

	v := &Vocabulary{canonical: make(map[string]struct{}, len(entries))}
	for i, e := range entries {
		canonical := strings.ToUpper(strings.TrimSpace(e.Canonical))
		if canonical == "" {
			return nil, fmt.Errorf("vocabulary row %d: empty canonical label", i+1)
		}

		first, err := compilePattern(e.Pattern1)
		if err != nil {
			return nil, fmt.Errorf("vocabulary row %d (%s): first pattern: %w", i+1, canonical, err)
		}
		second, err := compilePattern(e.Pattern2)
		if err != nil {
			return nil, fmt.Errorf("vocabulary row %d (%s): second pattern: %w", i+1, canonical, err)
		}

		v.entries = append(v.entries, compiledEntry{canonical: canonical, first: first, second: second})
		v.canonical[canonical] = struct{}{}
	}
	return v, nil
}

// compilePattern compiles a match pattern, treating an empty column as
// never-matching rather than as the empty regex (which matches everything).
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}

// Normalize maps a raw event-type label to its canonical form. Labels that
// are already canonical (case-insensitive) pass through unchanged, which
// makes normalization idempotent. Otherwise the first entry in table order
// with a matching pattern wins; within an entry the first pattern is tested
// before the second. Returns false when the label maps to nothing.
func (v *Vocabulary) Normalize(raw string) (string, bool) {
	if upper := strings.ToUpper(strings.TrimSpace(raw)); upper != "" {
		if _, ok := v.canonical[upper]; ok {
			return upper, true
		}
	}

	for _, e := range v.entries {
		if e.first != nil && e.first.MatchString(raw) {
			return e.canonical, true
		}
		if e.second != nil && e.second.MatchString(raw) {
			return e.canonical, true
		}
	}
	return "", false
}

// Contains reports whether label is a canonical vocabulary member,
// case-insensitively.
func (v *Vocabulary) Contains(label string) bool {
	_, ok := v.canonical[strings.ToUpper(strings.TrimSpace(label))]
	return ok
}

// CanonicalLabels returns the canonical label set in sorted order.
func (v *Vocabulary) CanonicalLabels() []string {
	labels := make([]string, 0, len(v.canonical))
	for l := range v.canonical {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Len returns the number of vocabulary entries.
func (v *Vocabulary) Len() int {
	return len(v.entries)
}
