// Package search ranks catalog names against free-text queries,
// tolerating typos and alternate naming conventions.
package search

import (
	"sort"
	"strings"
)

const (
	// MaxResults caps any ranked result set.
	MaxResults = 100

	// windowStep samples same-length windows of a name during the
	// fuzzy fallback instead of scanning every offset. Recall under
	// this sampling is a deliberate precision/performance trade-off.
	windowStep = 2
)

// Match priorities, best first.
const (
	PrioritySubstring = 1
	PriorityPrefix    = 2
	PriorityTokens    = 3
	PriorityFuzzy     = 4
)

// Match is one ranked candidate name.
type Match struct {
	Name     string
	Priority int
}

// Rank scores every name against query and returns matches sorted by
// priority, then by name length (shorter names are more likely the
// intended target), then by name. Each name is placed in the first tier
// it satisfies. Scanning stops early once MaxResults substring/prefix
// matches have been seen; the result is capped at MaxResults.
func Rank(query string, names []string) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []Match
	strong := 0
	for _, name := range names {
		p := priorityFor(q, name)
		if p == 0 {
			continue
		}
		matches = append(matches, Match{Name: name, Priority: p})
		if p <= PriorityPrefix {
			strong++
			if strong >= MaxResults {
				break
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority < matches[j].Priority
		}
		if len(matches[i].Name) != len(matches[j].Name) {
			return len(matches[i].Name) < len(matches[j].Name)
		}
		return matches[i].Name < matches[j].Name
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches
}

// priorityFor returns the first matching tier for name, or 0.
func priorityFor(q, name string) int {
	switch {
	case strings.Contains(name, q):
		return PrioritySubstring
	case strings.HasPrefix(name, q):
		return PriorityPrefix
	case tokensMatch(q, name):
		return PriorityTokens
	case fuzzyMatch(q, name):
		return PriorityFuzzy
	}
	return 0
}

// tokensMatch compares query and name as word tokens, order
// independent: every query token must be a prefix of some name token or
// within Levenshtein distance 1 of one. This is what lets a two-word
// query find a hyphen-joined compound name. Single-token queries are
// left to the other tiers.
func tokensMatch(query, name string) bool {
	qTokens := tokenize(query)
	if len(qTokens) < 2 {
		return false
	}
	nTokens := tokenize(name)

	for _, qt := range qTokens {
		if !tokenMatchesAny(qt, nTokens) {
			return false
		}
	}
	return true
}

func tokenMatchesAny(token string, candidates []string) bool {
	for _, c := range candidates {
		if strings.HasPrefix(c, token) {
			return true
		}
		if BoundedDistance(token, c, 1) <= 1 {
			return true
		}
	}
	return false
}

// tokenize normalizes separators to spaces and splits.
func tokenize(s string) []string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Fields(s)
}

// fuzzyMatch is the last-resort tier: an in-order subsequence check,
// then bounded edit distance against stepped same-length windows of the
// name, or against the query's own prefix when the name is shorter.
func fuzzyMatch(q, name string) bool {
	if isSubsequence(q, name) {
		return true
	}

	budget := typoBudget(q)
	if len(name) >= len(q) {
		for i := 0; i+len(q) <= len(name); i += windowStep {
			if BoundedDistance(q, name[i:i+len(q)], budget) <= budget {
				return true
			}
		}
		return false
	}

	if BoundedDistance(q[:len(name)], name, budget) <= budget {
		return true
	}
	return BoundedDistance(q, name, budget) <= budget
}

// typoBudget scales edit tolerance with query length so short queries
// do not match everything.
func typoBudget(q string) int {
	if len(q) <= 3 {
		return 1
	}
	return 2
}

// isSubsequence reports whether every byte of q appears in name in the
// same relative order, not necessarily contiguously.
func isSubsequence(q, name string) bool {
	i := 0
	for j := 0; j < len(name) && i < len(q); j++ {
		if name[j] == q[i] {
			i++
		}
	}
	return i == len(q)
}
