// Package errors provides enhanced error messages with suggestions.
package errors

import (
	"fmt"
	"strings"

	"github.com/rotom-cli/rotom/internal/search"
)

// SuggestiveError is an error that includes suggestions for fixing the problem.
type SuggestiveError struct {
	Message     string
	Suggestions []string
	HelpCommand string
}

func (e *SuggestiveError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nDid you mean one of these?\n")
		for _, s := range e.Suggestions {
			b.WriteString("  ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}

	if e.HelpCommand != "" {
		b.WriteString("\nRun '")
		b.WriteString(e.HelpCommand)
		b.WriteString("' for more information.")
	}

	return b.String()
}

// NameNotFoundError creates an error for when a name isn't in the catalog,
// suggesting the closest known names.
func NameNotFoundError(name string, available []string) error {
	return &SuggestiveError{
		Message:     fmt.Sprintf("no Pokémon named %q", name),
		Suggestions: closest(name, available, 3),
		HelpCommand: "rotom search " + name,
	}
}

// IDOutOfRangeError creates an error for a numeric id past the catalog end.
func IDOutOfRangeError(id, max int) error {
	return &SuggestiveError{
		Message: fmt.Sprintf("id %d is out of range (catalog has %d entries)", id, max),
		Suggestions: []string{
			fmt.Sprintf("rotom get %d           - Last catalog entry", max),
			"rotom search <name>    - Look up by name instead",
		},
	}
}

// NoIndexError creates an error for operations that need the name index
// before it has been built.
func NoIndexError() error {
	return &SuggestiveError{
		Message: "name index not available",
		Suggestions: []string{
			"rotom index            - Build the index now",
			"rotom index --rebuild  - Force a full rebuild",
		},
	}
}

// InvalidDurationError creates an error for an unparseable duration flag.
func InvalidDurationError(input string) error {
	return &SuggestiveError{
		Message: fmt.Sprintf("invalid duration %q", input),
		Suggestions: []string{
			"Standard: 30s, 10m, 12h (seconds, minutes, hours)",
			"Extended: 7d, 2w (days, weeks)",
		},
	}
}

// closest ranks candidates against target and keeps the top n names.
func closest(target string, candidates []string, n int) []string {
	matches := search.Rank(target, candidates)
	if len(matches) > n {
		matches = matches[:n]
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Name)
	}
	return names
}
