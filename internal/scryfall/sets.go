package scryfall

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// setSource adapts a set slice to the fuzzy matcher.
type setSource []Set

func (s setSource) String(i int) string { return s[i].Name }
func (s setSource) Len() int            { return len(s) }

// FilterSets returns the sets matching the query, best match first.
// A query matching a set code exactly ranks ahead of name matches; an
// empty query returns the input unchanged.
func FilterSets(sets []Set, query string) []Set {
	query = strings.TrimSpace(query)
	if query == "" {
		return sets
	}

	var filtered []Set

	lower := strings.ToLower(query)
	for _, set := range sets {
		if strings.EqualFold(set.Code, lower) {
			filtered = append(filtered, set)
		}
	}

	matches := fuzzy.FindFrom(query, setSource(sets))
	for _, m := range matches {
		set := sets[m.Index]
		if !strings.EqualFold(set.Code, lower) {
			filtered = append(filtered, set)
		}
	}

	return filtered
}
