// Package decklist converts between deck sessions and the line-oriented
// decklist text format ("4 Lightning Bolt", "2x Counterspell (TSR)",
// "Forest x3").
package decklist

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/deckforge/deckforge/internal/builder"
	"github.com/deckforge/deckforge/internal/scryfall"
)

// CardResolver resolves an exact card name, optionally constrained to a
// set code. Satisfied by *scryfall.Client.
type CardResolver interface {
	GetCardNamed(ctx context.Context, name, setCode string) (*scryfall.Card, error)
}

// ParsedLine is one successfully parsed input line.
type ParsedLine struct {
	Line     int    `json:"line"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
	SetCode  string `json:"set_code,omitempty"`
}

// ImportedEntry records one resolved and added line.
type ImportedEntry struct {
	ParsedLine
	Category builder.CategoryKey `json:"category"`
}

// FailedEntry records one line that could not be resolved, with a
// human-readable reason.
type FailedEntry struct {
	ParsedLine
	Reason string `json:"reason"`
}

// Result summarizes an import: which lines made it into the deck and
// which failed. One failed line never blocks the others.
type Result struct {
	Imported []ImportedEntry `json:"imported"`
	Failed   []FailedEntry   `json:"failed"`
}

// Importer parses decklist text and adds the resolved cards to a
// session. Lines are resolved sequentially so partial failures report
// in input order.
type Importer struct {
	resolver CardResolver
}

// NewImporter creates an importer backed by the given resolver.
func NewImporter(resolver CardResolver) *Importer {
	return &Importer{resolver: resolver}
}

var (
	// Trailing "(SET)" with an optional collector number after it.
	setCodeRegex = regexp.MustCompile(`\s+\(([A-Za-z0-9]{3,4})\)(?:\s+\S+)?\s*$`)
	// "4 Card Name" or "4x Card Name".
	leadingQtyRegex = regexp.MustCompile(`^(\d+)[xX]?\s+(.+)$`)
	// "Card Name x4".
	trailingQtyRegex = regexp.MustCompile(`^(.+?)\s+[xX](\d+)$`)
)

// parseLine parses one non-blank line into (quantity, name, set code).
// A bare card name defaults to quantity 1.
func parseLine(lineNo int, line string) (ParsedLine, bool) {
	parsed := ParsedLine{Line: lineNo, Quantity: 1}

	if m := setCodeRegex.FindStringSubmatch(line); m != nil {
		parsed.SetCode = strings.ToLower(m[1])
		line = strings.TrimSpace(line[:len(line)-len(m[0])])
	}

	if m := leadingQtyRegex.FindStringSubmatch(line); m != nil {
		if q, err := strconv.Atoi(m[1]); err == nil && q > 0 {
			parsed.Quantity = q
			parsed.Name = strings.TrimSpace(m[2])
			return parsed, parsed.Name != ""
		}
	}

	if m := trailingQtyRegex.FindStringSubmatch(line); m != nil {
		if q, err := strconv.Atoi(m[2]); err == nil && q > 0 {
			parsed.Quantity = q
			parsed.Name = strings.TrimSpace(m[1])
			return parsed, parsed.Name != ""
		}
	}

	parsed.Name = strings.TrimSpace(line)
	return parsed, parsed.Name != ""
}

// Import parses the text, resolves each line through the card
// collaborator, and adds successes to the session with the category
// derived from the card's type line. Each line is independent: a
// resolution failure is recorded and the remaining lines continue.
func (imp *Importer) Import(ctx context.Context, text string, session *builder.Session) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty import text")
	}

	result := &Result{
		Imported: make([]ImportedEntry, 0),
		Failed:   make([]FailedEntry, 0),
	}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parsed, ok := parseLine(i+1, line)
		if !ok {
			result.Failed = append(result.Failed, FailedEntry{
				ParsedLine: ParsedLine{Line: i + 1, Quantity: 1, Name: line},
				Reason:     "unparsable line",
			})
			continue
		}

		card, err := imp.resolver.GetCardNamed(ctx, parsed.Name, parsed.SetCode)
		if err != nil {
			result.Failed = append(result.Failed, FailedEntry{
				ParsedLine: parsed,
				Reason:     failureReason(parsed, err),
			})
			continue
		}

		ref := builder.NewCardRef(card)
		var entry *builder.Entry
		for n := 0; n < parsed.Quantity; n++ {
			entry = session.AddCard(ref, "")
		}

		imported := ImportedEntry{ParsedLine: parsed}
		if entry != nil {
			imported.Category = builder.DeriveCategory(ref.TypeLine)
		}
		result.Imported = append(result.Imported, imported)
	}

	return result, nil
}

// failureReason maps a resolution error to the user-facing message.
func failureReason(parsed ParsedLine, err error) string {
	if scryfall.IsNotFound(err) {
		if parsed.SetCode != "" {
			return fmt.Sprintf("not found in set %s", strings.ToUpper(parsed.SetCode))
		}
		return "not found"
	}
	return err.Error()
}
