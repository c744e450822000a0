package decklist

import (
	"fmt"
	"strings"

	"github.com/deckforge/deckforge/internal/builder"
)

// Grouping selects how exported lines are bucketed into text sections.
type Grouping string

const (
	GroupNone       Grouping = "none"     // one flat list
	GroupByCategory Grouping = "category" // one section per deck column
	GroupByType     Grouping = "type"     // sections by card type
	GroupByBucket   Grouping = "bucket"   // Mainboard / Sideboard / Extra
)

// QuantityStyle selects the quantity prefix on each line.
type QuantityStyle string

const (
	QuantityPlain QuantityStyle = "plain" // "4 Card Name"
	QuantityX     QuantityStyle = "x"     // "4x Card Name"
	QuantityNone  QuantityStyle = "none"  // "Card Name"
)

// Options fully specifies the export format. Output is deterministic
// given the same session and options.
type Options struct {
	Grouping        Grouping      `json:"grouping"`
	Quantity        QuantityStyle `json:"quantity"`
	FrontNameOnly   bool          `json:"front_name_only"`
	SetCode         bool          `json:"set_code"`
	CollectorNumber bool          `json:"collector_number"`
	CategoryTag     bool          `json:"category_tag"`
	FoilMarker      bool          `json:"foil_marker"`
	ColorTag        bool          `json:"color_tag"`

	// IncludeOutOfDeck includes categories whose column option puts
	// them outside the deck (the extra bucket).
	IncludeOutOfDeck bool `json:"include_out_of_deck"`
}

// DefaultOptions is the plain "4 Card Name" list grouped by bucket.
func DefaultOptions() Options {
	return Options{
		Grouping: GroupByBucket,
		Quantity: QuantityPlain,
	}
}

// exportLine is one entry paired with the category it came from.
type exportLine struct {
	entry    *builder.Entry
	category builder.CategoryKey
	label    string
}

// Export renders the session's deck as decklist text.
func Export(session *builder.Session, opts Options) string {
	if opts.Grouping == "" {
		opts.Grouping = GroupNone
	}
	if opts.Quantity == "" {
		opts.Quantity = QuantityPlain
	}

	var lines []exportLine
	for _, key := range session.Layout.Categories() {
		bucket := session.Layout.OptionOf(key).Bucket()
		if bucket == builder.BucketExtra && !opts.IncludeOutOfDeck {
			continue
		}
		for _, e := range session.Deck.Entries(key) {
			lines = append(lines, exportLine{
				entry:    e,
				category: key,
				label:    session.Layout.LabelOf(key),
			})
		}
	}

	var sb strings.Builder
	switch opts.Grouping {
	case GroupByCategory:
		renderSections(&sb, lines, opts, func(l exportLine) string {
			return l.label
		})
	case GroupByType:
		renderSections(&sb, lines, opts, func(l exportLine) string {
			return typeSectionLabel(l.entry.Card.TypeLine)
		})
	case GroupByBucket:
		renderSections(&sb, lines, opts, func(l exportLine) string {
			return bucketLabel(session, l.category)
		})
	default:
		for _, l := range lines {
			sb.WriteString(renderLine(l, opts))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// renderSections writes one header-prefixed block per distinct section,
// in first-appearance order.
func renderSections(sb *strings.Builder, lines []exportLine, opts Options, section func(exportLine) string) {
	var order []string
	grouped := make(map[string][]exportLine)
	for _, l := range lines {
		name := section(l)
		if _, seen := grouped[name]; !seen {
			order = append(order, name)
		}
		grouped[name] = append(grouped[name], l)
	}

	for i, name := range order {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(name)
		sb.WriteString("\n")
		for _, l := range grouped[name] {
			sb.WriteString(renderLine(l, opts))
			sb.WriteString("\n")
		}
	}
}

// renderLine renders a single entry per the options.
func renderLine(l exportLine, opts Options) string {
	var sb strings.Builder

	switch opts.Quantity {
	case QuantityX:
		fmt.Fprintf(&sb, "%dx ", l.entry.Quantity)
	case QuantityNone:
	default:
		fmt.Fprintf(&sb, "%d ", l.entry.Quantity)
	}

	name := l.entry.Card.Name
	if opts.FrontNameOnly && l.entry.Card.FrontName != "" {
		name = l.entry.Card.FrontName
	}
	sb.WriteString(name)

	if opts.SetCode && l.entry.Card.SetCode != "" {
		fmt.Fprintf(&sb, " (%s)", strings.ToUpper(l.entry.Card.SetCode))
	}
	if opts.CollectorNumber && l.entry.Card.CollectorNumber != "" {
		fmt.Fprintf(&sb, " %s", l.entry.Card.CollectorNumber)
	}
	if opts.FoilMarker && l.entry.Card.Foil {
		sb.WriteString(" *F*")
	}
	if opts.CategoryTag {
		fmt.Fprintf(&sb, " [%s]", l.label)
	}
	if opts.ColorTag {
		sb.WriteString(" ^Default^")
	}

	return sb.String()
}

// typeSectionLabel buckets a type line into its export section using
// the same derivation order the deck uses for new cards.
func typeSectionLabel(typeLine string) string {
	switch builder.DeriveCategory(typeLine) {
	case builder.CategoryCreatures:
		return "Creatures"
	case builder.CategoryArtifacts:
		return "Artifacts"
	case builder.CategoryEnchantments:
		return "Enchantments"
	case builder.CategoryLands:
		return "Lands"
	default:
		return "Spells"
	}
}

// bucketLabel maps a category to its Mainboard/Sideboard/Extra section.
func bucketLabel(session *builder.Session, key builder.CategoryKey) string {
	switch session.Layout.OptionOf(key).Bucket() {
	case builder.BucketSideboard:
		return "Sideboard"
	case builder.BucketExtra:
		return "Extra"
	default:
		return "Mainboard"
	}
}
