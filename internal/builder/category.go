package builder

import (
	"strings"

	"github.com/google/uuid"
)

// CategoryKey identifies a deck column. Built-in categories use fixed
// keys; custom columns use generated "custom-" keys.
type CategoryKey string

// Built-in category keys.
const (
	CategoryCreatures    CategoryKey = "creatures"
	CategorySpells       CategoryKey = "spells"
	CategoryArtifacts    CategoryKey = "artifacts"
	CategoryEnchantments CategoryKey = "enchantments"
	CategoryLands        CategoryKey = "lands"
	CategorySideboard    CategoryKey = "sideboard"
)

const customKeyPrefix = "custom-"

// builtinCategories lists the built-in keys in display order.
var builtinCategories = []CategoryKey{
	CategoryCreatures,
	CategorySpells,
	CategoryArtifacts,
	CategoryEnchantments,
	CategoryLands,
	CategorySideboard,
}

// builtinLabels are the default display labels for built-in keys.
var builtinLabels = map[CategoryKey]string{
	CategoryCreatures:    "Creatures",
	CategorySpells:       "Spells",
	CategoryArtifacts:    "Artifacts",
	CategoryEnchantments: "Enchantments",
	CategoryLands:        "Lands",
	CategorySideboard:    "Sideboard",
}

// CategoryKind distinguishes built-in categories from user-created
// columns so branching on kind is explicit instead of inferred from
// map membership.
type CategoryKind int

const (
	KindBuiltin CategoryKind = iota
	KindCustom
)

// Kind returns the kind of the category key.
func (k CategoryKey) Kind() CategoryKind {
	if strings.HasPrefix(string(k), customKeyPrefix) {
		return KindCustom
	}
	return KindBuiltin
}

// IsBuiltin reports whether the key is one of the fixed built-in
// categories.
func (k CategoryKey) IsBuiltin() bool {
	if k.Kind() == KindCustom {
		return false
	}
	_, ok := builtinLabels[k]
	return ok
}

// NewCustomColumnKey generates a unique key for a custom column.
func NewCustomColumnKey() CategoryKey {
	return CategoryKey(customKeyPrefix + uuid.NewString())
}

// DeriveCategory derives the target category for a card from its type
// line. The substring check order (creature, artifact, enchantment,
// land, else spells) is intentional: an "Artifact Creature" files under
// creatures.
func DeriveCategory(typeLine string) CategoryKey {
	line := strings.ToLower(typeLine)
	switch {
	case strings.Contains(line, "creature"):
		return CategoryCreatures
	case strings.Contains(line, "artifact"):
		return CategoryArtifacts
	case strings.Contains(line, "enchantment"):
		return CategoryEnchantments
	case strings.Contains(line, "land"):
		return CategoryLands
	default:
		return CategorySpells
	}
}

// ColumnOption tags a category for counting and export bucketing. It
// does not affect how entries are stored.
type ColumnOption string

const (
	StartsInDeck         ColumnOption = "deck"
	StartsInExtra        ColumnOption = "extra"
	StartsInHand         ColumnOption = "hand"
	StartsInPlay         ColumnOption = "play"
	StartsInPlayFacedown ColumnOption = "play_facedown"
	OptionSideboard      ColumnOption = "sideboard"
)

// Bucket is the coarse counting bucket a column option maps to.
type Bucket int

const (
	BucketMain Bucket = iota
	BucketExtra
	BucketSideboard
)

// Bucket returns the counting bucket for the option. Hand and in-play
// options still count toward the main deck.
func (o ColumnOption) Bucket() Bucket {
	switch o {
	case OptionSideboard:
		return BucketSideboard
	case StartsInExtra:
		return BucketExtra
	default:
		return BucketMain
	}
}

// defaultColumnOption returns the option a category starts with.
func defaultColumnOption(key CategoryKey) ColumnOption {
	if key == CategorySideboard {
		return OptionSideboard
	}
	return StartsInDeck
}
