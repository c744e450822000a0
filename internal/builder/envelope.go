package builder

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EnvelopeVersion is the current version of the description envelope.
//
// The deck persistence API has a single free-text description column;
// the editor smuggles its column structure through it. Version 1 is an
// explicit {version, ...} envelope. Two legacy shapes are migrated on
// load: an unversioned {"userDescription", "columnStructure"} object,
// and a plain-text description from before columns were persisted.
const EnvelopeVersion = 1

// ColumnStructure serializes the layout model for the description
// envelope: custom columns, positions, hidden built-ins, options and
// label overrides.
type ColumnStructure struct {
	Custom    []CustomColumn               `json:"custom,omitempty"`
	Positions map[CategoryKey]Position     `json:"positions,omitempty"`
	Hidden    []CategoryKey                `json:"hidden,omitempty"`
	Options   map[CategoryKey]ColumnOption `json:"options,omitempty"`
	Labels    map[CategoryKey]string       `json:"labels,omitempty"`
}

// CustomColumn is one user-created column in a ColumnStructure.
type CustomColumn struct {
	Key   CategoryKey `json:"key"`
	Label string      `json:"label"`
}

// descriptionEnvelope is the on-the-wire description format.
type descriptionEnvelope struct {
	Version     int              `json:"version"`
	Description string           `json:"description"`
	Columns     *ColumnStructure `json:"columns,omitempty"`
}

// legacyDescription is the pre-envelope JSON shape.
type legacyDescription struct {
	UserDescription string           `json:"userDescription"`
	ColumnStructure *ColumnStructure `json:"columnStructure"`
}

// Structure extracts the layout's serializable column structure.
func (l *Layout) Structure() *ColumnStructure {
	cs := &ColumnStructure{
		Positions: make(map[CategoryKey]Position, len(l.positions)),
		Options:   make(map[CategoryKey]ColumnOption, len(l.options)),
		Hidden:    l.HiddenBuiltins(),
	}
	for _, key := range l.custom {
		cs.Custom = append(cs.Custom, CustomColumn{Key: key, Label: l.LabelOf(key)})
	}
	for key, pos := range l.positions {
		cs.Positions[key] = pos
	}
	for key, opt := range l.options {
		cs.Options[key] = opt
	}
	if len(l.labels) > 0 {
		cs.Labels = make(map[CategoryKey]string, len(l.labels))
		for key, label := range l.labels {
			cs.Labels[key] = label
		}
	}
	return cs
}

// ApplyStructure replaces the layout with the deserialized structure.
func (l *Layout) ApplyStructure(cs *ColumnStructure) {
	fresh := NewLayout()
	*l = *fresh

	for _, key := range cs.Hidden {
		_ = l.HideBuiltin(key)
	}
	for _, col := range cs.Custom {
		l.custom = append(l.custom, col.Key)
		l.labels[col.Key] = col.Label
		l.options[col.Key] = StartsInDeck
	}
	for key, pos := range cs.Positions {
		l.positions[key] = pos
	}
	for key, opt := range cs.Options {
		l.options[key] = opt
	}
	for key, label := range cs.Labels {
		l.labels[key] = label
	}
}

// EncodeDescription packs the user description and column structure
// into the versioned envelope stored in the deck's description field.
func EncodeDescription(userDescription string, columns *ColumnStructure) (string, error) {
	data, err := json.Marshal(descriptionEnvelope{
		Version:     EnvelopeVersion,
		Description: userDescription,
		Columns:     columns,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode description envelope: %w", err)
	}
	return string(data), nil
}

// DecodeDescription unpacks a stored description. Legacy formats are
// migrated: an unversioned JSON bundle yields its embedded fields, and
// anything that does not parse as JSON is treated as a plain-text
// description with no column structure.
func DecodeDescription(raw string) (string, *ColumnStructure) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return raw, nil
	}

	var env descriptionEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err == nil && env.Version >= 1 {
		return env.Description, env.Columns
	}

	var legacy legacyDescription
	if err := json.Unmarshal([]byte(trimmed), &legacy); err == nil &&
		(legacy.UserDescription != "" || legacy.ColumnStructure != nil) {
		return legacy.UserDescription, legacy.ColumnStructure
	}

	return raw, nil
}
