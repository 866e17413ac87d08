package eudoxa

import (
	"strings"

	"github.com/HendryAvila/eudoxa/internal/errors"
)

// --- Within-aspect labels ---

// LevelRelation is the qualitative order between two levels of one aspect.
type LevelRelation uint8

const (
	RelUnknown LevelRelation = iota
	Better
	BetterOrEqual
	Equal
	WorseOrEqual
	Worse
)

var levelRelationSymbols = [...]string{"", "≻", "⪰", "∼", "⪯", "≺"}

var levelRelationNames = [...]string{
	"unknown", "strictly-better", "better-or-equal", "equal", "worse-or-equal", "strictly-worse",
}

// String returns the relation symbol (empty for unknown).
func (r LevelRelation) String() string { return levelRelationSymbols[r] }

// Name returns the hyphenated word form.
func (r LevelRelation) Name() string { return levelRelationNames[r] }

// ParseLevelRelation accepts a symbol, the word form, or the short codes
// BT, BTE, EQ, WTE, WT.
func ParseLevelRelation(s string) (LevelRelation, error) {
	v := strings.TrimSpace(s)
	for i, sym := range levelRelationSymbols {
		if v == sym || strings.EqualFold(v, levelRelationNames[i]) {
			return LevelRelation(i), nil
		}
	}
	switch strings.ToUpper(v) {
	case "BT", ">":
		return Better, nil
	case "BTE", ">=":
		return BetterOrEqual, nil
	case "EQ", "=":
		return Equal, nil
	case "WTE", "<=":
		return WorseOrEqual, nil
	case "WT", "<":
		return Worse, nil
	}
	return RelUnknown, errors.NewInvalidRequest("level relation %q", s)
}

// Reverse returns the relation seen from the other level.
func (r LevelRelation) Reverse() LevelRelation {
	switch r {
	case Better:
		return Worse
	case BetterOrEqual:
		return WorseOrEqual
	case WorseOrEqual:
		return BetterOrEqual
	case Worse:
		return Better
	default:
		return r
	}
}

// levelFacts are the four writes against the zero diff for one label,
// in the order ab vs z, ba vs z, z vs ab, z vs ba.
type levelFacts [4]Ternary

var levelRelationFacts = [...]levelFacts{
	RelUnknown:    {Unknown, Unknown, Unknown, Unknown},
	Better:        {True, False, False, True},
	BetterOrEqual: {True, Unknown, Unknown, True},
	Equal:         {True, True, True, True},
	WorseOrEqual:  {Unknown, True, True, Unknown},
	Worse:         {False, True, True, False},
}

// readLevelRelation maps the facts (ab vs z, z vs ab) back to a label.
// ok is false for the combinations no consistent matrix can hold.
func readLevelRelation(abZ, zAb Ternary) (LevelRelation, bool) {
	switch {
	case abZ == True && zAb == False:
		return Better, true
	case abZ == True && zAb == Unknown:
		return BetterOrEqual, true
	case abZ == True && zAb == True:
		return Equal, true
	case abZ == Unknown && zAb == True:
		return WorseOrEqual, true
	case abZ == False && zAb == True:
		return Worse, true
	case abZ == Unknown && zAb == Unknown:
		return RelUnknown, true
	}
	return RelUnknown, false
}

// --- Cross-aspect labels ---

// DiffRelation compares two value differences, possibly of different aspects.
type DiffRelation uint8

const (
	Greater DiffRelation = iota + 1
	GreaterOrEqual
	DiffEqual
	LessOrEqual
	Less
)

var diffRelationSymbols = map[DiffRelation]string{
	Greater:        "⊐",
	GreaterOrEqual: "⊒",
	DiffEqual:      "≜",
	LessOrEqual:    "⊑",
	Less:           "⊏",
}

var diffRelationNames = map[DiffRelation]string{
	Greater:        "strictly-greater",
	GreaterOrEqual: "greater-or-equal",
	DiffEqual:      "difference-equal",
	LessOrEqual:    "less-or-equal",
	Less:           "strictly-less",
}

// String returns the relation symbol.
func (r DiffRelation) String() string { return diffRelationSymbols[r] }

// Name returns the hyphenated word form.
func (r DiffRelation) Name() string { return diffRelationNames[r] }

// ParseDiffRelation accepts a symbol, the word form, or GT, GTE, DEQ, LTE, LT.
func ParseDiffRelation(s string) (DiffRelation, error) {
	v := strings.TrimSpace(s)
	for r := Greater; r <= Less; r++ {
		if v == diffRelationSymbols[r] || strings.EqualFold(v, diffRelationNames[r]) {
			return r, nil
		}
	}
	switch strings.ToUpper(v) {
	case "GT", ">":
		return Greater, nil
	case "GTE", ">=":
		return GreaterOrEqual, nil
	case "DEQ", "=":
		return DiffEqual, nil
	case "LTE", "<=":
		return LessOrEqual, nil
	case "LT", "<":
		return Less, nil
	}
	return 0, errors.NewInvalidRequest("difference relation %q", s)
}
