package eudoxa

import (
	"strconv"
	"strings"

	"github.com/HendryAvila/eudoxa/internal/errors"
)

// --- Value kind ---

// Kind is the primitive type of an aspect's levels. It only affects parsing
// and display; comparisons always go through the matrix.
type Kind string

const (
	KindInt  Kind = "int"
	KindReal Kind = "float"
	KindText Kind = "str"
)

// ParseKind accepts the stored names plus their long forms.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer":
		return KindInt, nil
	case "float", "real", "number":
		return KindReal, nil
	case "str", "string", "text", "":
		return KindText, nil
	}
	return "", errors.NewInvalidRequest("value kind %q", s)
}

// Validate checks that a level identifier can be read as this kind.
func (k Kind) Validate(level string) error {
	switch k {
	case KindInt:
		if _, err := strconv.ParseInt(level, 10, 64); err != nil {
			return errors.NewInvalidRequest("level %q is not an integer", level)
		}
	case KindReal:
		if _, err := strconv.ParseFloat(level, 64); err != nil {
			return errors.NewInvalidRequest("level %q is not a real number", level)
		}
	}
	return nil
}

// Materialize converts a level identifier to its typed value for display
// and spreadsheet cells.
func (k Kind) Materialize(level string) (any, error) {
	switch k {
	case KindInt:
		v, err := strconv.ParseInt(level, 10, 64)
		if err != nil {
			return nil, errors.NewInvalidRequest("level %q is not an integer", level)
		}
		return v, nil
	case KindReal:
		v, err := strconv.ParseFloat(level, 64)
		if err != nil {
			return nil, errors.NewInvalidRequest("level %q is not a real number", level)
		}
		return v, nil
	default:
		return level, nil
	}
}

// --- Aspect ---

// Level is one value of an aspect.
type Level struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Aspect is a named evaluation dimension. Levels are only ever appended.
type Aspect struct {
	name        string
	kind        Kind
	description string
	levels      []Level
	index       map[string]int
	diffs       []VDiff
}

func newAspect(name string, kind Kind, description string) *Aspect {
	return &Aspect{
		name:        name,
		kind:        kind,
		description: description,
		index:       make(map[string]int),
		diffs:       []VDiff{Zero(name)},
	}
}

func (a *Aspect) Name() string        { return a.name }
func (a *Aspect) Kind() Kind          { return a.kind }
func (a *Aspect) Description() string { return a.description }

// Levels returns a copy of the levels in insertion order.
func (a *Aspect) Levels() []Level {
	out := make([]Level, len(a.levels))
	copy(out, a.levels)
	return out
}

// LevelIDs returns the level identifiers in insertion order.
func (a *Aspect) LevelIDs() []string {
	out := make([]string, len(a.levels))
	for i, l := range a.levels {
		out[i] = l.ID
	}
	return out
}

// HasLevel reports whether the level is registered.
func (a *Aspect) HasLevel(id string) bool {
	_, ok := a.index[id]
	return ok
}

// Diffs returns a copy of the aspect's diffs; the zero diff comes first.
func (a *Aspect) Diffs() []VDiff {
	out := make([]VDiff, len(a.diffs))
	copy(out, a.diffs)
	return out
}

// appendLevel adds the level and the reciprocal diffs to every prior level.
func (a *Aspect) appendLevel(id, description string) {
	for _, prior := range a.levels {
		a.diffs = append(a.diffs,
			Diff(a.name, prior.ID, id),
			Diff(a.name, id, prior.ID),
		)
	}
	a.index[id] = len(a.levels)
	a.levels = append(a.levels, Level{ID: id, Description: description})
}

func (a *Aspect) checkLevel(id string) error {
	if !a.HasLevel(id) {
		return errors.WithHint(
			errors.NewUnknownReference("level %q of aspect %q", id, a.name),
			"add the level first",
		)
	}
	return nil
}
