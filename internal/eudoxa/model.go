// Package eudoxa is the qualitative decision engine: a registry of aspects
// and levels, the ternary comparison matrix over value differences, the
// protocol that turns qualitative labels into matrix facts, the deductive
// closure, and dominance over the consequence space.
//
// A Model is not safe for concurrent use. Callers serialize access, one
// model per session.
package eudoxa

import (
	"strings"

	"github.com/HendryAvila/eudoxa/internal/errors"
)

// LevelRef names one level of one aspect.
type LevelRef struct {
	Aspect string `json:"aspect" yaml:"aspect"`
	Level  string `json:"level" yaml:"level"`
}

// Model owns the registry, the matrix, the consequence space and the
// named consequences.
type Model struct {
	aspects []*Aspect
	byName  map[string]*Aspect
	matrix  *Matrix

	space []Consequence
	named []NamedConsequence
	names map[string]int

	// order is the global level insertion order, kept so a record replays
	// the consequence space in the same sequence.
	order []LevelRef

	revision uint64
}

// New returns an empty model whose consequence space holds the single
// empty consequence.
func New() *Model {
	return &Model{
		byName: make(map[string]*Aspect),
		matrix: newMatrix(),
		space:  []Consequence{{}},
		names:  make(map[string]int),
	}
}

// Revision increases on every mutation.
func (m *Model) Revision() uint64 { return m.revision }

// Matrix exposes read access to the comparison matrix.
func (m *Model) Matrix() *Matrix { return m.matrix }

// ─── Registry ────────────────────────────────────────────────────────────────

// AddAspect registers a new aspect and inserts an undefined placeholder for
// it into every existing consequence.
func (m *Model) AddAspect(name string, kind Kind, description string) (*Aspect, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewInvalidRequest("aspect name is empty")
	}
	if _, ok := m.byName[name]; ok {
		return nil, errors.Wrapf(errors.ErrDuplicate, "aspect %q", name)
	}
	if kind == "" {
		kind = KindText
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}

	a := newAspect(name, kind, description)
	m.aspects = append(m.aspects, a)
	m.byName[name] = a
	m.matrix.expand(a, m.aspects)

	for _, c := range m.space {
		c[name] = ""
	}
	for _, nc := range m.named {
		nc.Levels[name] = ""
	}
	m.revision++
	return a, nil
}

// AddLevel appends a level to an aspect. It reports false, without error,
// when the level already exists.
func (m *Model) AddLevel(aspect, level, description string) (bool, error) {
	a, err := m.Aspect(aspect)
	if err != nil {
		return false, err
	}
	if level == "" {
		return false, errors.NewInvalidRequest("level of aspect %q is empty", aspect)
	}
	if a.HasLevel(level) {
		return false, nil
	}
	if err := a.kind.Validate(level); err != nil {
		return false, err
	}

	a.appendLevel(level, description)
	m.matrix.expand(a, m.aspects)
	m.growSpace(a, level)
	m.order = append(m.order, LevelRef{Aspect: aspect, Level: level})
	m.revision++
	return true, nil
}

// Aspect looks up an aspect by name.
func (m *Model) Aspect(name string) (*Aspect, error) {
	a, ok := m.byName[name]
	if !ok {
		return nil, errors.WithHint(
			errors.NewUnknownReference("aspect %q", name),
			"register the aspect before using it",
		)
	}
	return a, nil
}

// Aspects returns the aspects in creation order.
func (m *Model) Aspects() []*Aspect {
	out := make([]*Aspect, len(m.aspects))
	copy(out, m.aspects)
	return out
}

// AspectNames returns the aspect names in creation order.
func (m *Model) AspectNames() []string {
	out := make([]string, len(m.aspects))
	for i, a := range m.aspects {
		out[i] = a.name
	}
	return out
}

// checkDiff verifies that a diff refers to registered names. Only the zero
// diff may leave both ends undefined.
func (m *Model) checkDiff(d VDiff) error {
	a, err := m.Aspect(d.Aspect)
	if err != nil {
		return err
	}
	if d.From == "" && d.To == "" {
		return nil
	}
	if d.From == "" || d.To == "" {
		return errors.NewInvalidRequest("diff %s has one undefined end", d)
	}
	if err := a.checkLevel(d.From); err != nil {
		return err
	}
	return a.checkLevel(d.To)
}

// diffs enumerates, per aspect, the full square of (from, to) level pairs.
func (m *Model) diffs() []VDiff {
	var out []VDiff
	for _, a := range m.aspects {
		for _, from := range a.levels {
			for _, to := range a.levels {
				out = append(out, Diff(a.name, from.ID, to.ID))
			}
		}
	}
	return out
}
