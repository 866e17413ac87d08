package eudoxa

import (
	"maps"
	"slices"
	"strings"

	"github.com/HendryAvila/eudoxa/internal/errors"
)

// Consequence assigns a level to every aspect. An empty level means
// undefined, which happens for aspects added after the consequence.
type Consequence map[string]string

func (c Consequence) clone() Consequence {
	return maps.Clone(c)
}

// Equal compares the full mapping.
func (c Consequence) Equal(other Consequence) bool {
	return maps.Equal(c, other)
}

// Complete reports whether every aspect has a level.
func (c Consequence) Complete() bool {
	for _, l := range c {
		if l == "" {
			return false
		}
	}
	return true
}

// NamedConsequence binds a short name to a consequence.
type NamedConsequence struct {
	Name   string      `json:"name" yaml:"name"`
	Levels Consequence `json:"levels" yaml:"levels"`
}

// ─── Consequence space ───────────────────────────────────────────────────────

// growSpace extends the space after a level was appended to a. The first
// level fills the placeholder; later levels append {level} × the product of
// the other aspects' levels.
func (m *Model) growSpace(a *Aspect, level string) {
	if len(a.levels) == 1 {
		for _, c := range m.space {
			c[a.name] = level
		}
		return
	}

	partial := []Consequence{{a.name: level}}
	for _, b := range m.aspects {
		if b == a {
			continue
		}
		ids := b.LevelIDs()
		if len(ids) == 0 {
			ids = []string{""}
		}
		next := make([]Consequence, 0, len(partial)*len(ids))
		for _, p := range partial {
			for _, id := range ids {
				c := p.clone()
				c[b.name] = id
				next = append(next, c)
			}
		}
		partial = next
	}
	m.space = append(m.space, partial...)
}

// SpaceSize returns the number of consequences in the space.
func (m *Model) SpaceSize() int { return len(m.space) }

// Space returns a copy of the consequences in [offset, offset+limit).
// A non-positive limit returns everything from offset.
func (m *Model) Space(offset, limit int) []Consequence {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(m.space) {
		return nil
	}
	end := len(m.space)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]Consequence, 0, end-offset)
	for _, c := range m.space[offset:end] {
		out = append(out, c.clone())
	}
	return out
}

// Format renders a consequence as ⟨l1, l2, …⟩ in aspect order.
func (m *Model) Format(c Consequence) string {
	parts := make([]string, len(m.aspects))
	for i, a := range m.aspects {
		l := c[a.name]
		if l == "" {
			l = "?"
		}
		parts[i] = l
	}
	return "⟨" + strings.Join(parts, ", ") + "⟩"
}

// ─── Named consequences ──────────────────────────────────────────────────────

// AddConsequence binds name to levels. The keys must be exactly the
// registered aspects; unknown levels are created.
func (m *Model) AddConsequence(name string, levels map[string]string) error {
	if err := m.checkConsequence(name, levels, false); err != nil {
		return err
	}
	for _, a := range m.aspects {
		if _, err := m.AddLevel(a.name, levels[a.name], ""); err != nil {
			return err
		}
	}
	m.bind(name, Consequence(levels).clone())
	return nil
}

// checkConsequence validates a binding without touching the model. With
// allowUndefined an empty level leaves the aspect undefined.
func (m *Model) checkConsequence(name string, levels map[string]string, allowUndefined bool) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewInvalidRequest("consequence name is empty")
	}
	if _, ok := m.names[name]; ok {
		return errors.Wrapf(errors.ErrDuplicate, "consequence %q", name)
	}
	var missing, extra []string
	for _, a := range m.aspects {
		if _, ok := levels[a.name]; !ok {
			missing = append(missing, a.name)
		}
	}
	for k := range levels {
		if _, ok := m.byName[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		slices.Sort(extra)
		return errors.WithDetailf(
			errors.Wrapf(errors.ErrSchemaMismatch, "consequence %q", name),
			"missing aspects: %v; unknown aspects: %v", missing, extra,
		)
	}
	// Validate every level before creating any of them.
	for _, a := range m.aspects {
		l := levels[a.name]
		if l == "" {
			if allowUndefined {
				continue
			}
			return errors.NewInvalidRequest("consequence %q leaves aspect %q undefined", name, a.name)
		}
		if !a.HasLevel(l) {
			if err := a.kind.Validate(l); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Model) bind(name string, c Consequence) {
	m.names[name] = len(m.named)
	m.named = append(m.named, NamedConsequence{Name: name, Levels: c})
	m.revision++
}

// RemoveConsequence drops a named consequence and reports whether it existed.
func (m *Model) RemoveConsequence(name string) bool {
	i, ok := m.names[name]
	if !ok {
		return false
	}
	m.named = slices.Delete(m.named, i, i+1)
	delete(m.names, name)
	for j := i; j < len(m.named); j++ {
		m.names[m.named[j].Name] = j
	}
	m.revision++
	return true
}

// Consequence returns a copy of a named consequence.
func (m *Model) Consequence(name string) (Consequence, error) {
	i, ok := m.names[name]
	if !ok {
		return nil, errors.NewUnknownReference("consequence %q", name)
	}
	return m.named[i].Levels.clone(), nil
}

// Consequences returns the named consequences in insertion order.
func (m *Model) Consequences() []NamedConsequence {
	out := make([]NamedConsequence, len(m.named))
	for i, nc := range m.named {
		out[i] = NamedConsequence{Name: nc.Name, Levels: nc.Levels.clone()}
	}
	return out
}
