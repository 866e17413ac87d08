package eudoxa

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/eudoxa/internal/errors"
)

// RecordVersion is the current record format.
const RecordVersion = 1

// Record is the serialized form of a model. Reconstruction replays it
// through the registry rather than loading the matrix directly.
type Record struct {
	Version      int                `json:"version" yaml:"version"`
	Aspects      []AspectRecord     `json:"aspects" yaml:"aspects"`
	Consequences []NamedConsequence `json:"consequences,omitempty" yaml:"consequences,omitempty"`
	// LevelOrder is the global order in which levels were added.
	LevelOrder []LevelRef `json:"level_order,omitempty" yaml:"level_order,omitempty"`
	// Facts are the matrix entries that differ from their initial value.
	Facts []Fact `json:"facts,omitempty" yaml:"facts,omitempty"`
}

// AspectRecord is one aspect with its levels and diffs.
type AspectRecord struct {
	Name        string       `json:"name" yaml:"name"`
	Kind        Kind         `json:"kind" yaml:"kind"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Levels      []Level      `json:"levels" yaml:"levels"`
	Diffs       []DiffRecord `json:"diffs" yaml:"diffs"`
}

// DiffRecord is a diff as a from/to pair; both empty for the zero diff.
type DiffRecord struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Fact is one matrix entry.
type Fact struct {
	Left  VDiff   `json:"left" yaml:"left"`
	Right VDiff   `json:"right" yaml:"right"`
	Value Ternary `json:"value" yaml:"value"`
}

// Record exports the model.
func (m *Model) Record() *Record {
	r := &Record{
		Version:      RecordVersion,
		Consequences: m.Consequences(),
		LevelOrder:   append([]LevelRef(nil), m.order...),
	}
	for _, a := range m.aspects {
		ar := AspectRecord{
			Name:        a.name,
			Kind:        a.kind,
			Description: a.description,
			Levels:      a.Levels(),
		}
		for _, d := range a.diffs {
			ar.Diffs = append(ar.Diffs, DiffRecord{From: d.From, To: d.To})
		}
		r.Aspects = append(r.Aspects, ar)
	}
	m.eachEntry(func(d1, d2 VDiff, v Ternary) {
		initial := Unknown
		if fixedTrue(d1, d2) {
			initial = True
		}
		if v != initial {
			r.Facts = append(r.Facts, Fact{Left: d1, Right: d2, Value: v})
		}
	})
	return r
}

// eachEntry visits every pair of registered diffs in a stable order.
func (m *Model) eachEntry(fn func(d1, d2 VDiff, v Ternary)) {
	for _, a1 := range m.aspects {
		for _, a2 := range m.aspects {
			for _, d1 := range a1.diffs {
				for _, d2 := range a2.diffs {
					fn(d1, d2, m.matrix.Get(d1, d2))
				}
			}
		}
	}
}

// KnownFacts returns every entry that is true or false, including the
// reflexive ones.
func (m *Model) KnownFacts() []Fact {
	var out []Fact
	m.eachEntry(func(d1, d2 VDiff, v Ternary) {
		if v != Unknown {
			out = append(out, Fact{Left: d1, Right: d2, Value: v})
		}
	})
	return out
}

// FromRecord rebuilds a model: aspects, then levels, then named
// consequences, then the recorded facts.
func FromRecord(r *Record) (*Model, error) {
	if r == nil {
		return nil, errors.NewInvalidRequest("nil record")
	}
	if r.Version > RecordVersion {
		return nil, errors.NewInvalidRequest("record version %d is newer than %d", r.Version, RecordVersion)
	}

	m := New()
	descriptions := make(map[LevelRef]string)
	for _, ar := range r.Aspects {
		if _, err := m.AddAspect(ar.Name, ar.Kind, ar.Description); err != nil {
			return nil, errors.Wrap(err, "replay aspect")
		}
		for _, l := range ar.Levels {
			descriptions[LevelRef{Aspect: ar.Name, Level: l.ID}] = l.Description
		}
	}

	order := r.LevelOrder
	if len(order) == 0 {
		for _, ar := range r.Aspects {
			for _, l := range ar.Levels {
				order = append(order, LevelRef{Aspect: ar.Name, Level: l.ID})
			}
		}
	}
	for _, ref := range order {
		if _, ok := descriptions[ref]; !ok {
			return nil, errors.WithDetail(
				errors.Wrapf(errors.ErrSchemaMismatch, "level order names %s/%s", ref.Aspect, ref.Level),
				"the level is not listed under its aspect",
			)
		}
		if _, err := m.AddLevel(ref.Aspect, ref.Level, descriptions[ref]); err != nil {
			return nil, errors.Wrap(err, "replay level")
		}
	}

	for _, ar := range r.Aspects {
		a := m.byName[ar.Name]
		if len(a.levels) != len(ar.Levels) {
			return nil, errors.Wrapf(errors.ErrSchemaMismatch, "aspect %q: level order misses levels", ar.Name)
		}
		if err := checkDiffs(a, ar.Diffs); err != nil {
			return nil, err
		}
	}

	for _, nc := range r.Consequences {
		if err := m.RestoreConsequence(nc); err != nil {
			return nil, errors.Wrap(err, "replay consequence")
		}
	}

	var out Outcome
	for _, f := range r.Facts {
		if err := m.checkDiff(f.Left); err != nil {
			return nil, errors.Wrap(err, "replay fact")
		}
		if err := m.checkDiff(f.Right); err != nil {
			return nil, errors.Wrap(err, "replay fact")
		}
		setFact(m.matrix, Origin{Rule: RuleReplay}, f.Left, f.Right, f.Value, &out)
	}
	if err := out.Err(); err != nil {
		return nil, errors.Wrap(err, "replay facts")
	}
	return m, nil
}

// checkDiffs verifies that the recorded diffs are the ones the registry
// generated.
func checkDiffs(a *Aspect, recorded []DiffRecord) error {
	if len(recorded) == 0 {
		return nil
	}
	want := make(map[DiffRecord]bool, len(a.diffs))
	for _, d := range a.diffs {
		want[DiffRecord{From: d.From, To: d.To}] = true
	}
	if len(recorded) != len(want) {
		return errors.Wrapf(errors.ErrSchemaMismatch, "aspect %q: %d diffs recorded, %d expected", a.name, len(recorded), len(want))
	}
	for _, d := range recorded {
		if !want[d] {
			return errors.Wrapf(errors.ErrSchemaMismatch, "aspect %q: unexpected diff %s→%s", a.name, d.From, d.To)
		}
	}
	return nil
}

// RestoreConsequence binds a recorded or imported consequence. Unlike
// AddConsequence it accepts undefined levels for aspects added after the
// consequence.
func (m *Model) RestoreConsequence(nc NamedConsequence) error {
	if nc.Levels.Complete() {
		return m.AddConsequence(nc.Name, nc.Levels)
	}
	if err := m.checkConsequence(nc.Name, nc.Levels, true); err != nil {
		return err
	}
	for _, a := range m.aspects {
		if l := nc.Levels[a.name]; l != "" {
			if _, err := m.AddLevel(a.name, l, ""); err != nil {
				return err
			}
		}
	}
	m.bind(nc.Name, nc.Levels.clone())
	return nil
}

// ParseRecord decodes a record from JSON or YAML.
func ParseRecord(data []byte) (*Record, error) {
	var r Record
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, errors.Wrap(err, "decode JSON record")
		}
		return &r, nil
	}
	if err := yaml.Unmarshal(trimmed, &r); err != nil {
		return nil, errors.Wrap(err, "decode YAML record")
	}
	return &r, nil
}

// YAML encodes the record as YAML.
func (r *Record) YAML() ([]byte, error) {
	out, err := yaml.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "encode YAML record")
	}
	return out, nil
}

// JSON encodes the record as indented JSON.
func (r *Record) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode JSON record")
	}
	return out, nil
}
