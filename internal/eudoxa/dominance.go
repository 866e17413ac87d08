package eudoxa

import "github.com/HendryAvila/eudoxa/internal/errors"

// Verdict is the result of a dominance test.
type Verdict uint8

const (
	VerdictFalse Verdict = iota
	VerdictTrue
	// VerdictIndeterminate means some aspect relation is unknown.
	VerdictIndeterminate
)

func (v Verdict) String() string {
	switch v {
	case VerdictTrue:
		return "true"
	case VerdictIndeterminate:
		return "indeterminate"
	default:
		return "false"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Dominates reports whether ca is at least as good as cb on every aspect
// and strictly better on at least one. A strictly-worse aspect decides
// false; otherwise an unknown aspect makes the verdict indeterminate.
func (m *Model) Dominates(ca, cb Consequence) (Verdict, error) {
	rels := make([]LevelRelation, 0, len(m.aspects))
	for _, a := range m.aspects {
		la, lb := ca[a.name], cb[a.name]
		if la == "" || lb == "" {
			return VerdictFalse, errors.NewUnknownReference(
				"consequence level for aspect %q is undefined", a.name)
		}
		if err := a.checkLevel(la); err != nil {
			return VerdictFalse, err
		}
		if err := a.checkLevel(lb); err != nil {
			return VerdictFalse, err
		}
		rel, err := levelRelation(m.matrix, a.name, la, lb)
		if err != nil {
			return VerdictFalse, err
		}
		rels = append(rels, rel)
	}

	unknown, nonWorse, better := false, true, 0
	for _, rel := range rels {
		switch rel {
		case Worse:
			return VerdictFalse, nil
		case RelUnknown:
			unknown = true
		case Better:
			better++
		case WorseOrEqual:
			nonWorse = false
		}
	}
	switch {
	case unknown:
		return VerdictIndeterminate, nil
	case nonWorse && better > 0:
		return VerdictTrue, nil
	default:
		return VerdictFalse, nil
	}
}

// DominatesNamed runs Dominates on two named consequences.
func (m *Model) DominatesNamed(from, to string) (Verdict, error) {
	ca, err := m.Consequence(from)
	if err != nil {
		return VerdictFalse, err
	}
	cb, err := m.Consequence(to)
	if err != nil {
		return VerdictFalse, err
	}
	return m.Dominates(ca, cb)
}

// DominancePair is one ordered pair of named consequences.
type DominancePair struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// DominanceTable holds the verdicts over all named consequences.
type DominanceTable struct {
	Dominates     []DominancePair `json:"dominates"`
	Indeterminate []DominancePair `json:"indeterminate,omitempty"`
	// Incomplete lists consequences left out because some aspect is undefined.
	Incomplete []string `json:"incomplete,omitempty"`
}

// DominanceTable tests every ordered pair of complete named consequences.
func (m *Model) DominanceTable() (*DominanceTable, error) {
	t := &DominanceTable{}
	var complete []NamedConsequence
	for _, nc := range m.named {
		if nc.Levels.Complete() {
			complete = append(complete, nc)
		} else {
			t.Incomplete = append(t.Incomplete, nc.Name)
		}
	}
	for _, a := range complete {
		for _, b := range complete {
			if a.Name == b.Name {
				continue
			}
			v, err := m.Dominates(a.Levels, b.Levels)
			if err != nil {
				return nil, errors.Wrapf(err, "dominance %s over %s", a.Name, b.Name)
			}
			switch v {
			case VerdictTrue:
				t.Dominates = append(t.Dominates, DominancePair{From: a.Name, To: b.Name})
			case VerdictIndeterminate:
				t.Indeterminate = append(t.Indeterminate, DominancePair{From: a.Name, To: b.Name})
			}
		}
	}
	return t, nil
}
