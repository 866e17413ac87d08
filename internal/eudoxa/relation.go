package eudoxa

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/eudoxa/internal/errors"
)

// --- Provenance ---

// Rule names where a fact came from.
type Rule string

const (
	RuleSet                       Rule = "set"
	RuleLevelRelation             Rule = "level-relation"
	RuleDiffRelation              Rule = "diff-relation"
	RuleReplay                    Rule = "replay"
	RuleTransitivity              Rule = "transitivity"
	RuleInverse                   Rule = "inverse"
	RuleDifference                Rule = "difference"
	RuleNegativeDifference        Rule = "negative-difference"
	RuleNegativeTransitivity      Rule = "negative-transitivity"
	RuleNegativeInverse           Rule = "negative-inverse"
	RuleMixedTransitivity         Rule = "mixed-transitivity"
	RuleNegativeMixedTransitivity Rule = "negative-mixed-transitivity"
)

// Origin is the operation or inference that produced a group of writes.
type Origin struct {
	Rule     Rule    `json:"rule" yaml:"rule"`
	Operands []VDiff `json:"operands,omitempty" yaml:"operands,omitempty"`
	Label    string  `json:"label,omitempty" yaml:"label,omitempty"`
}

func (o Origin) String() string {
	parts := make([]string, len(o.Operands))
	for i, d := range o.Operands {
		parts[i] = d.String()
	}
	s := string(o.Rule)
	if o.Label != "" {
		s += " " + o.Label
	}
	if len(parts) > 0 {
		s += " [" + strings.Join(parts, ", ") + "]"
	}
	return s
}

// DerivationKind tells what a single-fact write did.
type DerivationKind string

const (
	KindAdded     DerivationKind = "add"
	KindUnset     DerivationKind = "unset"
	KindCollision DerivationKind = "collision"
)

// Derivation records one single-fact write: the fact Left ⊒ Right with
// Value, the value found before (Prior), and its origin.
type Derivation struct {
	Kind   DerivationKind `json:"kind" yaml:"kind"`
	Origin Origin         `json:"origin" yaml:"origin"`
	Left   VDiff          `json:"left" yaml:"left"`
	Right  VDiff          `json:"right" yaml:"right"`
	Value  Ternary        `json:"value" yaml:"value"`
	Prior  Ternary        `json:"prior" yaml:"prior"`
}

func (d Derivation) String() string {
	if d.Kind == KindCollision {
		return fmt.Sprintf("%s: %s %s %s conflicts with %s (%s)",
			d.Kind, d.Left, d.Value.Name(), d.Right, d.Prior.Name(), d.Origin)
	}
	return fmt.Sprintf("%s: %s %s %s (%s)", d.Kind, d.Left, d.Value.Name(), d.Right, d.Origin)
}

// Outcome aggregates the writes of one operation.
type Outcome struct {
	Adds       []Derivation `json:"adds,omitempty" yaml:"adds,omitempty"`
	Collisions []Derivation `json:"collisions,omitempty" yaml:"collisions,omitempty"`
}

// Consistent reports whether no write collided.
func (o Outcome) Consistent() bool { return len(o.Collisions) == 0 }

// Trail returns adds followed by collisions.
func (o Outcome) Trail() []Derivation {
	out := make([]Derivation, 0, len(o.Adds)+len(o.Collisions))
	out = append(out, o.Adds...)
	return append(out, o.Collisions...)
}

// Err returns a *ContradictionError when any write collided.
func (o Outcome) Err() error {
	if o.Consistent() {
		return nil
	}
	return &ContradictionError{Collisions: o.Collisions}
}

func (o *Outcome) merge(other Outcome) {
	o.Adds = append(o.Adds, other.Adds...)
	o.Collisions = append(o.Collisions, other.Collisions...)
}

// ContradictionError carries the collisions of a rejected assertion or
// derivation. It unwraps to errors.ErrContradiction.
type ContradictionError struct {
	Collisions []Derivation
}

func (e *ContradictionError) Error() string {
	lines := make([]string, len(e.Collisions))
	for i, c := range e.Collisions {
		lines[i] = c.String()
	}
	return fmt.Sprintf("contradiction: %d collision(s): %s", len(e.Collisions), strings.Join(lines, "; "))
}

func (e *ContradictionError) Unwrap() error { return errors.ErrContradiction }

// ─── Single-fact setter ──────────────────────────────────────────────────────

// setFact is the only place matrix facts change.
//
// Writing unknown normally clears a fact, but reflexive entries (a diff
// against itself, or two natural zeros) are fixed true: any other value
// written to them, unknown included, is reported as a collision.
func setFact(mx *Matrix, origin Origin, d1, d2 VDiff, v Ternary, out *Outcome) {
	cur := mx.Get(d1, d2)
	if cur == v {
		return
	}
	rec := Derivation{Origin: origin, Left: d1, Right: d2, Value: v, Prior: cur}
	switch {
	case fixedTrue(d1, d2):
		rec.Kind = KindCollision
		out.Collisions = append(out.Collisions, rec)
	case v == Unknown:
		mx.put(d1, d2, v)
		rec.Kind = KindUnset
		out.Adds = append(out.Adds, rec)
	case cur == Unknown:
		mx.put(d1, d2, v)
		rec.Kind = KindAdded
		out.Adds = append(out.Adds, rec)
	default:
		rec.Kind = KindCollision
		out.Collisions = append(out.Collisions, rec)
	}
}

func (m *Model) commit(out Outcome) Outcome {
	if len(out.Adds) > 0 {
		m.revision++
	}
	return out
}

// SetDiff asserts a single fact d1 ⊒ d2 (true), d1 ⋣ d2 (false), or clears it.
func (m *Model) SetDiff(d1, d2 VDiff, v Ternary) (Outcome, error) {
	if err := m.checkDiff(d1); err != nil {
		return Outcome{}, err
	}
	if err := m.checkDiff(d2); err != nil {
		return Outcome{}, err
	}
	var out Outcome
	setFact(m.matrix, Origin{Rule: RuleSet, Operands: []VDiff{d1, d2}, Label: v.String()}, d1, d2, v, &out)
	return m.commit(out), nil
}

// SetLevelRelation asserts the order between two levels of one aspect.
// Writes that do not collide are kept even when others do.
func (m *Model) SetLevelRelation(aspect, la string, rel LevelRelation, lb string) (Outcome, error) {
	a, err := m.Aspect(aspect)
	if err != nil {
		return Outcome{}, err
	}
	if err := a.checkLevel(la); err != nil {
		return Outcome{}, err
	}
	if err := a.checkLevel(lb); err != nil {
		return Outcome{}, err
	}
	if int(rel) >= len(levelRelationFacts) {
		return Outcome{}, errors.NewInvalidRequest("level relation %d", rel)
	}

	ab := Diff(aspect, la, lb)
	ba := ab.Inv()
	z := Zero(aspect)
	f := levelRelationFacts[rel]
	origin := Origin{Rule: RuleLevelRelation, Operands: []VDiff{ab}, Label: rel.String()}

	var out Outcome
	setFact(m.matrix, origin, ab, z, f[0], &out)
	setFact(m.matrix, origin, ba, z, f[1], &out)
	setFact(m.matrix, origin, z, ab, f[2], &out)
	setFact(m.matrix, origin, z, ba, f[3], &out)
	return m.commit(out), nil
}

// SetDiffRelation asserts how two value differences compare.
func (m *Model) SetDiffRelation(ab VDiff, rel DiffRelation, cd VDiff) (Outcome, error) {
	if err := m.checkDiff(ab); err != nil {
		return Outcome{}, err
	}
	if err := m.checkDiff(cd); err != nil {
		return Outcome{}, err
	}

	ba, dc := ab.Inv(), cd.Inv()
	origin := Origin{Rule: RuleDiffRelation, Operands: []VDiff{ab, cd}, Label: rel.String()}

	var out Outcome
	set := func(d1, d2 VDiff, v Ternary) { setFact(m.matrix, origin, d1, d2, v, &out) }
	switch rel {
	case Greater:
		set(ab, cd, True)
		set(cd, ab, False)
		set(dc, ba, True)
		set(ba, dc, False)
	case GreaterOrEqual:
		set(ab, cd, True)
	case DiffEqual:
		set(ab, cd, True)
		set(cd, ab, True)
		set(ba, dc, True)
		set(dc, ba, True)
	case LessOrEqual:
		set(cd, ab, True)
	case Less:
		set(cd, ab, True)
		set(ab, cd, False)
		set(ba, dc, True)
		set(dc, ba, False)
	default:
		return Outcome{}, errors.NewInvalidRequest("difference relation %d", rel)
	}
	return m.commit(out), nil
}

// ─── Read-back ───────────────────────────────────────────────────────────────

// LevelRelation derives the order between two levels from the facts
// against the aspect's zero diff.
func (m *Model) LevelRelation(aspect, la, lb string) (LevelRelation, error) {
	a, err := m.Aspect(aspect)
	if err != nil {
		return RelUnknown, err
	}
	if err := a.checkLevel(la); err != nil {
		return RelUnknown, err
	}
	if err := a.checkLevel(lb); err != nil {
		return RelUnknown, err
	}
	return levelRelation(m.matrix, aspect, la, lb)
}

func levelRelation(mx *Matrix, aspect, la, lb string) (LevelRelation, error) {
	ab := Diff(aspect, la, lb)
	z := Zero(aspect)
	abZ, zAb := mx.Get(ab, z), mx.Get(z, ab)
	rel, ok := readLevelRelation(abZ, zAb)
	if !ok {
		return RelUnknown, errors.AssertionFailedf(
			"invalid fact pair for %s: (%s, %s)", ab, abZ.Name(), zAb.Name())
	}
	return rel, nil
}

// Sign holds the sign predicates of one value difference.
type Sign struct {
	Positive    bool `json:"positive"`
	NonNegative bool `json:"non_negative"`
	Zero        bool `json:"zero"`
	NonPositive bool `json:"non_positive"`
	Negative    bool `json:"negative"`
}

// Known reports whether any predicate holds.
func (s Sign) Known() bool {
	return s.Positive || s.NonNegative || s.Zero || s.NonPositive || s.Negative
}

func (s Sign) String() string {
	switch {
	case s.Zero:
		return "zero"
	case s.Positive:
		return "positive"
	case s.Negative:
		return "negative"
	case s.NonNegative:
		return "non-negative"
	case s.NonPositive:
		return "non-positive"
	default:
		return "unknown"
	}
}

// Sign evaluates the sign of the diff from → to against the aspect's zero.
func (m *Model) Sign(aspect, from, to string) (Sign, error) {
	d := Diff(aspect, from, to)
	if err := m.checkDiff(d); err != nil {
		return Sign{}, err
	}
	if d.NaturalZero() {
		return Sign{NonNegative: true, Zero: true, NonPositive: true}, nil
	}
	z := Zero(aspect)
	dz, zd := m.matrix.Get(d, z), m.matrix.Get(z, d)
	return Sign{
		Positive:    dz == True && zd == False,
		NonNegative: dz == True,
		Zero:        dz == True && zd == True,
		NonPositive: zd == True,
		Negative:    dz == False && zd == True,
	}, nil
}
