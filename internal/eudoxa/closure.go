package eudoxa

import "github.com/HendryAvila/eudoxa/internal/errors"

// ClosureOptions bounds a closure run.
type ClosureOptions struct {
	// MaxPasses stops the run after that many passes; zero means run to
	// the fixpoint.
	MaxPasses int
}

// ClosureResult is the matrix after applying the inference rules, with the
// derivation trail. When a collision occurred the run stopped at the first
// one and Matrix holds the facts derived up to that point.
type ClosureResult struct {
	Outcome

	Passes    int
	Converged bool

	matrix   *Matrix
	revision uint64
}

// Matrix returns the derived matrix.
func (r *ClosureResult) Matrix() *Matrix { return r.matrix }

// Closure derives every fact entailed by the current matrix. It works on a
// copy; use ApplyClosure to keep the result.
func (m *Model) Closure(opts ClosureOptions) *ClosureResult {
	res := &ClosureResult{matrix: m.matrix.clone(), revision: m.revision}
	diffs := m.diffs()
	groups := groupByAspect(diffs)

	for {
		if opts.MaxPasses > 0 && res.Passes >= opts.MaxPasses {
			return res
		}
		res.Passes++
		before := len(res.Adds)
		if !derivePass(res.matrix, diffs, groups, &res.Outcome) {
			return res
		}
		if len(res.Adds) == before {
			res.Converged = true
			return res
		}
	}
}

// ApplyClosure replaces the model's matrix with the closure result, partial
// or not. A result computed before the model last changed is rejected.
func (m *Model) ApplyClosure(res *ClosureResult) error {
	if res == nil || res.matrix == nil {
		return errors.NewInvalidRequest("empty closure result")
	}
	if res.revision != m.revision {
		return errors.WithHint(
			errors.NewInvalidRequest("closure result is stale (revision %d, model at %d)", res.revision, m.revision),
			"run the closure again",
		)
	}
	m.matrix = res.matrix
	res.matrix = m.matrix.clone()
	if len(res.Adds) > 0 {
		m.revision++
	}
	return nil
}

func groupByAspect(diffs []VDiff) [][]VDiff {
	var groups [][]VDiff
	for i, d := range diffs {
		if i == 0 || d.Aspect != diffs[i-1].Aspect {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], d)
	}
	return groups
}

func rule(r Rule, operands ...VDiff) Origin {
	return Origin{Rule: r, Operands: operands}
}

// derivePass applies every rule once over the enumeration. It returns
// false as soon as a write collides.
func derivePass(mx *Matrix, diffs []VDiff, groups [][]VDiff, out *Outcome) bool {
	set := func(origin Origin, d1, d2 VDiff, v Ternary) bool {
		setFact(mx, origin, d1, d2, v, out)
		return out.Consistent()
	}

	for _, g := range groups {
		for _, cd := range g {
			for _, ef := range g {
				a := cd.Aspect
				ok := true
				switch mx.Get(cd, ef) {
				case True:
					// d-c >= f-e implies e-c >= f-d
					ok = set(rule(RuleDifference, cd, ef),
						Diff(a, cd.From, ef.From), Diff(a, cd.To, ef.To), True)
				case False:
					ok = set(rule(RuleNegativeDifference, cd, ef),
						Diff(a, ef.To, cd.To), Diff(a, ef.From, cd.From), False)
				}
				if !ok {
					return false
				}
			}
		}
	}

	for _, ab := range diffs {
		for _, cd := range diffs {
			abcd := mx.Get(ab, cd)
			if abcd == Unknown {
				continue
			}
			for _, ef := range diffs {
				cdef := mx.Get(cd, ef)
				if cdef == Unknown {
					continue
				}
				ok := true
				switch {
				case abcd == True && cdef == True:
					ok = set(rule(RuleTransitivity, ab, cd, ef), ab, ef, True)
					if ok && ef.NaturalZero() {
						ok = set(rule(RuleInverse, ab, cd, ef), cd.Inv(), ab.Inv(), True)
					}
				case abcd == True && cdef == False:
					if mx.Get(cd, ab) == True {
						ok = set(rule(RuleMixedTransitivity, ab, cd, ef), ab, ef, False)
					}
				case abcd == False && cdef == True:
					if mx.Get(ef, cd) == True {
						ok = set(rule(RuleNegativeMixedTransitivity, ab, cd, ef), ab, ef, False)
					}
				case abcd == False && cdef == False:
					ok = set(rule(RuleNegativeTransitivity, ab, cd, ef), ab, ef, False)
					if ok && ab.NaturalZero() {
						ok = set(rule(RuleNegativeInverse, ab, cd, ef), ef.Inv(), cd.Inv(), False)
					}
				}
				if !ok {
					return false
				}
			}
		}
	}
	return true
}
