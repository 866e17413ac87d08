package eudoxa

type aspectPair struct {
	left, right string
}

type diffPair struct {
	left, right diffKey
}

// Matrix is the value-difference comparison matrix: for every ordered pair
// of aspects, a sparse map from ordered diff pairs to a ternary fact
// "left is at least as great as right".
type Matrix struct {
	cells map[aspectPair]map[diffPair]Ternary
}

func newMatrix() *Matrix {
	return &Matrix{cells: make(map[aspectPair]map[diffPair]Ternary)}
}

func (mx *Matrix) block(a1, a2 string) map[diffPair]Ternary {
	p := aspectPair{a1, a2}
	b, ok := mx.cells[p]
	if !ok {
		b = make(map[diffPair]Ternary)
		mx.cells[p] = b
	}
	return b
}

// Get returns the fact for (d1, d2). Absent entries read as Unknown.
func (mx *Matrix) Get(d1, d2 VDiff) Ternary {
	v, _ := mx.lookup(d1, d2)
	return v
}

func (mx *Matrix) lookup(d1, d2 VDiff) (Ternary, bool) {
	b, ok := mx.cells[aspectPair{d1.Aspect, d2.Aspect}]
	if !ok {
		return Unknown, false
	}
	v, ok := b[diffPair{d1.key(), d2.key()}]
	return v, ok
}

func (mx *Matrix) put(d1, d2 VDiff, v Ternary) {
	mx.block(d1.Aspect, d2.Aspect)[diffPair{d1.key(), d2.key()}] = v
}

// initialize writes the expansion default for (d1, d2) unless the entry exists.
func (mx *Matrix) initialize(d1, d2 VDiff) {
	b := mx.block(d1.Aspect, d2.Aspect)
	k := diffPair{d1.key(), d2.key()}
	if _, ok := b[k]; ok {
		return
	}
	if fixedTrue(d1, d2) {
		b[k] = True
	} else {
		b[k] = Unknown
	}
}

// Len returns the number of entries, known or not.
func (mx *Matrix) Len() int {
	n := 0
	for _, b := range mx.cells {
		n += len(b)
	}
	return n
}

func (mx *Matrix) clone() *Matrix {
	out := &Matrix{cells: make(map[aspectPair]map[diffPair]Ternary, len(mx.cells))}
	for p, b := range mx.cells {
		nb := make(map[diffPair]Ternary, len(b))
		for k, v := range b {
			nb[k] = v
		}
		out.cells[p] = nb
	}
	return out
}

// equal reports whether both matrices hold the same entries.
func (mx *Matrix) equal(other *Matrix) bool {
	if mx.Len() != other.Len() {
		return false
	}
	for p, b := range mx.cells {
		ob := other.cells[p]
		for k, v := range b {
			ov, ok := ob[k]
			if !ok || ov != v {
				return false
			}
		}
	}
	return true
}

// expand initializes every entry between the diffs of aspect a and the
// diffs of every aspect in all, in both directions.
func (mx *Matrix) expand(a *Aspect, all []*Aspect) {
	for _, b := range all {
		for _, d1 := range b.diffs {
			for _, d2 := range a.diffs {
				mx.initialize(d1, d2)
				mx.initialize(d2, d1)
			}
		}
	}
}
