package eudoxa

import "fmt"

// VDiff is a value difference: the transition between two levels of one
// aspect. From and To are empty for the aspect's abstract zero.
type VDiff struct {
	Aspect string `json:"aspect" yaml:"aspect"`
	From   string `json:"from,omitempty" yaml:"from,omitempty"`
	To     string `json:"to,omitempty" yaml:"to,omitempty"`
}

// Zero returns the abstract zero diff of an aspect.
func Zero(aspect string) VDiff {
	return VDiff{Aspect: aspect}
}

// Diff returns the diff from one level to another.
func Diff(aspect, from, to string) VDiff {
	return VDiff{Aspect: aspect, From: from, To: to}
}

// NaturalZero reports whether the diff represents no change.
func (d VDiff) NaturalZero() bool {
	return d.From == d.To
}

// Inv returns the diff with from and to swapped.
func (d VDiff) Inv() VDiff {
	return VDiff{Aspect: d.Aspect, From: d.To, To: d.From}
}

func (d VDiff) String() string {
	if d.NaturalZero() {
		return fmt.Sprintf("%s(0)", d.Aspect)
	}
	return fmt.Sprintf("%s(%s→%s)", d.Aspect, d.From, d.To)
}

// diffKey indexes a diff inside one aspect's block of the matrix.
// Every natural-zero diff shares zeroKey.
type diffKey struct {
	from, to string
}

var zeroKey = diffKey{}

func (d VDiff) key() diffKey {
	if d.NaturalZero() {
		return zeroKey
	}
	return diffKey{from: d.From, to: d.To}
}

// fixedTrue reports whether the entry (d1, d2) is a reflexive fact that
// expansion initializes to true and that can never change afterwards.
func fixedTrue(d1, d2 VDiff) bool {
	if d1.key() != d2.key() {
		return false
	}
	return d1.Aspect == d2.Aspect || (d1.NaturalZero() && d2.NaturalZero())
}
