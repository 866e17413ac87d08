package eudoxa

import (
	"strings"

	"github.com/HendryAvila/eudoxa/internal/errors"
)

// Ternary is the value of one matrix entry: whether the left value
// difference is at least as great as the right one.
type Ternary uint8

const (
	Unknown Ternary = iota
	True
	False
)

// String returns the matrix symbol: ⊒ for true, ⋣ for false, empty for unknown.
func (t Ternary) String() string {
	switch t {
	case True:
		return "⊒"
	case False:
		return "⋣"
	default:
		return ""
	}
}

// Name returns the word form used in records and tool output.
func (t Ternary) Name() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// ParseTernary accepts the symbol or the word form.
func ParseTernary(s string) (Ternary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "⊒", "true", "t":
		return True, nil
	case "⋣", "false", "f":
		return False, nil
	case "", "unknown", "u":
		return Unknown, nil
	}
	return Unknown, errors.NewInvalidRequest("ternary value %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Ternary) MarshalText() ([]byte, error) {
	return []byte(t.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Ternary) UnmarshalText(b []byte) error {
	v, err := ParseTernary(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
