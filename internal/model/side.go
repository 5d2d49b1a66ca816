package model

import (
	"fmt"
	"strings"
)

// Side is a jurisdictional division of the High Court. Each side publishes
// its own cause list.
type Side int

const (
	// SideUnknown is the zero value and never valid in a request.
	SideUnknown Side = iota
	// SideOriginal is the Original Side.
	SideOriginal
	// SideAppellate is the Appellate Side.
	SideAppellate
)

// Sides lists the known sides in display order.
var Sides = []Side{SideOriginal, SideAppellate}

// sideAliases maps normalized user input to a side.
var sideAliases = map[string]Side{
	"original side":  SideOriginal,
	"original":       SideOriginal,
	"os":             SideOriginal,
	"appellate side": SideAppellate,
	"appellate":      SideAppellate,
	"as":             SideAppellate,
}

// ParseSide normalizes a side label. Matching is case-insensitive and
// tolerates repeated spaces, so "appellate   SIDE" yields SideAppellate.
func ParseSide(s string) (Side, error) {
	key := strings.ToLower(strings.Join(strings.Fields(s), " "))
	if side, ok := sideAliases[key]; ok {
		return side, nil
	}
	return SideUnknown, NewInvalidInputError("side",
		"%q is not a known side, must be one of: %s, %s", s, SideOriginal, SideAppellate)
}

// String returns the canonical label ("Original Side", "Appellate Side").
func (s Side) String() string {
	switch s {
	case SideOriginal:
		return "Original Side"
	case SideAppellate:
		return "Appellate Side"
	default:
		return "Unknown Side"
	}
}

// Key returns the lowercase key used in configuration files.
func (s Side) Key() string {
	switch s {
	case SideOriginal:
		return "original"
	case SideAppellate:
		return "appellate"
	default:
		return ""
	}
}

// Jurisdiction returns the heading printed on the published list.
func (s Side) Jurisdiction() string {
	switch s {
	case SideOriginal:
		return "Original Jurisdiction"
	case SideAppellate:
		return "Appellate Jurisdiction"
	default:
		return ""
	}
}

// Valid reports whether s is one of the known sides.
func (s Side) Valid() bool {
	return s == SideOriginal || s == SideAppellate
}

// MarshalText encodes the canonical label.
func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal side %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts any alias understood by ParseSide.
func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}
