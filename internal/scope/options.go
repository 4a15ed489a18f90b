package scope

import (
	"fmt"

	"estscope/internal/trace"
)

// SourceType selects script or module semantics.
type SourceType string

const (
	SourceScript SourceType = "script"
	SourceModule SourceType = "module"
)

func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(s) {
	case "", SourceScript:
		return SourceScript, nil
	case SourceModule:
		return SourceModule, nil
	default:
		return "", fmt.Errorf("invalid source type %q (expected: script|module)", s)
	}
}

// Options configures a Manager.
type Options struct {
	SourceType SourceType
	// ECMAVersion accepts edition numbers (5, 6, ...) or years (2015, ...).
	// Zero means the latest edition.
	ECMAVersion int
	// Hints pre-sizes the arenas.
	Hints  Hints
	Tracer trace.Tracer
}

// Hints are capacity hints for the arenas.
type Hints struct {
	Scopes, Variables, References uint
}

func (o Options) IsModule() bool {
	return o.SourceType == SourceModule
}

func (o Options) edition() int {
	v := o.ECMAVersion
	if v >= 2015 {
		v -= 2009
	}
	return v
}

// BlockScoping reports whether let/const and block scopes exist.
func (o Options) BlockScoping() bool {
	return o.ECMAVersion == 0 || o.edition() >= 6
}

// StrictModeSupported reports whether "use strict" has any effect.
func (o Options) StrictModeSupported() bool {
	return o.ECMAVersion == 0 || o.edition() >= 5
}

// LatestEdition is the newest edition number accepted by CheckECMAVersion.
const LatestEdition = 17

// CheckECMAVersion accepts 0, 3, 5, editions 6 through LatestEdition and
// the matching years.
func CheckECMAVersion(v int) error {
	o := Options{ECMAVersion: v}
	switch e := o.edition(); {
	case v == 0, e == 3, e == 5, e >= 6 && e <= LatestEdition:
		return nil
	default:
		return fmt.Errorf("invalid ECMAScript version %d", v)
	}
}
