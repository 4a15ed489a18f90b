package diag

import (
	"fmt"
)

// Code identifies a diagnostic. The thousands digit selects the family:
// 2xxx syntax, 4xxx I/O, 6xxx observability, 9xxx lint.
type Code uint16

const (
	UnknownCode Code = 0

	// Syntax and analysis-mode errors.
	SynInfo              Code = 2000
	SynParseError        Code = 2001
	SynUnsupported       Code = 2002
	SynImportInScript    Code = 2003
	SynComponentDisabled Code = 2004
	SynNotProgram        Code = 2005

	// I/O.
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Observability.
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Lint rules.
	LntInfo           Code = 9000
	LntUndefined      Code = 9001
	LntUnusedVariable Code = 9002
	LntTypeAsValue    Code = 9003
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	SynInfo:              "Syntax information",
	SynParseError:        "Source does not parse",
	SynUnsupported:       "Unsupported syntax",
	SynImportInScript:    "Import declaration outside a module",
	SynComponentDisabled: "Component syntax is disabled",
	SynNotProgram:        "Input is not a Program",
	IOLoadFileError:      "I/O load file error",
	IOCacheError:         "Snapshot cache error",
	ObsInfo:              "Observability information",
	ObsTimings:           "Pipeline timings",
	LntInfo:              "Lint information",
	LntUndefined:         "Reference to an undeclared variable",
	LntUnusedVariable:    "Variable is declared but never used",
	LntTypeAsValue:       "Type-only binding used as a value",
}

// ID renders c with its family prefix, e.g. SYN2001 or LNT9003.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("LNT%04d", ic)
	}
	return "E0000"
}

// Title returns the one-line description, falling back to the unknown code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
