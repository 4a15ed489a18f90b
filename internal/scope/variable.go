package scope

import (
	"estscope/internal/estree"
	"estscope/internal/source"
)

// Variable is one named binding owned by one scope.
type Variable struct {
	Name        source.StringID
	Scope       ScopeID
	Defs        []Definition
	Identifiers []*estree.Node
	References  []ReferenceID
	// Used is set by indirect references (JSX pragmas) and by consumers
	// that want to mark a binding as live without a syntactic read.
	Used bool
}

// IsValueVariable reports whether any definition is value-capable. A
// variable without definitions is compatible with everything.
func (v *Variable) IsValueVariable() bool {
	if len(v.Defs) == 0 {
		return true
	}
	for i := range v.Defs {
		if v.Defs[i].IsValue {
			return true
		}
	}
	return false
}

// IsTypeVariable reports whether any definition is type-capable.
func (v *Variable) IsTypeVariable() bool {
	if len(v.Defs) == 0 {
		return true
	}
	for i := range v.Defs {
		if v.Defs[i].IsType {
			return true
		}
	}
	return false
}
