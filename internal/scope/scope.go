package scope

import (
	"estscope/internal/estree"
	"estscope/internal/source"
)

// Scope is one node of the scope tree.
type Scope struct {
	Kind     Kind
	Block    *estree.Node
	Upper    ScopeID
	Children []ScopeID
	// Variables and References keep source encounter order.
	Variables  []VariableID
	Set        map[source.StringID]VariableID
	References []ReferenceID
	// Through holds references that left this scope unresolved.
	Through       []ReferenceID
	Strict        bool
	Dynamic       bool
	VariableScope ScopeID
	// FunctionExpressionScope marks the name scope of a named function
	// expression.
	FunctionExpressionScope bool
	// Implicit is only set on the global scope.
	Implicit *Implicit

	queue    []ReferenceID
	indirect []source.StringID
	closed   bool
}

// Implicit collects globals created by sloppy-mode assignments to
// undeclared names. They are not part of the global scope's Variables.
type Implicit struct {
	Set           map[source.StringID]VariableID
	Variables     []VariableID
	LeftToResolve []ReferenceID
}

// IsClosed reports whether the scope has run its resolution pass.
func (s *Scope) IsClosed() bool {
	return s.closed
}

// IsStatic reports whether references in this scope resolve lexically.
func (s *Scope) IsStatic() bool {
	return !s.Dynamic
}

// ClassScope is a handle to an open class scope. Field-initializer and
// static-block scopes can only be nested through it.
type ClassScope struct {
	id ScopeID
}

func (c ClassScope) ID() ScopeID {
	return c.id
}
