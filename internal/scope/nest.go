package scope

import (
	"fmt"

	"estscope/internal/estree"
	"estscope/internal/source"
	"estscope/internal/trace"
)

// nest opens a scope of kind for block and makes it current.
func (m *Manager) nest(kind Kind, block *estree.Node, isMethod bool) ScopeID {
	upperID := m.current
	upper := m.Scope(upperID)
	if upper == nil && kind != KindGlobal {
		panic(fmt.Errorf("scope: %s scope opened with no enclosing scope", kind))
	}
	if upper != nil && upper.closed {
		panic(fmt.Errorf("scope: %s scope nested in a closed scope", kind))
	}
	if kind == KindGlobal && m.global.IsValid() {
		panic(fmt.Errorf("scope: global scope opened twice"))
	}
	strict := m.isStrictScope(kind, block, upper, isMethod)
	var variableScope ScopeID
	if upper != nil {
		variableScope = upper.VariableScope
	}

	s := Scope{
		Kind:    kind,
		Block:   block,
		Upper:   upperID,
		Set:     make(map[source.StringID]VariableID),
		Strict:  strict,
		Dynamic: kind.dynamic(),
	}
	if kind == KindGlobal {
		s.Implicit = &Implicit{Set: make(map[source.StringID]VariableID)}
	}
	id := m.scopes.add(s)
	// upper may have moved during add.
	created := m.Scope(id)
	if kind.ownsVariables() {
		created.VariableScope = id
	} else {
		created.VariableScope = variableScope
	}
	if upperID.IsValid() {
		up := m.Scope(upperID)
		up.Children = append(up.Children, id)
	}
	if kind == KindGlobal {
		m.global = id
	}
	if block != nil {
		m.nodeToScope[block] = append(m.nodeToScope[block], id)
	}
	m.current = id
	trace.Point(m.tracer, trace.ScopeNode, "scope.nest", kind.String())
	return id
}

func (m *Manager) NestGlobalScope(program *estree.Node) ScopeID {
	return m.nest(KindGlobal, program, false)
}

func (m *Manager) NestModuleScope(program *estree.Node) ScopeID {
	return m.nest(KindModule, program, false)
}

// NestFunctionScope opens a function scope. Non-arrow functions get the
// implicit `arguments` variable.
func (m *Manager) NestFunctionScope(fn *estree.Node, isMethod bool) ScopeID {
	id := m.nest(KindFunction, fn, isMethod)
	if !fn.Is(estree.ArrowFunction) {
		m.defineArguments(id)
	}
	return id
}

func (m *Manager) defineArguments(id ScopeID) {
	s := m.Scope(id)
	m.defineGeneric(id, &s.Set, &s.Variables, m.names.Intern("arguments"), nil, nil)
}

// NestFunctionExpressionNameScope opens the scope that binds the name of
// a named function expression inside its own body.
func (m *Manager) NestFunctionExpressionNameScope(fn *estree.Node) ScopeID {
	id := m.nest(KindFunctionExpressionName, fn, false)
	m.Scope(id).FunctionExpressionScope = true
	if name := fn.Child("id"); name != nil {
		m.Define(id, name, NewDefinition(DefFunctionName, name, fn, nil))
	}
	return id
}

func (m *Manager) NestBlockScope(block *estree.Node) ScopeID {
	return m.nest(KindBlock, block, false)
}

func (m *Manager) NestCatchScope(clause *estree.Node) ScopeID {
	return m.nest(KindCatch, clause, false)
}

func (m *Manager) NestSwitchScope(stmt *estree.Node) ScopeID {
	return m.nest(KindSwitch, stmt, false)
}

func (m *Manager) NestForScope(stmt *estree.Node) ScopeID {
	return m.nest(KindFor, stmt, false)
}

func (m *Manager) NestWithScope(stmt *estree.Node) ScopeID {
	return m.nest(KindWith, stmt, false)
}

// NestClassScope opens a class scope and returns the handle needed to
// nest its field-initializer and static-block scopes.
func (m *Manager) NestClassScope(class *estree.Node) ClassScope {
	return ClassScope{id: m.nest(KindClass, class, false)}
}

// NestClassFieldInitializerScope opens the scope of one field initializer.
// The current scope must be the class scope.
func (m *Manager) NestClassFieldInitializerScope(cls ClassScope, value *estree.Node) ScopeID {
	m.requireCurrent(cls.id, "class field initializer")
	return m.nest(KindClassFieldInitializer, value, true)
}

// NestClassStaticBlockScope opens the scope of a `static { }` block.
func (m *Manager) NestClassStaticBlockScope(cls ClassScope, block *estree.Node) ScopeID {
	m.requireCurrent(cls.id, "class static block")
	return m.nest(KindClassStaticBlock, block, true)
}

func (m *Manager) requireCurrent(id ScopeID, what string) {
	if m.current != id {
		panic(fmt.Errorf("scope: %s must be nested directly in its class scope", what))
	}
}

func (m *Manager) NestTypeScope(node *estree.Node) ScopeID {
	return m.nest(KindType, node, false)
}

func (m *Manager) NestDeclareModuleScope(node *estree.Node) ScopeID {
	return m.nest(KindDeclareModule, node, false)
}

func (m *Manager) NestDeclareNamespaceScope(node *estree.Node) ScopeID {
	return m.nest(KindDeclareNamespace, node, false)
}

// NestComponentScope opens the scope of a Flow component. Components have
// no `arguments`.
func (m *Manager) NestComponentScope(node *estree.Node) ScopeID {
	return m.nest(KindComponent, node, false)
}

// NestHookScope opens the scope of a Flow hook. Hooks have no `arguments`.
func (m *Manager) NestHookScope(node *estree.Node) ScopeID {
	return m.nest(KindHook, node, false)
}

func (m *Manager) NestMatchCaseScope(node *estree.Node) ScopeID {
	return m.nest(KindMatchCase, node, false)
}
