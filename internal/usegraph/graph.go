// Package usegraph derives the dependency structure of a program's
// top-level statements from a finished scope.Manager.
package usegraph

import (
	"slices"

	"estscope/internal/estree"
	"estscope/internal/scope"
)

type NodeID uint32

// Node is one top-level statement.
type Node struct {
	Stmt     *estree.Node
	Declares []string
	// Uses lists top-level names referenced inside the statement,
	// including names it declares itself.
	Uses []string
}

// Graph has an edge from a declaring statement to every statement that
// uses one of its names.
type Graph struct {
	Nodes []Node
	Edges [][]NodeID
	Indeg []int
	// Declarer maps each top-level name to its first declaring statement.
	Declarer map[string]NodeID
}

// Build indexes program's body. m must be the analysis of program.
func Build(m *scope.Manager, program *estree.Node) Graph {
	top := topScope(m)
	body := program.List("body")
	g := Graph{
		Nodes:    make([]Node, len(body)),
		Edges:    make([][]NodeID, len(body)),
		Indeg:    make([]int, len(body)),
		Declarer: make(map[string]NodeID),
	}

	owner := make(map[scope.VariableID]NodeID)
	for i, stmt := range body {
		id := mustID(i)
		g.Nodes[i].Stmt = stmt
		for _, vid := range declared(m, stmt) {
			if m.Variable(vid).Scope != top {
				continue
			}
			if _, seen := owner[vid]; !seen {
				owner[vid] = id
			}
			name := m.VarName(vid)
			if !slices.Contains(g.Nodes[i].Declares, name) {
				g.Nodes[i].Declares = append(g.Nodes[i].Declares, name)
			}
			if _, seen := g.Declarer[name]; !seen {
				g.Declarer[name] = id
			}
		}
	}

	uses := make([]map[NodeID]struct{}, len(body))
	for _, sid := range m.Scopes() {
		for _, rid := range m.Scope(sid).References {
			ref := m.Reference(rid)
			vid := target(m, top, ref)
			from, ok := owner[vid]
			if !ok {
				continue
			}
			if ref.Identifier == nil {
				continue
			}
			at, ok := statementAt(body, ref.Identifier)
			if !ok {
				continue
			}
			name := m.VarName(vid)
			if !slices.Contains(g.Nodes[at].Uses, name) {
				g.Nodes[at].Uses = append(g.Nodes[at].Uses, name)
			}
			if from == at {
				continue
			}
			if uses[from] == nil {
				uses[from] = make(map[NodeID]struct{})
			}
			if _, dup := uses[from][at]; dup {
				continue
			}
			uses[from][at] = struct{}{}
			g.Edges[from] = append(g.Edges[from], at)
			g.Indeg[at]++
		}
	}
	for i := range g.Edges {
		slices.Sort(g.Edges[i])
		slices.Sort(g.Nodes[i].Uses)
	}
	return g
}

// topScope is the scope holding top-level declarations.
func topScope(m *scope.Manager) scope.ScopeID {
	for _, child := range m.Scope(m.GlobalScope()).Children {
		if m.Scope(child).Kind == scope.KindModule {
			return child
		}
	}
	return m.GlobalScope()
}

// declared collects the variables a statement introduces, looking through
// export wrappers.
func declared(m *scope.Manager, stmt *estree.Node) []scope.VariableID {
	vars := m.DeclaredVariables(stmt)
	if stmt.Is(estree.ExportNamedDeclaration, estree.ExportDefaultDeclaration) {
		vars = append(vars, m.DeclaredVariables(stmt.Child("declaration"))...)
	}
	return vars
}

// target is the variable a reference reaches. Script-mode globals resolve
// dynamically, so unresolved references are matched by name against the
// global scope.
func target(m *scope.Manager, top scope.ScopeID, ref *scope.Reference) scope.VariableID {
	if ref.Resolved.IsValid() {
		return ref.Resolved
	}
	if top != m.GlobalScope() {
		return scope.NoVariableID
	}
	if vid, ok := m.Lookup(top, m.Name(ref.Name)); ok {
		return vid
	}
	return scope.NoVariableID
}

// statementAt finds the top-level statement containing ident by span.
func statementAt(body []*estree.Node, ident *estree.Node) (NodeID, bool) {
	i, found := slices.BinarySearchFunc(body, ident.Span.Start, func(stmt *estree.Node, off uint32) int {
		switch {
		case stmt.Span.End <= off:
			return -1
		case stmt.Span.Start > off:
			return 1
		default:
			return 0
		}
	})
	if !found {
		return 0, false
	}
	return mustID(i), true
}
