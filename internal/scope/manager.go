package scope

import (
	"fmt"
	"slices"

	"estscope/internal/estree"
	"estscope/internal/source"
	"estscope/internal/trace"
)

// Manager owns the scope tree of one analysis: the arenas, the scope
// stack during traversal, and the node registries behind Acquire and
// DeclaredVariables. A Manager is not safe for concurrent mutation; once
// the traversal is finished it is read-only.
type Manager struct {
	opts   Options
	tracer trace.Tracer
	names  *source.Interner

	scopes     arena[Scope, ScopeID]
	variables  arena[Variable, VariableID]
	references arena[Reference, ReferenceID]

	nodeToScope map[*estree.Node][]ScopeID
	declared    map[*estree.Node][]VariableID

	current ScopeID
	global  ScopeID
}

func NewManager(opts Options) *Manager {
	if opts.SourceType == "" {
		opts.SourceType = SourceScript
	}
	h := opts.Hints
	if h.Scopes == 0 {
		h.Scopes = 16
	}
	if h.Variables == 0 {
		h.Variables = 32
	}
	if h.References == 0 {
		h.References = 64
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Manager{
		opts:        opts,
		tracer:      tracer,
		names:       source.NewInterner(),
		scopes:      newArena[Scope, ScopeID]("scopes", h.Scopes),
		variables:   newArena[Variable, VariableID]("variables", h.Variables),
		references:  newArena[Reference, ReferenceID]("references", h.References),
		nodeToScope: make(map[*estree.Node][]ScopeID),
		declared:    make(map[*estree.Node][]VariableID),
	}
}

func (m *Manager) Options() Options { return m.opts }

func (m *Manager) IsModule() bool { return m.opts.IsModule() }

// Scope returns the scope record for id, or nil.
func (m *Manager) Scope(id ScopeID) *Scope { return m.scopes.get(id) }

// Variable returns the variable record for id, or nil.
func (m *Manager) Variable(id VariableID) *Variable { return m.variables.get(id) }

// Reference returns the reference record for id, or nil.
func (m *Manager) Reference(id ReferenceID) *Reference { return m.references.get(id) }

// Definition returns the i-th definition of a variable, or nil.
func (m *Manager) Definition(id VariableID, i int) *Definition {
	v := m.Variable(id)
	if v == nil || i < 0 || i >= len(v.Defs) {
		return nil
	}
	return &v.Defs[i]
}

// IsStatic reports whether a reference was resolved lexically: it is
// bound, untainted, and its variable lives in a static scope.
func (m *Manager) IsStatic(id ReferenceID) bool {
	r := m.Reference(id)
	if r == nil || r.Tainted || !r.Resolved.IsValid() {
		return false
	}
	return m.Scope(m.Variable(r.Resolved).Scope).IsStatic()
}

// Name resolves an interned binding name.
func (m *Manager) Name(id source.StringID) string {
	s, _ := m.names.Lookup(id)
	return s
}

// VarName is Name(Var(id).Name).
func (m *Manager) VarName(id VariableID) string {
	if v := m.Variable(id); v != nil {
		return m.Name(v.Name)
	}
	return ""
}

// RefName returns the identifier name of a reference.
func (m *Manager) RefName(id ReferenceID) string {
	if r := m.Reference(id); r != nil {
		return m.Name(r.Name)
	}
	return ""
}

// Scopes lists every scope in creation order.
func (m *Manager) Scopes() []ScopeID { return m.scopes.ids() }

func (m *Manager) GlobalScope() ScopeID { return m.global }

func (m *Manager) CurrentScope() ScopeID { return m.current }

// Lookup finds a variable declared directly in scope id.
func (m *Manager) Lookup(id ScopeID, name string) (VariableID, bool) {
	s := m.Scope(id)
	if s == nil {
		return NoVariableID, false
	}
	key, ok := m.names.Find(name)
	if !ok {
		return NoVariableID, false
	}
	vid, ok := s.Set[key]
	return vid, ok
}

// Variables returns every variable owned by a scope, deduplicated and
// ordered by id. Implicit globals are excluded.
func (m *Manager) Variables() []VariableID {
	seen := make(map[VariableID]struct{}, m.variables.len())
	out := make([]VariableID, 0, m.variables.len())
	for _, sid := range m.scopes.ids() {
		for _, vid := range m.Scope(sid).Variables {
			if _, dup := seen[vid]; dup {
				continue
			}
			seen[vid] = struct{}{}
			out = append(out, vid)
		}
	}
	slices.Sort(out)
	return out
}

// Acquire returns the scope introduced by node. With several candidates
// the outermost wins unless inner is set. Function-expression-name scopes
// are never returned.
func (m *Manager) Acquire(node *estree.Node, inner bool) (ScopeID, bool) {
	candidates := m.nodeToScope[node]
	if len(candidates) == 0 {
		return NoScopeID, false
	}
	pick := func(id ScopeID) bool {
		return m.Scope(id).Kind != KindFunctionExpressionName
	}
	if inner {
		for i := len(candidates) - 1; i >= 0; i-- {
			if pick(candidates[i]) {
				return candidates[i], true
			}
		}
		return NoScopeID, false
	}
	for _, id := range candidates {
		if pick(id) {
			return id, true
		}
	}
	return NoScopeID, false
}

// DeclaredVariables returns the variables whose definition node or
// definition parent is node.
func (m *Manager) DeclaredVariables(node *estree.Node) []VariableID {
	return slices.Clone(m.declared[node])
}

func (m *Manager) mustCurrent(op string) *Scope {
	s := m.Scope(m.current)
	if s == nil {
		panic(fmt.Errorf("scope: %s with no open scope", op))
	}
	return s
}

// Define adds a definition for ident to scope id. Nodes without a name
// are ignored.
func (m *Manager) Define(id ScopeID, ident *estree.Node, def Definition) VariableID {
	name := ident.Name()
	if name == "" {
		return NoVariableID
	}
	s := m.Scope(id)
	if s == nil {
		panic(fmt.Errorf("scope: define %q in unknown scope %d", name, id))
	}
	vid := m.defineGeneric(id, &s.Set, &s.Variables, m.names.Intern(name), ident, &def)
	m.addDeclared(def.Node, vid)
	m.addDeclared(def.Parent, vid)
	return vid
}

// DefineCurrent is Define on the current scope.
func (m *Manager) DefineCurrent(ident *estree.Node, def Definition) VariableID {
	m.mustCurrent("define")
	return m.Define(m.current, ident, def)
}

// defineGeneric creates or extends a variable in set. set and vars point
// into a scope record, so no scope may be allocated while it runs.
func (m *Manager) defineGeneric(owner ScopeID, set *map[source.StringID]VariableID, vars *[]VariableID, name source.StringID, ident *estree.Node, def *Definition) VariableID {
	vid, ok := (*set)[name]
	if !ok {
		vid = m.variables.add(Variable{Name: name, Scope: owner})
		(*set)[name] = vid
		*vars = append(*vars, vid)
	}
	v := m.Variable(vid)
	if def != nil {
		v.Defs = append(v.Defs, *def)
	}
	if ident != nil {
		v.Identifiers = append(v.Identifiers, ident)
	}
	return vid
}

func (m *Manager) addDeclared(node *estree.Node, vid VariableID) {
	if node == nil {
		return
	}
	if slices.Contains(m.declared[node], vid) {
		return
	}
	m.declared[node] = append(m.declared[node], vid)
}

// ReferenceValue records a value reference in the current scope. Nodes
// other than identifiers and `super` are ignored.
func (m *Manager) ReferenceValue(ident *estree.Node, spec RefSpec) ReferenceID {
	return m.reference(ident, NamespaceValue, spec)
}

// ReferenceType records a type-only read in the current scope.
func (m *Manager) ReferenceType(ident *estree.Node) ReferenceID {
	return m.reference(ident, NamespaceType, RefSpec{})
}

// ReferenceDual records a read that may resolve in either namespace.
func (m *Manager) ReferenceDual(ident *estree.Node) ReferenceID {
	return m.reference(ident, NamespaceDual, RefSpec{})
}

func (m *Manager) reference(ident *estree.Node, ns Namespace, spec RefSpec) ReferenceID {
	if !ident.Is(estree.Identifier, estree.JSXIdentifier) {
		return NoReferenceID
	}
	name := ident.Name()
	if name == "" || name == "super" {
		return NoReferenceID
	}
	m.mustCurrent("reference")
	return m.referenceIn(m.current, ident, name, ns, spec)
}

func (m *Manager) referenceIn(sid ScopeID, ident *estree.Node, name string, ns Namespace, spec RefSpec) ReferenceID {
	flag := spec.Flag
	if flag == 0 {
		flag = Read
	}
	rid := m.references.add(Reference{
		Identifier:     ident,
		Name:           m.names.Intern(name),
		From:           sid,
		Flag:           flag,
		Namespace:      ns,
		WriteExpr:      spec.WriteExpr,
		Init:           spec.Init,
		ImplicitGlobal: spec.ImplicitGlobal,
	})
	s := m.Scope(sid)
	s.References = append(s.References, rid)
	s.queue = append(s.queue, rid)
	return rid
}

// ReferenceInUpperScope records a read of the nearest open binding named
// name. The reference belongs to the scope that owns the binding and uses
// the binding's first identifier. It reports whether a binding was found.
func (m *Manager) ReferenceInUpperScope(name string) bool {
	key, ok := m.names.Find(name)
	if !ok || name == "" {
		return false
	}
	for sid := m.current; sid.IsValid(); sid = m.Scope(sid).Upper {
		vid, ok := m.Scope(sid).Set[key]
		if !ok {
			continue
		}
		v := m.Variable(vid)
		if len(v.Identifiers) == 0 {
			return false
		}
		ident := v.Identifiers[0]
		return m.referenceIn(sid, ident, ident.Name(), NamespaceValue, RefSpec{}).IsValid()
	}
	return false
}

// MarkIndirect records a name that is used without a syntactic reference.
// When the scope closes the marker either marks the matching variable as
// used or moves to the parent scope.
func (m *Manager) MarkIndirect(name string) {
	if name == "" {
		return
	}
	s := m.mustCurrent("indirect reference")
	s.indirect = append(s.indirect, m.names.Intern(name))
}

// MarkUsed flags a variable as used.
func (m *Manager) MarkUsed(id VariableID) {
	if v := m.Variable(id); v != nil {
		v.Used = true
	}
}

// SetStrict overrides the strictness of a scope. The referencer uses it
// for implied strictness and for the global-return wrapper.
func (m *Manager) SetStrict(id ScopeID, strict bool) {
	if s := m.Scope(id); s != nil {
		s.Strict = strict
	}
}

// Close closes every open scope introduced by node, innermost first.
func (m *Manager) Close(node *estree.Node) {
	for {
		s := m.Scope(m.current)
		if s == nil || s.Block != node {
			return
		}
		m.current = m.closeScope(m.current)
	}
}

// IsFinished reports whether every scope has been closed.
func (m *Manager) IsFinished() bool {
	return !m.current.IsValid() && m.scopes.len() > 0
}
