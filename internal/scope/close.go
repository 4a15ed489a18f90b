package scope

import (
	"fmt"
	"slices"

	"estscope/internal/estree"
	"estscope/internal/trace"
)

// closeScope resolves the pending references of id and returns its parent.
func (m *Manager) closeScope(id ScopeID) ScopeID {
	s := m.Scope(id)
	if s.closed {
		panic(fmt.Errorf("scope: %s scope closed twice", s.Kind))
	}
	queue := s.queue
	s.queue = nil

	switch s.Kind {
	case KindGlobal:
		m.closeGlobal(id, queue)
	case KindWith:
		m.closeWith(id, queue)
	default:
		for _, rid := range queue {
			if !m.resolve(id, rid) {
				m.delegate(id, rid)
			}
		}
	}
	m.propagateIndirect(id)

	s = m.Scope(id)
	s.closed = true
	trace.Point(m.tracer, trace.ScopeNode, "scope.close", fmt.Sprintf("%s refs=%d through=%d", s.Kind, len(queue), len(s.Through)))
	return s.Upper
}

// resolve binds rid to a variable of scope id when the name, position and
// namespace all agree.
func (m *Manager) resolve(id ScopeID, rid ReferenceID) bool {
	s := m.Scope(id)
	r := m.Reference(rid)
	vid, ok := s.Set[r.Name]
	if !ok {
		return false
	}
	v := m.Variable(vid)
	if !m.validResolution(s, r, v) || !r.compatible(v) {
		return false
	}
	v.References = append(v.References, rid)
	r.Resolved = vid
	return true
}

// validResolution rejects references in a parameter list that would bind
// to a name declared only inside the body.
func (m *Manager) validResolution(s *Scope, r *Reference, v *Variable) bool {
	if !s.Kind.functionLike() || s.Block.Is(estree.Program) {
		return true
	}
	body := s.Block.Child("body")
	if body == nil || r.Identifier == nil {
		return true
	}
	if r.Identifier.Span.Start >= body.Span.Start {
		return true
	}
	for i := range v.Defs {
		if n := v.Defs[i].Name; n != nil && n.Span.Start < body.Span.Start {
			return true
		}
	}
	return false
}

// delegate records rid as passing through id and hands it to the parent.
func (m *Manager) delegate(id ScopeID, rid ReferenceID) {
	s := m.Scope(id)
	s.Through = append(s.Through, rid)
	if up := m.Scope(s.Upper); up != nil {
		up.queue = append(up.queue, rid)
	}
}

// closeWith delegates everything: any name may be shadowed by the object.
func (m *Manager) closeWith(id ScopeID, queue []ReferenceID) {
	for _, rid := range queue {
		m.Reference(rid).Tainted = true
		m.delegate(id, rid)
	}
}

func (m *Manager) closeGlobal(id ScopeID, queue []ReferenceID) {
	s := m.Scope(id)
	for _, rid := range queue {
		r := m.Reference(rid)
		ig := r.ImplicitGlobal
		if ig == nil || !ig.Pattern.Is(estree.Identifier) {
			continue
		}
		if _, declared := s.Set[r.Name]; declared {
			continue
		}
		def := NewDefinition(DefImplicitGlobalVariable, ig.Pattern, ig.Node, nil)
		m.defineGeneric(id, &s.Implicit.Set, &s.Implicit.Variables, m.names.Intern(ig.Pattern.Name()), ig.Pattern, &def)
	}
	s.Implicit.LeftToResolve = slices.Clone(queue)

	for _, rid := range queue {
		if m.staticInGlobal(s, m.Reference(rid)) && m.resolve(id, rid) {
			continue
		}
		s.Through = append(s.Through, rid)
	}
}

// staticInGlobal reports whether a global reference may be bound
// lexically. In scripts, names declared with `var` stay dynamic because
// other scripts share the global object.
func (m *Manager) staticInGlobal(s *Scope, r *Reference) bool {
	vid, ok := s.Set[r.Name]
	if !ok {
		return false
	}
	if m.opts.IsModule() {
		return true
	}
	v := m.Variable(vid)
	if len(v.Defs) == 0 {
		return false
	}
	for i := range v.Defs {
		if v.Defs[i].hoistsLikeVar() {
			return false
		}
	}
	return true
}

// propagateIndirect settles the indirect markers of a closing scope.
func (m *Manager) propagateIndirect(id ScopeID) {
	s := m.Scope(id)
	up := m.Scope(s.Upper)
	for _, name := range s.indirect {
		if vid, ok := s.Set[name]; ok {
			m.Variable(vid).Used = true
			continue
		}
		if up != nil {
			up.indirect = append(up.indirect, name)
		}
	}
	s.indirect = nil
}
