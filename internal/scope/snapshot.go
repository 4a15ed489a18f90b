package scope

import (
	"slices"

	"estscope/internal/estree"
)

// NodeRef identifies a syntax node by type and span.
type NodeRef struct {
	Type  string `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type"`
	Start uint32 `json:"start" yaml:"start" msgpack:"start"`
	End   uint32 `json:"end" yaml:"end" msgpack:"end"`
}

func refOf(n *estree.Node) NodeRef {
	if n == nil {
		return NodeRef{}
	}
	return NodeRef{Type: n.Type, Start: n.Span.Start, End: n.Span.End}
}

// Snapshot is a plain-data rendering of an analysis. Handles are kept as
// numbers so that snapshots of equal trees compare equal.
type Snapshot struct {
	SourceType string          `json:"source_type" yaml:"source_type" msgpack:"source_type"`
	Scopes     []ScopeData     `json:"scopes" yaml:"scopes" msgpack:"scopes"`
	Variables  []VariableData  `json:"variables" yaml:"variables" msgpack:"variables"`
	References []ReferenceData `json:"references" yaml:"references" msgpack:"references"`
}

type ScopeData struct {
	ID                      uint32   `json:"id" yaml:"id" msgpack:"id"`
	Kind                    string   `json:"kind" yaml:"kind" msgpack:"kind"`
	Block                   NodeRef  `json:"block" yaml:"block" msgpack:"block"`
	Upper                   uint32   `json:"upper,omitempty" yaml:"upper,omitempty" msgpack:"upper"`
	Children                []uint32 `json:"children,omitempty" yaml:"children,omitempty" msgpack:"children"`
	Variables               []uint32 `json:"variables,omitempty" yaml:"variables,omitempty" msgpack:"variables"`
	References              []uint32 `json:"references,omitempty" yaml:"references,omitempty" msgpack:"references"`
	Through                 []uint32 `json:"through,omitempty" yaml:"through,omitempty" msgpack:"through"`
	Strict                  bool     `json:"strict" yaml:"strict" msgpack:"strict"`
	Dynamic                 bool     `json:"dynamic" yaml:"dynamic" msgpack:"dynamic"`
	VariableScope           uint32   `json:"variable_scope" yaml:"variable_scope" msgpack:"variable_scope"`
	FunctionExpressionScope bool     `json:"function_expression_scope,omitempty" yaml:"function_expression_scope,omitempty" msgpack:"function_expression_scope"`
	Implicit                []uint32 `json:"implicit,omitempty" yaml:"implicit,omitempty" msgpack:"implicit"`
	ImplicitLeft            []uint32 `json:"implicit_left,omitempty" yaml:"implicit_left,omitempty" msgpack:"implicit_left"`
}

type VariableData struct {
	ID          uint32           `json:"id" yaml:"id" msgpack:"id"`
	Name        string           `json:"name" yaml:"name" msgpack:"name"`
	Scope       uint32           `json:"scope" yaml:"scope" msgpack:"scope"`
	Defs        []DefinitionData `json:"defs,omitempty" yaml:"defs,omitempty" msgpack:"defs"`
	Identifiers []NodeRef        `json:"identifiers,omitempty" yaml:"identifiers,omitempty" msgpack:"identifiers"`
	References  []uint32         `json:"references,omitempty" yaml:"references,omitempty" msgpack:"references"`
	Used        bool             `json:"used,omitempty" yaml:"used,omitempty" msgpack:"used"`
}

type DefinitionData struct {
	Kind     string  `json:"kind" yaml:"kind" msgpack:"kind"`
	Name     NodeRef `json:"name" yaml:"name" msgpack:"name"`
	Node     NodeRef `json:"node" yaml:"node" msgpack:"node"`
	Parent   NodeRef `json:"parent" yaml:"parent" msgpack:"parent"`
	Rest     bool    `json:"rest,omitempty" yaml:"rest,omitempty" msgpack:"rest"`
	DeclKind string  `json:"decl_kind,omitempty" yaml:"decl_kind,omitempty" msgpack:"decl_kind"`
	Value    bool    `json:"value" yaml:"value" msgpack:"value"`
	Type     bool    `json:"type" yaml:"type" msgpack:"type"`
}

type ReferenceData struct {
	ID             uint32  `json:"id" yaml:"id" msgpack:"id"`
	Name           string  `json:"name" yaml:"name" msgpack:"name"`
	Identifier     NodeRef `json:"identifier" yaml:"identifier" msgpack:"identifier"`
	From           uint32  `json:"from" yaml:"from" msgpack:"from"`
	Flag           string  `json:"flag" yaml:"flag" msgpack:"flag"`
	Namespace      string  `json:"namespace" yaml:"namespace" msgpack:"namespace"`
	WriteExpr      NodeRef `json:"write_expr" yaml:"write_expr" msgpack:"write_expr"`
	Resolved       uint32  `json:"resolved,omitempty" yaml:"resolved,omitempty" msgpack:"resolved"`
	Init           bool    `json:"init,omitempty" yaml:"init,omitempty" msgpack:"init"`
	Tainted        bool    `json:"tainted,omitempty" yaml:"tainted,omitempty" msgpack:"tainted"`
	ImplicitGlobal bool    `json:"implicit_global,omitempty" yaml:"implicit_global,omitempty" msgpack:"implicit_global"`
}

func handles[ID ~uint32](ids []ID) []uint32 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out
}

// Snapshot renders the manager. Implicit globals are included in the
// variable list.
func (m *Manager) Snapshot() *Snapshot {
	snap := &Snapshot{SourceType: string(m.opts.SourceType)}
	for _, sid := range m.scopes.ids() {
		s := m.Scope(sid)
		d := ScopeData{
			ID:                      uint32(sid),
			Kind:                    s.Kind.String(),
			Block:                   refOf(s.Block),
			Upper:                   uint32(s.Upper),
			Children:                handles(s.Children),
			Variables:               handles(s.Variables),
			References:              handles(s.References),
			Through:                 handles(s.Through),
			Strict:                  s.Strict,
			Dynamic:                 s.Dynamic,
			VariableScope:           uint32(s.VariableScope),
			FunctionExpressionScope: s.FunctionExpressionScope,
		}
		if s.Implicit != nil {
			d.Implicit = handles(s.Implicit.Variables)
			d.ImplicitLeft = handles(s.Implicit.LeftToResolve)
		}
		snap.Scopes = append(snap.Scopes, d)
	}
	for _, vid := range m.variables.ids() {
		v := m.Variable(vid)
		d := VariableData{
			ID:         uint32(vid),
			Name:       m.Name(v.Name),
			Scope:      uint32(v.Scope),
			References: handles(v.References),
			Used:       v.Used,
		}
		for i := range v.Defs {
			def := &v.Defs[i]
			d.Defs = append(d.Defs, DefinitionData{
				Kind:     def.Kind.String(),
				Name:     refOf(def.Name),
				Node:     refOf(def.Node),
				Parent:   refOf(def.Parent),
				Rest:     def.Rest,
				DeclKind: def.DeclKind,
				Value:    def.IsValue,
				Type:     def.IsType,
			})
		}
		for _, ident := range v.Identifiers {
			d.Identifiers = append(d.Identifiers, refOf(ident))
		}
		snap.Variables = append(snap.Variables, d)
	}
	for _, rid := range m.references.ids() {
		r := m.Reference(rid)
		snap.References = append(snap.References, ReferenceData{
			ID:             uint32(rid),
			Name:           m.Name(r.Name),
			Identifier:     refOf(r.Identifier),
			From:           uint32(r.From),
			Flag:           r.Flag.String(),
			Namespace:      r.Namespace.String(),
			WriteExpr:      refOf(r.WriteExpr),
			Resolved:       uint32(r.Resolved),
			Init:           r.Init,
			Tainted:        r.Tainted,
			ImplicitGlobal: r.ImplicitGlobal != nil,
		})
	}
	return snap
}

// Equal compares two snapshots. Nil and empty lists are equal.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.SourceType == o.SourceType &&
		slices.EqualFunc(s.Scopes, o.Scopes, ScopeData.equal) &&
		slices.EqualFunc(s.Variables, o.Variables, VariableData.equal) &&
		slices.Equal(s.References, o.References)
}

func (a ScopeData) equal(b ScopeData) bool {
	return a.ID == b.ID && a.Kind == b.Kind && a.Block == b.Block && a.Upper == b.Upper &&
		slices.Equal(a.Children, b.Children) &&
		slices.Equal(a.Variables, b.Variables) &&
		slices.Equal(a.References, b.References) &&
		slices.Equal(a.Through, b.Through) &&
		a.Strict == b.Strict && a.Dynamic == b.Dynamic &&
		a.VariableScope == b.VariableScope &&
		a.FunctionExpressionScope == b.FunctionExpressionScope &&
		slices.Equal(a.Implicit, b.Implicit) &&
		slices.Equal(a.ImplicitLeft, b.ImplicitLeft)
}

func (a VariableData) equal(b VariableData) bool {
	return a.ID == b.ID && a.Name == b.Name && a.Scope == b.Scope && a.Used == b.Used &&
		slices.Equal(a.Defs, b.Defs) &&
		slices.Equal(a.Identifiers, b.Identifiers) &&
		slices.Equal(a.References, b.References)
}
