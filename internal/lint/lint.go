package lint

import (
	"fmt"
	"strings"

	"estscope/internal/diag"
	"estscope/internal/estree"
	"estscope/internal/scope"
)

type linter struct {
	m        *scope.Manager
	cfg      Config
	rep      diag.Reporter
	globals  map[string]struct{}
	typeofs  map[*estree.Node]bool
	exported map[*estree.Node]bool
}

// Run checks one analyzed program. program must be the tree m was built
// from.
func Run(m *scope.Manager, program *estree.Node, cfg Config, rep diag.Reporter) {
	l := &linter{
		m:        m,
		cfg:      cfg,
		rep:      rep,
		globals:  make(map[string]struct{}, len(cfg.Globals)),
		typeofs:  make(map[*estree.Node]bool),
		exported: make(map[*estree.Node]bool),
	}
	for _, g := range cfg.Globals {
		l.globals[g] = struct{}{}
	}
	l.index(program)
	if cfg.enabled(NoUndef) || cfg.enabled(NoTypeAsVal) {
		l.undefined()
	}
	if cfg.enabled(NoUnusedVars) {
		l.unused()
	}
}

// index records typeof operands and exported declarations.
func (l *linter) index(program *estree.Node) {
	estree.Walk(program, func(n *estree.Node) bool {
		switch n.Type {
		case estree.UnaryExpression:
			if n.Str("operator") == "typeof" {
				if arg := n.Child("argument"); arg.Is(estree.Identifier) {
					l.typeofs[arg] = true
				}
			}
		case estree.ExportNamedDeclaration, estree.ExportDefaultDeclaration, estree.DeclareExportDeclaration:
			if decl := n.Child("declaration"); decl != nil {
				l.exported[decl] = true
			}
		}
		return true
	})
}

// undefined reports references that left the global scope unresolved.
func (l *linter) undefined() {
	global := l.m.Scope(l.m.GlobalScope())
	for _, rid := range global.Through {
		ref := l.m.Reference(rid)
		name := l.m.RefName(rid)
		if _, declared := l.m.Lookup(l.m.GlobalScope(), name); declared && !l.m.IsModule() {
			continue
		}
		if ref.IsValueReference() && !ref.IsTypeReference() {
			if v, ok := l.typeOnlyBinding(ref.From, name); ok {
				if l.cfg.enabled(NoTypeAsVal) {
					diag.ReportError(l.rep, diag.LntTypeAsValue, ref.Identifier.Span,
						fmt.Sprintf("'%s' is a type and cannot be used as a value", name)).
						WithNote(v.Identifiers[0].Span, "type declared here").
						Emit()
				}
				continue
			}
		}
		if !l.cfg.enabled(NoUndef) || l.predeclared(name) || l.typeofs[ref.Identifier] {
			continue
		}
		diag.ReportError(l.rep, diag.LntUndefined, ref.Identifier.Span,
			fmt.Sprintf("'%s' is not defined", name)).Emit()
	}
}

func (l *linter) predeclared(name string) bool {
	if _, ok := builtinGlobals[name]; ok {
		return true
	}
	_, ok := l.globals[name]
	return ok
}

// typeOnlyBinding finds a type-only variable named name visible from the
// scope the reference was made in.
func (l *linter) typeOnlyBinding(from scope.ScopeID, name string) (*scope.Variable, bool) {
	for id := from; id.IsValid(); id = l.m.Scope(id).Upper {
		if vid, ok := l.m.Lookup(id, name); ok {
			v := l.m.Variable(vid)
			return v, !v.IsValueVariable() && len(v.Identifiers) > 0
		}
	}
	return nil, false
}

// unused reports variables never read. Parameters follow the after-used
// convention: only trailing unused parameters are reported.
func (l *linter) unused() {
	prefix := l.cfg.IgnorePrefix
	if prefix == "" {
		prefix = "_"
	}
	for _, sid := range l.m.Scopes() {
		s := l.m.Scope(sid)
		// class scopes repeat the outer class-name binding
		if s.FunctionExpressionScope || s.Kind == scope.KindClass || (s.Kind == scope.KindGlobal && !l.m.IsModule()) {
			continue
		}
		for _, vid := range s.Variables {
			v := l.m.Variable(vid)
			name := l.m.VarName(vid)
			if len(v.Defs) == 0 || strings.HasPrefix(name, prefix) || l.live(v) || l.isExported(v) {
				continue
			}
			def := &v.Defs[0]
			if def.Kind == scope.DefParameter && l.laterParamUsed(s, v) {
				continue
			}
			b := diag.ReportWarning(l.rep, diag.LntUnusedVariable, v.Identifiers[0].Span,
				fmt.Sprintf("'%s' is %s but never used", name, verb(def.Kind)))
			for _, ident := range v.Identifiers[1:] {
				b.WithNote(ident.Span, "also declared here")
			}
			b.Emit()
		}
	}
}

func verb(k scope.DefKind) string {
	switch k {
	case scope.DefImportBinding:
		return "imported"
	case scope.DefParameter:
		return "a parameter"
	default:
		return "defined"
	}
}

// live reports a read or an indirect use.
func (l *linter) live(v *scope.Variable) bool {
	if v.Used {
		return true
	}
	for _, rid := range v.References {
		if l.m.Reference(rid).IsRead() {
			return true
		}
	}
	return false
}

func (l *linter) isExported(v *scope.Variable) bool {
	for i := range v.Defs {
		if l.exported[v.Defs[i].Node] || l.exported[v.Defs[i].Parent] {
			return true
		}
	}
	return false
}

// laterParamUsed reports whether a parameter declared after v in the same
// scope is live.
func (l *linter) laterParamUsed(s *scope.Scope, v *scope.Variable) bool {
	start := v.Identifiers[0].Span.Start
	for _, other := range s.Variables {
		ov := l.m.Variable(other)
		if len(ov.Defs) == 0 || ov.Defs[0].Kind != scope.DefParameter {
			continue
		}
		if ov.Identifiers[0].Span.Start > start && l.live(ov) {
			return true
		}
	}
	return false
}
