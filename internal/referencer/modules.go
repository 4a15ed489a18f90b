package referencer

import (
	"estscope/internal/estree"
	"estscope/internal/scope"
)

func (r *referencer) importDeclaration(n *estree.Node) {
	if !r.m.IsModule() || !r.m.Options().BlockScoping() {
		r.fail(n, ErrImportOutsideModule)
		return
	}
	for _, spec := range n.List("specifiers") {
		local := spec.Child("local")
		if local == nil {
			continue
		}
		r.m.DefineCurrent(local, scope.Import(local, spec, n))
	}
}

// exportNamed visits an inline declaration, or references the local side
// of each specifier when the export has no source.
func (r *referencer) exportNamed(n *estree.Node) {
	if decl := n.Child("declaration"); decl != nil {
		r.visit(decl)
		return
	}
	if n.Child("source") != nil {
		return
	}
	r.exportSpecifiers(n)
}

func (r *referencer) exportSpecifiers(n *estree.Node) {
	typeOnly := n.Str("exportKind") == "type"
	for _, spec := range n.List("specifiers") {
		local := spec.Child("local")
		if typeOnly || spec.Str("exportKind") == "type" {
			r.m.ReferenceType(local)
			continue
		}
		r.m.ReferenceDual(local)
	}
}

func (r *referencer) exportDefault(n *estree.Node) {
	decl := n.Child("declaration")
	if decl.Is(estree.Identifier) {
		r.m.ReferenceDual(decl)
		return
	}
	r.visit(decl)
}
