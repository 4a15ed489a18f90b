package referencer

import (
	"estscope/internal/estree"
	"estscope/internal/scope"
)

// declareNamespace binds the namespace name outside and opens a scope
// over its body.
func (r *referencer) declareNamespace(n *estree.Node) {
	id := n.Child("id")
	r.m.DefineCurrent(id, scope.NewDefinition(scope.DefNamespaceName, id, n, nil))
	r.m.NestDeclareNamespaceScope(n)
	r.visitBody(n.Child("body"))
	r.close(n)
}

func (r *referencer) recordDeclaration(n *estree.Node) {
	id := n.Child("id")
	r.m.DefineCurrent(id, scope.NewDefinition(scope.DefRecordName, id, n, nil))
	typed := r.typeScope(n)
	r.visitType(n.Child("typeParameters"))
	r.visitTypes(n.List("implements"))
	for _, el := range n.Child("body").List("elements") {
		switch el.Type {
		case estree.RecordProperty:
			r.visitType(el.Child("typeAnnotation"))
			r.visit(el.Child("defaultValue"))
		case estree.RecordStaticProperty:
			r.visitType(el.Child("typeAnnotation"))
			r.visit(el.Child("value"))
		case estree.MethodDefinition:
			r.methodDefinition(el)
		default:
			r.visit(el)
		}
	}
	r.closeTypeScope(n, typed)
}

// matchNode gives every case its own scope for the pattern bindings.
func (r *referencer) matchNode(n *estree.Node) {
	r.visit(n.Child("argument"))
	for _, c := range n.List("cases") {
		r.m.NestMatchCaseScope(c)
		r.matchPattern(c, c.Child("pattern"))
		r.visit(c.Child("guard"))
		r.visit(c.Child("body"))
		r.close(c)
	}
}

func (r *referencer) matchPattern(c, p *estree.Node) {
	if p == nil {
		return
	}
	switch p.Type {
	case estree.MatchBindingPattern:
		r.matchBinding(c, p, p.Child("id"), p.Str("kind"))
	case estree.MatchAsPattern:
		r.matchPattern(c, p.Child("pattern"))
		if target := p.Child("target"); target.Is(estree.Identifier) {
			r.matchBinding(c, p, target, "const")
		} else {
			r.matchPattern(c, target)
		}
	case estree.MatchIdentifierPattern:
		r.m.ReferenceValue(p.Child("id"), scope.RefSpec{})
	case estree.MatchMemberPattern:
		// the property is a static member name
		r.matchPattern(c, p.Child("base"))
	case estree.MatchObjectPattern:
		for _, prop := range p.List("properties") {
			if prop.Is(estree.MatchObjectProperty) {
				r.matchPattern(c, prop.Child("pattern"))
				continue
			}
			r.matchPattern(c, prop)
		}
		r.matchPattern(c, p.Child("rest"))
	case estree.MatchArrayPattern:
		for _, el := range p.List("elements") {
			r.matchPattern(c, el)
		}
		r.matchPattern(c, p.Child("rest"))
	case estree.MatchRestPattern:
		r.matchPattern(c, p.Child("argument"))
	case estree.MatchOrPattern:
		for _, alt := range p.List("patterns") {
			r.matchPattern(c, alt)
		}
	case estree.MatchLiteralPattern, estree.MatchUnaryPattern, estree.MatchWildcardPattern:
		// constants
	default:
		r.visit(p)
	}
}

func (r *referencer) matchBinding(c, p, id *estree.Node, kind string) {
	if kind == "" {
		kind = "const"
	}
	r.m.DefineCurrent(id, scope.VariableDef(id, p, c, kind))
}
