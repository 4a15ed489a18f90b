package referencer

import (
	"estscope/internal/estree"
	"estscope/internal/scope"
)

// visitClass binds a declaration's name outside and again inside the
// class scope, so uses in the body resolve to the inner binding.
func (r *referencer) visitClass(n *estree.Node) {
	id := n.Child("id")
	if n.Is(estree.ClassDeclaration) && id != nil {
		r.m.DefineCurrent(id, scope.NewDefinition(scope.DefClassName, id, n, nil))
	}
	r.visitAll(n.List("decorators"))

	cls := r.m.NestClassScope(n)
	if id != nil {
		r.m.DefineCurrent(id, scope.NewDefinition(scope.DefClassName, id, n, nil))
	}
	r.visit(n.Child("superClass"))
	r.visitType(n.Child("typeParameters"))
	r.visitType(n.Child("superTypeParameters"))
	r.visitType(n.Child("superTypeArguments"))
	for _, impl := range n.List("implements") {
		r.visitType(impl)
	}
	if body := n.Child("body"); body != nil {
		for _, member := range body.List("body") {
			r.classMember(cls, member)
		}
	}
	r.close(n)
}

func (r *referencer) classMember(cls scope.ClassScope, n *estree.Node) {
	switch n.Type {
	case estree.MethodDefinition:
		r.methodDefinition(n)
	case estree.PropertyDefinition, estree.ClassProperty, estree.ClassPrivateProp:
		r.classProperty(cls, n)
	case estree.StaticBlock:
		r.m.NestClassStaticBlockScope(cls, n)
		r.visitAll(n.List("body"))
		r.close(n)
	default:
		r.visit(n)
	}
}

// classProperty visits a field. Its initializer runs in its own scope.
func (r *referencer) classProperty(cls scope.ClassScope, n *estree.Node) {
	r.visitAll(n.List("decorators"))
	if n.Bool("computed") {
		r.visit(n.Child("key"))
	}
	if value := n.Child("value"); value != nil {
		r.m.NestClassFieldInitializerScope(cls, value)
		r.visit(value)
		r.close(value)
	}
	r.visitType(n.Child("typeAnnotation"))
	r.visitType(n.Child("variance"))
}
