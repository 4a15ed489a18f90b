package referencer

import (
	"estscope/internal/estree"
	"estscope/internal/scope"
)

// visitFunction handles declarations, expressions and arrows. isMethod
// forces strictness on the function scope.
func (r *referencer) visitFunction(fn *estree.Node, isMethod bool) {
	switch fn.Type {
	case estree.FunctionDeclaration:
		if id := fn.Child("id"); id != nil {
			r.m.DefineCurrent(id, scope.NewDefinition(scope.DefFunctionName, id, fn, nil))
		}
	case estree.FunctionExpression:
		if fn.Child("id") != nil {
			r.m.NestFunctionExpressionNameScope(fn)
		}
	}

	r.m.NestFunctionScope(fn, isMethod)
	// type parameters are visible to the parameters, the return type is
	// not allowed to see the parameters
	r.visitType(fn.Child("typeParameters"))
	r.visitType(fn.Child("returnType"))
	r.visitParams(fn, fn.List("params"))
	r.visitType(fn.Child("predicate"))
	r.visitBody(fn.Child("body"))
	r.close(fn)
}

// visitParams declares each parameter. A leading `this` parameter only
// carries an annotation.
func (r *referencer) visitParams(fn *estree.Node, params []*estree.Node) {
	for _, param := range params {
		if param.Is(estree.Identifier) && param.Name() == "this" {
			r.visitType(param.Child("typeAnnotation"))
			continue
		}
		r.visitPattern(param, true, func(id *estree.Node, info patternInfo) {
			r.m.DefineCurrent(id, scope.Parameter(id, fn, info.rest))
			r.referenceDefaults(id, info.assignments, nil, true)
		})
	}
}

// visitBody visits a function body without opening a block scope for it.
func (r *referencer) visitBody(body *estree.Node) {
	if body.Is(estree.BlockStatement) {
		r.visitChildren(body)
		return
	}
	r.visit(body)
}

func (r *referencer) methodDefinition(n *estree.Node) {
	r.visitAll(n.List("decorators"))
	if n.Bool("computed") {
		r.visit(n.Child("key"))
	}
	if value := n.Child("value"); estree.IsFunction(value) {
		r.visitFunction(value, true)
	} else {
		r.visit(value)
	}
}

func (r *referencer) componentSyntax(n *estree.Node) bool {
	if r.opts.EnableExperimentalComponentSyntax {
		return true
	}
	r.fail(n, ErrComponentSyntaxDisabled)
	return false
}

// hookDeclaration is a function declaration without `arguments`.
func (r *referencer) hookDeclaration(n *estree.Node) {
	if !r.componentSyntax(n) {
		return
	}
	if id := n.Child("id"); id != nil {
		r.m.DefineCurrent(id, scope.NewDefinition(scope.DefHookName, id, n, nil))
	}
	r.m.NestHookScope(n)
	r.visitType(n.Child("typeParameters"))
	r.visitType(n.Child("returnType"))
	r.visitParams(n, n.List("params"))
	r.visitBody(n.Child("body"))
	r.close(n)
}

// componentDeclaration binds the local name of each component parameter.
// The external parameter name is a property key, not a binding.
func (r *referencer) componentDeclaration(n *estree.Node) {
	if !r.componentSyntax(n) {
		return
	}
	if id := n.Child("id"); id != nil {
		r.m.DefineCurrent(id, scope.NewDefinition(scope.DefComponentName, id, n, nil))
	}
	r.m.NestComponentScope(n)
	r.visitType(n.Child("typeParameters"))
	for _, param := range n.List("params") {
		target := param
		if param.Is(estree.ComponentParameter) {
			target = param.Child("local")
		}
		r.visitPattern(target, true, func(id *estree.Node, info patternInfo) {
			r.m.DefineCurrent(id, scope.Parameter(id, n, info.rest))
			r.referenceDefaults(id, info.assignments, nil, true)
		})
	}
	r.visitType(n.Child("rendersType"))
	r.visitBody(n.Child("body"))
	r.close(n)
}
