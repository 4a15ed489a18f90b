package referencer

import (
	"strings"

	"estscope/internal/estree"
	"estscope/internal/scope"
)

// isTypeNode reports whether n belongs to the type grammar and must be
// walked by visitType.
func isTypeNode(n *estree.Node) bool {
	switch n.Type {
	case estree.TypeAnnotation, estree.TypeAlias, estree.OpaqueType, estree.InterfaceDeclaration,
		estree.DeclareTypeAlias, estree.DeclareOpaqueType, estree.DeclareInterface, estree.DeclareClass,
		estree.DeclareFunction, estree.DeclareVariable, estree.DeclareModule, estree.DeclareModuleExports,
		estree.DeclareExportDeclaration, estree.DeclareExportAllDeclaration,
		estree.TypeParameterDeclaration, estree.TypeParameterInstantiation, estree.TypeParameter,
		estree.InterfaceExtends, estree.QualifiedTypeIdentifier, estree.QualifiedTypeofIdentifier,
		estree.TypePredicate, estree.DeclaredPredicate, estree.InferredPredicate,
		estree.ObjectTypeProperty, estree.ObjectTypeIndexer, estree.ObjectTypeInternalSlot,
		estree.ObjectTypeCallProperty, estree.ObjectTypeSpreadProperty, estree.ObjectTypeMappedTypeProp,
		estree.FunctionTypeParam, estree.ComponentTypeParameter, estree.TupleTypeLabeledElement,
		estree.TupleTypeSpreadElement, "ClassImplements", "Variance", "IndexedAccessType",
		"OptionalIndexedAccessType", "TypeOperator":
		return true
	}
	return strings.HasSuffix(n.Type, "TypeAnnotation")
}

// visitType walks type syntax. Identifiers reached here are type
// references unless a rule below says otherwise.
func (r *referencer) visitType(n *estree.Node) {
	if n == nil || r.err != nil {
		return
	}
	switch n.Type {
	case estree.Identifier:
		if n.Name() != "this" {
			r.m.ReferenceType(n)
		}

	case estree.GenericTypeAnnotation, estree.InterfaceExtends, "ClassImplements":
		r.typeName(n.Child("id"))
		r.visitType(n.Child("typeParameters"))
		r.visitType(n.Child("typeArguments"))
	case estree.QualifiedTypeIdentifier:
		r.m.ReferenceDual(estree.Root(n))
	case estree.TypeofTypeAnnotation:
		arg := n.Child("argument")
		if arg.Is(estree.GenericTypeAnnotation) {
			arg = arg.Child("id")
		}
		r.m.ReferenceValue(estree.Root(arg), scope.RefSpec{})
		r.visitType(n.Child("typeArguments"))
	case estree.QualifiedTypeofIdentifier:
		r.m.ReferenceValue(estree.Root(n), scope.RefSpec{})

	case estree.TypeParameter:
		r.m.DefineCurrent(n, scope.NewDefinition(scope.DefTypeParameter, n, n, nil))
		r.visitType(n.Child("bound"))
		r.visitType(n.Child("variance"))
		r.visitType(n.Child("default"))

	case estree.TypeAlias, estree.DeclareTypeAlias:
		r.defineType(n)
		typed := r.typeScope(n)
		r.visitType(n.Child("typeParameters"))
		r.visitType(n.Child("right"))
		r.closeTypeScope(n, typed)
	case estree.OpaqueType, estree.DeclareOpaqueType:
		r.defineType(n)
		typed := r.typeScope(n)
		r.visitType(n.Child("typeParameters"))
		r.visitType(n.Child("impltype"))
		r.visitType(n.Child("lowerBound"))
		r.visitType(n.Child("upperBound"))
		r.visitType(n.Child("supertype"))
		r.closeTypeScope(n, typed)
	case estree.InterfaceDeclaration, estree.DeclareInterface:
		r.defineType(n)
		typed := r.typeScope(n)
		r.visitType(n.Child("typeParameters"))
		r.visitTypes(n.List("extends"))
		r.visitType(n.Child("body"))
		r.closeTypeScope(n, typed)
	case estree.DeclareClass:
		id := n.Child("id")
		r.m.DefineCurrent(id, scope.NewDefinition(scope.DefClassName, id, n, nil))
		typed := r.typeScope(n)
		r.visitType(n.Child("typeParameters"))
		r.visitTypes(n.List("extends"))
		r.visitTypes(n.List("implements"))
		r.visitTypes(n.List("mixins"))
		r.visitType(n.Child("body"))
		r.closeTypeScope(n, typed)
	case estree.DeclareFunction:
		id := n.Child("id")
		r.m.DefineCurrent(id, scope.NewDefinition(scope.DefFunctionName, id, n, nil))
		r.visitType(id.Child("typeAnnotation"))
		r.visitType(n.Child("predicate"))
	case estree.DeclareVariable:
		id := n.Child("id")
		kind := n.Str("kind")
		if kind == "" {
			kind = "var"
		}
		r.m.DefineCurrent(id, scope.VariableDef(id, n, n, kind))
		r.visitType(id.Child("typeAnnotation"))
	case estree.DeclareModule:
		r.m.NestDeclareModuleScope(n)
		// the module name is neither a binding nor a reference
		r.visit(n.Child("body"))
		r.close(n)
	case estree.DeclareModuleExports:
		r.visitType(n.Child("typeAnnotation"))
	case estree.DeclareExportDeclaration:
		r.declareExport(n)
	case estree.DeclareExportAllDeclaration:
		// nothing local
	case estree.DeclareComponent:
		id := n.Child("id")
		r.m.DefineCurrent(id, scope.NewDefinition(scope.DefComponentName, id, n, nil))
		typed := r.typeScope(n)
		r.visitType(n.Child("typeParameters"))
		r.visitTypes(n.List("params"))
		r.visitType(n.Child("rest"))
		r.visitType(n.Child("rendersType"))
		r.closeTypeScope(n, typed)
	case estree.DeclareHook:
		id := n.Child("id")
		r.m.DefineCurrent(id, scope.NewDefinition(scope.DefHookName, id, n, nil))
		r.visitType(id.Child("typeAnnotation"))

	case estree.FunctionTypeAnnotation, estree.HookTypeAnnotation:
		typed := r.typeScope(n)
		r.visitType(n.Child("typeParameters"))
		r.visitType(n.Child("this"))
		r.visitTypes(n.List("params"))
		r.visitType(n.Child("rest"))
		r.visitType(n.Child("returnType"))
		r.closeTypeScope(n, typed)
	case estree.ComponentTypeAnnotation:
		typed := r.typeScope(n)
		r.visitType(n.Child("typeParameters"))
		r.visitTypes(n.List("params"))
		r.visitType(n.Child("rest"))
		r.visitType(n.Child("rendersType"))
		r.closeTypeScope(n, typed)
	case estree.FunctionTypeParam, estree.ComponentTypeParameter:
		// parameter names are labels
		r.visitType(n.Child("typeAnnotation"))

	case estree.ObjectTypeProperty:
		if key := n.Child("key"); !key.Is(estree.Identifier) {
			r.visitType(key)
		}
		r.visitType(n.Child("value"))
		r.visitType(n.Child("variance"))
	case estree.ObjectTypeIndexer:
		r.visitType(n.Child("key"))
		r.visitType(n.Child("value"))
		r.visitType(n.Child("variance"))
	case estree.ObjectTypeInternalSlot, estree.ObjectTypeCallProperty:
		r.visitType(n.Child("value"))
	case estree.ObjectTypeSpreadProperty:
		r.visitType(n.Child("argument"))
	case estree.ObjectTypeMappedTypeProp:
		r.visitType(n.Child("sourceType"))
		r.m.NestTypeScope(n)
		r.visitType(n.Child("keyTparam"))
		r.visitType(n.Child("propType"))
		r.visitType(n.Child("variance"))
		r.close(n)

	case estree.ConditionalTypeAnnotation:
		r.conditionalType(n)
	case estree.InferTypeAnnotation:
		r.visitType(n.Child("typeParameter"))

	case estree.TupleTypeLabeledElement:
		r.visitType(n.Child("elementType"))
		r.visitType(n.Child("variance"))
	case estree.TupleTypeSpreadElement:
		r.visitType(n.Child("typeAnnotation"))
	case estree.TypePredicate:
		// the parameter name refers to a parameter by position
		r.visitType(n.Child("typeAnnotation"))
	case estree.DeclaredPredicate:
		r.visit(n.Child("value"))
	case estree.InferredPredicate, "Variance", estree.Literal:
		// leaves

	case estree.DeclareEnum, estree.EnumDeclaration, estree.DeclareNamespace:
		r.visit(n)

	default:
		for _, key := range estree.KeysOf(n) {
			if child := n.Child(key); child != nil {
				r.visitType(child)
				continue
			}
			r.visitTypes(n.List(key))
		}
	}
}

func (r *referencer) visitTypes(list []*estree.Node) {
	for _, n := range list {
		r.visitType(n)
	}
}

// typeName references the name of a generic type: a plain identifier
// looks in the type namespace, a qualified name its root in both.
func (r *referencer) typeName(id *estree.Node) {
	if id.Is(estree.Identifier) {
		if id.Name() != "this" {
			r.m.ReferenceType(id)
		}
		return
	}
	r.visitType(id)
}

func (r *referencer) defineType(n *estree.Node) {
	id := n.Child("id")
	r.m.DefineCurrent(id, scope.NewDefinition(scope.DefType, id, n, nil))
}

// typeScope opens a type scope when n declares at least one type
// parameter.
func (r *referencer) typeScope(n *estree.Node) bool {
	if len(n.Child("typeParameters").List("params")) == 0 {
		return false
	}
	r.m.NestTypeScope(n)
	return true
}

func (r *referencer) closeTypeScope(n *estree.Node, opened bool) {
	if opened {
		r.close(n)
	}
}

// conditionalType binds `infer` parameters in a scope that covers the
// extends and true branches only.
func (r *referencer) conditionalType(n *estree.Node) {
	r.visitType(n.Child("checkType"))
	extends := n.Child("extendsType")
	opened := hasInfer(extends)
	if opened {
		r.m.NestTypeScope(n)
	}
	r.visitType(extends)
	r.visitType(n.Child("trueType"))
	r.closeTypeScope(n, opened)
	r.visitType(n.Child("falseType"))
}

func hasInfer(n *estree.Node) bool {
	found := false
	estree.Walk(n, func(c *estree.Node) bool {
		if c.Is(estree.InferTypeAnnotation) {
			found = true
		}
		return !found && (c == n || !c.Is(estree.ConditionalTypeAnnotation))
	})
	return found
}

// declareExport handles `declare export`: an inline declaration is
// visited, local specifiers are referenced like value exports.
func (r *referencer) declareExport(n *estree.Node) {
	if decl := n.Child("declaration"); decl != nil {
		r.visitType(decl)
		return
	}
	if n.Child("source") == nil {
		r.exportSpecifiers(n)
	}
}
