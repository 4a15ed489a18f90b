package referencer

import (
	"errors"
	"slices"
	"testing"

	"estscope/internal/estree"
	"estscope/internal/scope"
)

func TestTypeAndValueNamespaces(t *testing.T) {
	// type T = number; const x: T = 1; T;
	annotation := estree.Generic("T")
	valueUse := estree.Ident("T")
	m := analyze(t, Options{}, estree.Prog("module",
		estree.N(estree.TypeAlias, "id", estree.Ident("T"), "right", estree.N("NumberTypeAnnotation")),
		estree.Var("const", estree.Decl(estree.Typed("x", annotation), estree.Num(1))),
		estree.Expr(valueUse),
	))
	mod := onlyScope(t, m, scope.KindModule)
	tid, _ := m.Lookup(mod, "T")
	if r := refOf(t, m, annotation.Child("id")); r.Resolved != tid || !r.IsTypeReference() {
		t.Fatalf("annotation should resolve to the alias")
	}
	if r := refOf(t, m, valueUse); r.Resolved.IsValid() {
		t.Fatalf("a value read cannot see a type alias")
	}
	if got := refNames(m, m.Scope(m.GlobalScope()).Through); !slices.Equal(got, []string{"T"}) {
		t.Fatalf("global through = %v", got)
	}
}

func TestGenericFunctionTypeParameters(t *testing.T) {
	// function id<T>(x: T): T { return x; }
	paramType := estree.Generic("T")
	retType := estree.Generic("T")
	fn := estree.Func(estree.Ident("id"), []*estree.Node{estree.Typed("x", paramType)}, estree.Return(estree.Ident("x")))
	fn.Set("typeParameters", estree.TypeParams("T"))
	fn.Set("returnType", estree.N(estree.TypeAnnotation, "typeAnnotation", retType))
	m := analyze(t, Options{}, estree.Prog("module", fn))

	fs := onlyScope(t, m, scope.KindFunction)
	if got := varNames(m, fs); !slices.Equal(got, []string{"arguments", "T", "x"}) {
		t.Fatalf("function variables = %v", got)
	}
	tid, _ := m.Lookup(fs, "T")
	for _, g := range []*estree.Node{paramType, retType} {
		if refOf(t, m, g.Child("id")).Resolved != tid {
			t.Fatalf("type parameter reference did not resolve")
		}
	}
	if m.Variable(tid).Defs[0].Kind != scope.DefTypeParameter {
		t.Fatalf("T should be a type parameter")
	}
}

func TestGenericAliasOpensTypeScope(t *testing.T) {
	// type Box<T> = { v: T };
	use := estree.Generic("T")
	obj := estree.N(estree.ObjectTypeAnnotation, "properties", []*estree.Node{
		estree.N(estree.ObjectTypeProperty, "key", estree.Ident("v"), "value", use),
	})
	alias := estree.N(estree.TypeAlias, "id", estree.Ident("Box"), "typeParameters", estree.TypeParams("T"), "right", obj)
	m := analyze(t, Options{}, estree.Prog("script", alias))

	ts := onlyScope(t, m, scope.KindType)
	if m.Scope(ts).Block != alias {
		t.Fatalf("type scope belongs to the alias")
	}
	if got := varNames(m, m.GlobalScope()); !slices.Equal(got, []string{"Box"}) {
		t.Fatalf("alias is declared outside its type scope: %v", got)
	}
	if v := m.Variable(refOf(t, m, use.Child("id")).Resolved); v == nil || v.Scope != ts {
		t.Fatalf("T should resolve in the type scope")
	}
	if got := refNames(m, m.Scope(ts).References); !slices.Equal(got, []string{"T"}) {
		t.Fatalf("object keys are not references: %v", got)
	}
}

func TestConditionalInferScope(t *testing.T) {
	// type U<T> = T extends Array<infer E> ? E : T;
	inferE := estree.N(estree.InferTypeAnnotation, "typeParameter", estree.N(estree.TypeParameter, "name", "E"))
	trueUse := estree.Generic("E")
	falseUse := estree.Generic("E")
	cond := estree.N(estree.ConditionalTypeAnnotation,
		"checkType", estree.Generic("T"),
		"extendsType", estree.Generic("Array", inferE),
		"trueType", trueUse,
		"falseType", falseUse)
	alias := estree.N(estree.TypeAlias, "id", estree.Ident("U"), "typeParameters", estree.TypeParams("T"), "right", cond)
	m := analyze(t, Options{}, estree.Prog("script", alias))

	types := scopesOfKind(m, scope.KindType)
	if len(types) != 2 || m.Scope(types[1]).Block != cond {
		t.Fatalf("expected alias and conditional type scopes")
	}
	if got := varNames(m, types[1]); !slices.Equal(got, []string{"E"}) {
		t.Fatalf("conditional scope variables = %v", got)
	}
	if !refOf(t, m, trueUse.Child("id")).Resolved.IsValid() {
		t.Fatalf("E is bound in the true branch")
	}
	if refOf(t, m, falseUse.Child("id")).Resolved.IsValid() {
		t.Fatalf("E is not bound in the false branch")
	}
}

func TestConditionalWithoutInfer(t *testing.T) {
	cond := estree.N(estree.ConditionalTypeAnnotation,
		"checkType", estree.Generic("A"),
		"extendsType", estree.Generic("B"),
		"trueType", estree.Generic("C"),
		"falseType", estree.Generic("D"))
	m := analyze(t, Options{}, estree.Prog("script", estree.N(estree.TypeAlias, "id", estree.Ident("X"), "right", cond)))
	if n := len(scopesOfKind(m, scope.KindType)); n != 0 {
		t.Fatalf("no infer means no scope, got %d", n)
	}
}

func TestTypeofReferencesValue(t *testing.T) {
	target := estree.Ident("obj")
	typeofT := estree.N(estree.TypeofTypeAnnotation, "argument", target)
	m := analyze(t, Options{}, estree.Prog("module",
		estree.Let("const", "obj", estree.N(estree.ObjectExpression, "properties", []*estree.Node{})),
		estree.N(estree.TypeAlias, "id", estree.Ident("O"), "right", typeofT),
	))
	r := refOf(t, m, target)
	if !r.IsValueReference() || r.IsTypeReference() || !r.Resolved.IsValid() {
		t.Fatalf("typeof reads the value namespace")
	}
}

func TestQualifiedTypeIsDual(t *testing.T) {
	root := estree.Ident("NS")
	qualified := estree.N(estree.QualifiedTypeIdentifier, "qualification", root, "id", estree.Ident("Inner"))
	m := analyze(t, Options{}, estree.Prog("module",
		importDefault("NS", "ns"),
		estree.N(estree.TypeAlias, "id", estree.Ident("X"), "right", estree.N(estree.GenericTypeAnnotation, "id", qualified)),
	))
	if r := refOf(t, m, root); r.Namespace != scope.NamespaceDual || !r.Resolved.IsValid() {
		t.Fatalf("qualified roots resolve in both namespaces")
	}
}

func TestDeclareNamespace(t *testing.T) {
	// declare namespace NS { declare var v: number; }
	declVar := estree.N(estree.DeclareVariable, "id", estree.Typed("v", estree.N("NumberTypeAnnotation")))
	ns := estree.N(estree.DeclareNamespace, "id", estree.Ident("NS"), "body", estree.Block(declVar))
	m := analyze(t, Options{}, estree.Prog("script", ns))

	if got := varNames(m, m.GlobalScope()); !slices.Equal(got, []string{"NS"}) {
		t.Fatalf("global variables = %v", got)
	}
	nid, _ := m.Lookup(m.GlobalScope(), "NS")
	if m.Variable(nid).Defs[0].Kind != scope.DefNamespaceName {
		t.Fatalf("NS kind = %v", m.Variable(nid).Defs[0].Kind)
	}
	s := onlyScope(t, m, scope.KindDeclareNamespace)
	if got := varNames(m, s); !slices.Equal(got, []string{"v"}) {
		t.Fatalf("namespace variables = %v", got)
	}
}

func TestEnumDeclaration(t *testing.T) {
	use := estree.Ident("Color")
	m := analyze(t, Options{}, estree.Prog("module",
		estree.N(estree.EnumDeclaration, "id", estree.Ident("Color"), "body", estree.N("EnumStringBody", "members", []*estree.Node{})),
		estree.Expr(use),
	))
	v := m.Variable(refOf(t, m, use).Resolved)
	if v == nil || v.Defs[0].Kind != scope.DefEnum || !v.IsTypeVariable() {
		t.Fatalf("enums bind a value and a type")
	}
}

func TestMatchCaseBindings(t *testing.T) {
	// match (v) { const a if (a) => a, _ => a }
	guard := estree.Ident("a")
	body := estree.Ident("a")
	outer := estree.Ident("a")
	cases := []*estree.Node{
		estree.N(estree.MatchExpressionCase,
			"pattern", estree.N(estree.MatchBindingPattern, "id", estree.Ident("a"), "kind", "const"),
			"guard", guard, "body", body),
		estree.N(estree.MatchExpressionCase,
			"pattern", estree.N(estree.MatchWildcardPattern),
			"guard", nil, "body", outer),
	}
	m := analyze(t, Options{}, estree.Prog("script", estree.Expr(estree.N(estree.MatchExpression, "argument", estree.Ident("v"), "cases", cases))))

	ms := scopesOfKind(m, scope.KindMatchCase)
	if len(ms) != 2 {
		t.Fatalf("expected a scope per case, got %d", len(ms))
	}
	if got := varNames(m, ms[0]); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("case variables = %v", got)
	}
	for _, id := range []*estree.Node{guard, body} {
		if v := m.Variable(refOf(t, m, id).Resolved); v == nil || v.Scope != ms[0] {
			t.Fatalf("binding should be visible in guard and body")
		}
	}
	if refOf(t, m, outer).Resolved.IsValid() {
		t.Fatalf("bindings do not leak into other cases")
	}
}

func TestComponentSyntax(t *testing.T) {
	prop := estree.Ident("label")
	comp := estree.N(estree.ComponentDeclaration,
		"id", estree.Ident("Button"),
		"params", []*estree.Node{
			estree.N(estree.ComponentParameter, "name", estree.Ident("text"), "local", estree.Ident("label"), "shorthand", false),
		},
		"body", estree.Block(estree.Return(prop)))

	prog := estree.Finish(estree.Prog("module", comp))
	if _, err := Analyze(prog, Options{}); !errors.Is(err, ErrComponentSyntaxDisabled) {
		t.Fatalf("expected ErrComponentSyntaxDisabled, got %v", err)
	}

	m := analyze(t, Options{EnableExperimentalComponentSyntax: true}, estree.Prog("module", comp))
	cs := onlyScope(t, m, scope.KindComponent)
	if got := varNames(m, cs); !slices.Equal(got, []string{"label"}) {
		t.Fatalf("component variables = %v", got)
	}
	if v := m.Variable(refOf(t, m, prop).Resolved); v == nil || v.Scope != cs {
		t.Fatalf("label should resolve to the parameter")
	}
	bid, _ := m.Lookup(onlyScope(t, m, scope.KindModule), "Button")
	if m.Variable(bid).Defs[0].Kind != scope.DefComponentName {
		t.Fatalf("Button kind = %v", m.Variable(bid).Defs[0].Kind)
	}
}

func TestHookDeclaration(t *testing.T) {
	hook := estree.N(estree.HookDeclaration, "id", estree.Ident("useThing"),
		"params", []*estree.Node{estree.Ident("p")},
		"body", estree.Block(estree.Return(estree.Ident("p"))))
	m := analyze(t, Options{EnableExperimentalComponentSyntax: true}, estree.Prog("module", hook))
	hs := onlyScope(t, m, scope.KindHook)
	if got := varNames(m, hs); !slices.Equal(got, []string{"p"}) {
		t.Fatalf("hooks have no arguments binding: %v", got)
	}
}

func TestRecordDeclaration(t *testing.T) {
	dflt := estree.Ident("fallback")
	rec := estree.N(estree.RecordDeclaration, "id", estree.Ident("Point"),
		"typeParameters", estree.TypeParams("T"),
		"implements", []*estree.Node{},
		"body", estree.N("RecordDeclarationBody", "elements", []*estree.Node{
			estree.N(estree.RecordProperty, "key", estree.Ident("x"),
				"typeAnnotation", estree.N(estree.TypeAnnotation, "typeAnnotation", estree.Generic("T")),
				"defaultValue", dflt),
		}))
	m := analyze(t, Options{}, estree.Prog("module", rec))
	if got := varNames(m, onlyScope(t, m, scope.KindModule)); !slices.Equal(got, []string{"Point"}) {
		t.Fatalf("module variables = %v", got)
	}
	ts := onlyScope(t, m, scope.KindType)
	if got := refNames(m, m.Scope(ts).References); !slices.Equal(got, []string{"T", "fallback"}) {
		t.Fatalf("record references = %v", got)
	}
}

func TestTypeCastVisitsBothSides(t *testing.T) {
	expr := estree.Ident("v")
	typ := estree.Generic("V")
	cast := estree.N(estree.TypeCastExpression, "expression", expr,
		"typeAnnotation", estree.N(estree.TypeAnnotation, "typeAnnotation", typ))
	m := analyze(t, Options{}, estree.Prog("script", estree.Expr(cast)))
	if !refOf(t, m, expr).IsValueReference() || !refOf(t, m, typ.Child("id")).IsTypeReference() {
		t.Fatalf("cast should read the value and the type")
	}
}
