package referencer

import (
	"slices"
	"testing"

	"estscope/internal/estree"
	"estscope/internal/scope"
)

func jsxName(name string) *estree.Node {
	return estree.N(estree.JSXIdentifier, "name", name)
}

func element(name *estree.Node, attrs ...*estree.Node) *estree.Node {
	if attrs == nil {
		attrs = []*estree.Node{}
	}
	return estree.N(estree.JSXElement,
		"openingElement", estree.N(estree.JSXOpeningElement, "name", name, "attributes", attrs, "selfClosing", true),
		"children", []*estree.Node{})
}

func importDefault(name, from string) *estree.Node {
	return estree.N(estree.ImportDeclaration, "importKind", "value", "source", estree.Str(from), "specifiers", []*estree.Node{
		estree.N(estree.ImportDefaultSpecifier, "local", estree.Ident(name)),
	})
}

func used(t *testing.T, m *scope.Manager, name string) bool {
	t.Helper()
	mod := m.GlobalScope()
	if ids := scopesOfKind(m, scope.KindModule); len(ids) > 0 {
		mod = ids[0]
	}
	vid, ok := m.Lookup(mod, name)
	if !ok {
		t.Fatalf("no variable %s", name)
	}
	return m.Variable(vid).Used
}

func TestJSXReferencesPragmaOnce(t *testing.T) {
	local := estree.Ident("React")
	imp := estree.N(estree.ImportDeclaration, "importKind", "value", "source", estree.Str("react"), "specifiers", []*estree.Node{
		estree.N(estree.ImportDefaultSpecifier, "local", local),
	})
	m := analyze(t, Options{}, estree.Prog("module",
		imp,
		estree.Expr(element(jsxName("div"))),
		estree.Expr(element(jsxName("span"))),
	))
	if !used(t, m, "React") {
		t.Fatalf("React should be used by JSX")
	}
	mod := onlyScope(t, m, scope.KindModule)
	vid, _ := m.Lookup(mod, "React")
	refs := m.Variable(vid).References
	if len(refs) != 1 {
		t.Fatalf("the pragma binding gets exactly one read, got %d", len(refs))
	}
	r := m.Reference(refs[0])
	if r.Identifier != local || r.From != mod || !r.IsRead() || r.Resolved != vid {
		t.Fatalf("pragma reference = %+v", r)
	}
	if n := len(m.Scope(mod).References); n != 1 {
		t.Fatalf("intrinsic tags are not references, got %d", n)
	}
}

func TestJSXPragmaWithoutBinding(t *testing.T) {
	m := analyze(t, Options{}, estree.Prog("module", estree.Expr(element(jsxName("div")))))
	if n := len(m.Scope(onlyScope(t, m, scope.KindModule)).References); n != 0 {
		t.Fatalf("no binding, no synthesized reference; got %d", n)
	}
	if through := m.Scope(m.GlobalScope()).Through; len(through) != 0 {
		t.Fatalf("nothing should pass through, got %v", through)
	}
}

func TestJSXComponentTags(t *testing.T) {
	comp := jsxName("Button")
	member := estree.N(estree.JSXMemberExpression, "object", jsxName("ui"), "property", jsxName("Card"))
	ns := estree.N(estree.JSXNamespacedName, "namespace", jsxName("svg"), "name", jsxName("path"))
	attr := estree.Ident("handler")
	onClick := estree.N(estree.JSXAttribute, "name", jsxName("onClick"),
		"value", estree.N(estree.JSXExpressionContainer, "expression", attr))
	m := analyze(t, Options{}, estree.Prog("module",
		estree.Expr(element(comp, onClick)),
		estree.Expr(element(member)),
		estree.Expr(element(ns)),
	))
	got := refNames(m, m.Scope(onlyScope(t, m, scope.KindModule)).References)
	if !slices.Equal(got, []string{"Button", "handler", "ui", "svg"}) {
		t.Fatalf("references = %v", got)
	}
}

func TestJSXDocblockPragma(t *testing.T) {
	prog := estree.Prog("module",
		importDefault("React", "react"),
		importDefault("PragmaReact", "pragma"),
		estree.Expr(element(jsxName("div"))),
	)
	prog.Set("comments", []*estree.Node{
		estree.N("Block", "value", "*\n * @jsx PragmaReact.createElement\n "),
	})
	m := analyze(t, Options{}, prog)
	if used(t, m, "React") || !used(t, m, "PragmaReact") {
		t.Fatalf("the docblock pragma replaces React")
	}
}

func TestJSXFragmentAndOptions(t *testing.T) {
	frag := estree.N(estree.JSXFragment,
		"openingFragment", estree.N(estree.JSXOpeningFragment),
		"children", []*estree.Node{},
		"closingFragment", estree.N(estree.JSXClosingFragment))
	m := analyze(t, Options{JSXPragma: "h", JSXFragmentName: "Fragment"}, estree.Prog("module",
		importDefault("h", "preact"),
		importDefault("Fragment", "preact"),
		estree.Expr(frag),
	))
	if !used(t, m, "h") || !used(t, m, "Fragment") {
		t.Fatalf("fragments mark both the pragma and the fragment name")
	}
	mod := onlyScope(t, m, scope.KindModule)
	for _, name := range []string{"h", "Fragment"} {
		vid, _ := m.Lookup(mod, name)
		if n := len(m.Variable(vid).References); n != 1 {
			t.Fatalf("%s: expected one synthesized read, got %d", name, n)
		}
	}

	off := analyze(t, Options{DisableJSXPragma: true}, estree.Prog("module",
		importDefault("React", "react"),
		estree.Expr(element(jsxName("div"))),
	))
	if used(t, off, "React") {
		t.Fatalf("disabled pragma must not mark React")
	}
}

func TestFBT(t *testing.T) {
	tag := jsxName("fbt")
	m := analyze(t, Options{FBT: true}, estree.Prog("module",
		importDefault("React", "react"),
		importDefault("fbt", "fbt"),
		estree.Expr(element(tag)),
	))
	if used(t, m, "React") {
		t.Fatalf("fbt tags do not use the pragma")
	}
	if r := refOf(t, m, tag); !r.Resolved.IsValid() {
		t.Fatalf("fbt tag should reference the fbt import")
	}

	plain := jsxName("fbt")
	without := analyze(t, Options{}, estree.Prog("module",
		importDefault("React", "react"),
		estree.Expr(element(plain)),
	))
	if !used(t, without, "React") {
		t.Fatalf("without fbt support the tag is intrinsic")
	}
	for _, rid := range without.Scope(onlyScope(t, without, scope.KindModule)).References {
		if without.Reference(rid).Identifier == plain {
			t.Fatalf("lowercase tag referenced without fbt support")
		}
	}
}

func TestDocblockRequiresLeadingComment(t *testing.T) {
	prog := estree.Finish(estree.Prog("module", estree.Expr(estree.Ident("x"))))
	late := estree.N("Block", "value", "@jsx h")
	late.Span.Start, late.Span.End = 100, 110
	prog.Set("comments", []*estree.Node{late})
	if doc := docblock(prog); doc != "" {
		t.Fatalf("a comment after the first statement is not a docblock: %q", doc)
	}
	prog.Set("docblock", map[string]any{"comment": estree.N("Block", "value", "@jsx h")})
	if doc := docblock(prog); doc != "@jsx h" {
		t.Fatalf("docblock field = %q", doc)
	}
}

func TestIntrinsic(t *testing.T) {
	for name, want := range map[string]bool{"div": true, "Button": false, "_x": false, "é": true, "": false} {
		if got := intrinsic(name); got != want {
			t.Fatalf("intrinsic(%q) = %v", name, got)
		}
	}
}
