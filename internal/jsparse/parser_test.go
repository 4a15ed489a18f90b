package jsparse

import (
	"context"
	"errors"
	"testing"

	"estscope/internal/estree"
	"estscope/internal/referencer"
	"estscope/internal/scope"
	"estscope/internal/source"
	"estscope/internal/testkit"
)

func parse(t *testing.T, src string, opts ...Option) *estree.Node {
	t.Helper()
	prog, err := New(opts...).Parse(context.Background(), []byte(src), 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return prog
}

func types(list []*estree.Node) []string {
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, n.Type)
	}
	return out
}

func TestParseStatements(t *testing.T) {
	prog := parse(t, `"use strict";
let a = 1, b;
var c;
function f(x, ...rest) { return x; }
class K extends Base { static y = 2; #p; get v() { return 1 } }
for (const k of list) {}
for (let i = 0; i < 3; i++) {}
label: while (a) { break label; }
`)
	if prog.Str("sourceType") != "script" {
		t.Fatalf("sourceType = %q", prog.Str("sourceType"))
	}
	body := prog.List("body")
	want := []string{
		estree.ExpressionStatement, estree.VariableDeclaration, estree.VariableDeclaration,
		estree.FunctionDeclaration, estree.ClassDeclaration, estree.ForOfStatement,
		estree.ForStatement, estree.LabeledStatement,
	}
	got := types(body)
	if len(got) != len(want) {
		t.Fatalf("body = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("body[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if body[0].Str("directive") != "use strict" {
		t.Fatalf("missing directive")
	}
	if body[1].Str("kind") != "let" || len(body[1].List("declarations")) != 2 {
		t.Fatalf("let declaration not converted")
	}
	params := body[3].List("params")
	if len(params) != 2 || !params[1].Is(estree.RestElement) {
		t.Fatalf("params = %v", types(params))
	}
	members := body[4].Child("body").List("body")
	if len(members) != 3 || !members[0].Bool("static") || members[2].Str("kind") != "get" {
		t.Fatalf("class members = %v", types(members))
	}
	if left := body[5].Child("left"); !left.Is(estree.VariableDeclaration) || left.Str("kind") != "const" {
		t.Fatalf("for-of head should be a declaration")
	}
}

func TestParseDetectsModules(t *testing.T) {
	prog := parse(t, "import React, {useState as use} from 'react';\nexport default use;\n")
	if prog.Str("sourceType") != "module" {
		t.Fatalf("sourceType = %q", prog.Str("sourceType"))
	}
	specs := prog.List("body")[0].List("specifiers")
	if len(specs) != 2 || specs[1].Child("local").Name() != "use" || specs[1].Child("imported").Name() != "useState" {
		t.Fatalf("import specifiers not converted")
	}
	if forced := parse(t, "x;", WithSourceType("module")); forced.Str("sourceType") != "module" {
		t.Fatalf("forced source type ignored")
	}
}

func TestParseSpansAreOffsets(t *testing.T) {
	src := "let abc = 1;"
	prog := parse(t, src)
	id := prog.List("body")[0].List("declarations")[0].Child("id")
	if got := src[id.Span.Start:id.Span.End]; got != "abc" || id.Span.File != 1 {
		t.Fatalf("identifier span covers %q", got)
	}
}

func TestParseJSX(t *testing.T) {
	prog := parse(t, "/** @jsx h */\nconst el = <ui.Card title=\"x\" {...props}><Item/>{value}</ui.Card>;\nconst f = <></>;")
	comments := prog.List("comments")
	if len(comments) != 1 || !comments[0].Is("Block") {
		t.Fatalf("leading comment not kept")
	}
	el := prog.List("body")[0].List("declarations")[0].Child("init")
	open := el.Child("openingElement")
	if !open.Child("name").Is(estree.JSXMemberExpression) {
		t.Fatalf("tag name = %s", open.Child("name").Type)
	}
	attrs := open.List("attributes")
	if len(attrs) != 2 || !attrs[1].Is(estree.JSXSpreadAttribute) {
		t.Fatalf("attributes = %v", types(attrs))
	}
	children := el.List("children")
	if len(children) != 2 || !children[1].Is(estree.JSXExpressionContainer) {
		t.Fatalf("children = %v", types(children))
	}
	frag := prog.List("body")[1].List("declarations")[0].Child("init")
	if !frag.Is(estree.JSXFragment) {
		t.Fatalf("fragment = %s", frag.Type)
	}
}

func TestParseErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := New().Parse(ctx, []byte("if ("), 1); !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
	if _, err := New(WithMaxFileSize(4)).Parse(ctx, []byte("let a;"), 1); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if _, err := New().Parse(ctx, []byte{0xff, 0xfe}, 1); !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := New().Parse(canceled, []byte("x"), 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParsedTreeAnalyzes(t *testing.T) {
	prog := parse(t, `
function foo() {
  let i = 0;
  var j = 20;
  console.log(i);
}
(function name() {}());
`)
	m, err := referencer.Analyze(prog, referencer.Options{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	var fn scope.ScopeID
	for _, id := range m.Scopes() {
		if s := m.Scope(id); s.Kind == scope.KindFunction && s.Upper == m.GlobalScope() {
			fn = id
			break
		}
	}
	if !fn.IsValid() || len(m.Scope(fn).Variables) != 3 {
		t.Fatalf("foo should declare arguments, i and j")
	}
	through := m.Scope(m.GlobalScope()).Through
	if len(through) != 1 || m.RefName(through[0]) != "console" {
		t.Fatalf("only console should pass through")
	}
}

func TestParsedSpansNest(t *testing.T) {
	src := "import a from 'b';\n" +
		"class C extends a { m(x = 1) { return `t${x}`; } }\n" +
		"export const f = (y) => y?.z ?? [1, ...y];\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("nest.js", []byte(src))
	prog, err := New().Parse(context.Background(), []byte(src), id)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := testkit.CheckSpanInvariants(prog, fs.Get(id)); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
}

func TestTemplateQuasiSpans(t *testing.T) {
	src := "s = `a${x}bc${y}`;"
	prog := parse(t, src)
	var tpl *estree.Node
	estree.Walk(prog, func(n *estree.Node) bool {
		if n.Is(estree.TemplateLiteral) {
			tpl = n
		}
		return tpl == nil
	})
	if tpl == nil {
		t.Fatalf("no template literal")
	}
	quasis := tpl.List("quasis")
	if len(quasis) != 3 || len(tpl.List("expressions")) != 2 {
		t.Fatalf("quasis=%d expressions=%d", len(quasis), len(tpl.List("expressions")))
	}
	want := []string{"a", "bc", ""}
	for i, q := range quasis {
		got := src[q.Span.Start:q.Span.End]
		if got != want[i] || q.Str("value") != want[i] {
			t.Errorf("quasi %d: span text %q value %q, want %q", i, got, q.Str("value"), want[i])
		}
		if i > 0 && q.Span.Start < quasis[i-1].Span.End {
			t.Errorf("quasi %d overlaps its predecessor", i)
		}
	}
	if !quasis[2].Bool("tail") || quasis[0].Bool("tail") {
		t.Errorf("last quasi must be the tail")
	}
}
