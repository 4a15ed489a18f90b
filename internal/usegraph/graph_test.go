package usegraph

import (
	"slices"
	"testing"

	"estscope/internal/estree"
	"estscope/internal/referencer"
)

func build(t *testing.T, prog *estree.Node) Graph {
	t.Helper()
	estree.Finish(prog)
	m, err := referencer.Analyze(prog, referencer.Options{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	return Build(m, prog)
}

func TestModuleOrder(t *testing.T) {
	// const b = a + 1; const a = 1; f(b); function f(x) { return x }
	prog := estree.Prog("module",
		estree.Let("const", "b", estree.N(estree.BinaryExpression, "operator", "+", "left", estree.Ident("a"), "right", estree.Num(1))),
		estree.Let("const", "a", estree.Num(1)),
		estree.Expr(estree.Call(estree.Ident("f"), estree.Ident("b"))),
		estree.Func(estree.Ident("f"), []*estree.Node{estree.Ident("x")}, estree.Return(estree.Ident("x"))),
	)
	g := build(t, prog)

	if got := g.Nodes[0].Declares; !slices.Equal(got, []string{"b"}) {
		t.Fatalf("declares: %v", got)
	}
	if got := g.Nodes[2].Uses; !slices.Equal(got, []string{"b", "f"}) {
		t.Fatalf("uses: %v", got)
	}
	if g.Declarer["f"] != 3 {
		t.Fatalf("declarer of f: %d", g.Declarer["f"])
	}

	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %v", topo.Cycles)
	}
	if want := []NodeID{1, 3, 0, 2}; !slices.Equal(topo.Order, want) {
		t.Fatalf("order: got %v want %v", topo.Order, want)
	}
	if len(topo.Batches) != 3 {
		t.Fatalf("batches: %v", topo.Batches)
	}
}

func TestScriptGlobalsMatchByName(t *testing.T) {
	// var a = 1; var b = a;
	prog := estree.Prog("script",
		estree.Let("var", "a", estree.Num(1)),
		estree.Let("var", "b", estree.Ident("a")),
	)
	g := build(t, prog)
	if !slices.Equal(g.Edges[0], []NodeID{1}) {
		t.Fatalf("edges: %v", g.Edges)
	}
}

func TestMutualRecursionFormsCycle(t *testing.T) {
	prog := estree.Prog("module",
		estree.Func(estree.Ident("even"), nil, estree.Return(estree.Call(estree.Ident("odd")))),
		estree.Func(estree.Ident("odd"), nil, estree.Return(estree.Call(estree.Ident("even")))),
	)
	g := build(t, prog)
	topo := ToposortKahn(g)
	if !topo.Cyclic || !slices.Equal(topo.Cycles, []NodeID{0, 1}) {
		t.Fatalf("expected a two-statement cycle, got %+v", topo)
	}
}

func TestSelfReferenceAddsNoEdge(t *testing.T) {
	prog := estree.Prog("module",
		estree.Func(estree.Ident("loop"), nil, estree.Expr(estree.Call(estree.Ident("loop")))),
	)
	g := build(t, prog)
	if len(g.Edges[0]) != 0 || g.Indeg[0] != 0 {
		t.Fatalf("self edge recorded: %v", g.Edges)
	}
	if !slices.Equal(g.Nodes[0].Uses, []string{"loop"}) {
		t.Fatalf("uses: %v", g.Nodes[0].Uses)
	}
}

func TestExportedDeclarations(t *testing.T) {
	prog := estree.Prog("module",
		estree.N(estree.ExportNamedDeclaration, "declaration", estree.Let("const", "x", estree.Num(1)), "specifiers", []*estree.Node{}),
		estree.Expr(estree.Ident("x")),
	)
	g := build(t, prog)
	if !slices.Equal(g.Nodes[0].Declares, []string{"x"}) || g.Indeg[1] != 1 {
		t.Fatalf("export not indexed: %+v", g)
	}
}

func TestJSXFactoryImportIsUsed(t *testing.T) {
	// import React from 'react'; const el = <Foo/>;
	imp := estree.N(estree.ImportDeclaration, "importKind", "value", "source", estree.Str("react"),
		"specifiers", []*estree.Node{estree.N(estree.ImportDefaultSpecifier, "local", estree.Ident("React"))})
	el := estree.N(estree.JSXElement,
		"openingElement", estree.N(estree.JSXOpeningElement, "name", estree.N(estree.JSXIdentifier, "name", "Foo"),
			"attributes", []*estree.Node{}, "selfClosing", true),
		"children", []*estree.Node{})
	g := build(t, estree.Prog("module", imp, estree.Let("const", "el", el)))

	if got := g.Nodes[0].Uses; !slices.Equal(got, []string{"React"}) {
		t.Fatalf("the JSX factory import must count as used, uses = %v", got)
	}
	if got := g.Nodes[1].Uses; !slices.Equal(got, []string{"el"}) {
		t.Fatalf("uses of the declaration: %v", got)
	}
}
