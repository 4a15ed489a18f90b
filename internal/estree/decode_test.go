package estree

import (
	"errors"
	"testing"
)

const sampleProgram = `{
  "type": "Program",
  "sourceType": "module",
  "range": [0, 24],
  "comments": [{"type": "Block", "value": "* @jsx h ", "range": [0, 12]}],
  "body": [
    {
      "type": "VariableDeclaration",
      "kind": "let",
      "range": [13, 24],
      "declarations": [
        {
          "type": "VariableDeclarator",
          "range": [17, 23],
          "id": {"type": "Identifier", "name": "a", "range": [17, 18], "typeAnnotation": null},
          "init": {"type": "ArrayExpression", "start": 21, "end": 23, "elements": [null, {"type": "Literal", "value": 1, "raw": "1", "range": [22, 23]}]}
        }
      ]
    }
  ]
}`

func TestDecodeProgram(t *testing.T) {
	prog, err := DecodeBytes([]byte(sampleProgram), 3)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if prog.Str("sourceType") != "module" {
		t.Fatalf("sourceType: %q", prog.Str("sourceType"))
	}
	if prog.Span.File != 3 || prog.Span.End != 24 {
		t.Fatalf("program span: %v", prog.Span)
	}
	body := prog.List("body")
	if len(body) != 1 || !body[0].Is(VariableDeclaration) {
		t.Fatalf("body: %+v", body)
	}
	decl := body[0].List("declarations")[0]
	id := decl.Child("id")
	if id.Name() != "a" || id.Span.Start != 17 {
		t.Fatalf("id: %q %v", id.Name(), id.Span)
	}
	if !id.Has("typeAnnotation") || id.Child("typeAnnotation") != nil {
		t.Fatalf("null child must be present but empty")
	}
	init := decl.Child("init")
	if init.Span.Start != 21 || init.Span.End != 23 {
		t.Fatalf("start/end span: %v", init.Span)
	}
	elems := init.List("elements")
	if len(elems) != 2 || elems[0] != nil || !elems[1].Is(Literal) {
		t.Fatalf("elements with hole: %+v", elems)
	}
	if v, _ := elems[1].Scalar("value").(float64); v != 1 {
		t.Fatalf("literal value: %v", elems[1].Scalar("value"))
	}
	comments := prog.List("comments")
	if len(comments) != 1 || comments[0].Str("value") != "* @jsx h " {
		t.Fatalf("comments: %+v", comments)
	}
	if got := len(prog.Children()); got != 1 {
		t.Fatalf("comments must not be traversed, children=%d", got)
	}
}

func TestDecodeRejects(t *testing.T) {
	if _, err := DecodeBytes([]byte(`{"type":"Identifier","name":"x"}`), 0); !errors.Is(err, ErrNotProgram) {
		t.Fatalf("want ErrNotProgram, got %v", err)
	}
	if _, err := DecodeBytes([]byte(`{"type":"Program","body":[`), 0); err == nil {
		t.Fatalf("truncated input must fail")
	}
	if _, err := DecodeBytes([]byte(`{"type":"Program","body":[]} {}`), 0); err == nil {
		t.Fatalf("trailing data must fail")
	}
	if _, err := DecodeBytes([]byte(`{"type":"Program","range":[5,1],"body":[]}`), 0); err == nil {
		t.Fatalf("inverted range must fail")
	}
}

func TestUnknownTypeUsesFieldOrder(t *testing.T) {
	prog, err := DecodeBytes([]byte(`{"type":"Program","body":[{"type":"FancyNode","b":{"type":"Identifier","name":"b"},"a":{"type":"Identifier","name":"a"},"flag":true}]}`), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	kids := prog.List("body")[0].Children()
	if len(kids) != 2 || kids[0].Name() != "b" || kids[1].Name() != "a" {
		t.Fatalf("field order not preserved: %+v", kids)
	}
}

func TestFinishNumbersInTraversalOrder(t *testing.T) {
	param := Ident("x")
	use := Ident("x")
	fn := Func(Ident("f"), []*Node{param}, Expr(use))
	Finish(Prog("script", fn))
	body := fn.Child("body")
	if !param.Span.Before(body.Span) {
		t.Fatalf("param %v must precede body %v", param.Span, body.Span)
	}
	if !body.Span.Contains(use.Span) {
		t.Fatalf("body %v must contain %v", body.Span, use.Span)
	}
}

func TestRoot(t *testing.T) {
	m := Member(Member(Ident("a"), "b"), "c")
	if r := Root(m); r.Name() != "a" {
		t.Fatalf("root: %+v", r)
	}
	q := N(QualifiedTypeIdentifier, "qualification", N(QualifiedTypeIdentifier, "qualification", Ident("A"), "id", Ident("B")), "id", Ident("C"))
	if r := Root(q); r.Name() != "A" {
		t.Fatalf("qualified root: %+v", r)
	}
}
