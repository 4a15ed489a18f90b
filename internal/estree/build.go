package estree

import (
	"fmt"
	"strconv"

	"estscope/internal/source"
)

// N builds a node from alternating key/value pairs. Spans are left empty;
// call Finish on the root to number them.
func N(typ string, kv ...any) *Node {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("estree.N(%s): odd key/value list", typ))
	}
	n := NewNode(typ, source.Span{})
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("estree.N(%s): key %v is not a string", typ, kv[i]))
		}
		n.Set(key, kv[i+1])
	}
	return n
}

// Finish assigns synthetic spans in traversal order: a node starts before
// its children and ends after them, so positional comparisons behave like
// source offsets.
func Finish(root *Node) *Node {
	var pos uint32
	var number func(*Node)
	number = func(n *Node) {
		n.Span.Start = pos
		pos++
		for _, c := range n.Children() {
			number(c)
		}
		n.Span.End = pos
		pos++
	}
	if root != nil {
		number(root)
	}
	return root
}

func Ident(name string) *Node {
	return N(Identifier, "name", name)
}

// Typed is an identifier carrying a type annotation.
func Typed(name string, typ *Node) *Node {
	return N(Identifier, "name", name, "typeAnnotation", N(TypeAnnotation, "typeAnnotation", typ))
}

func Str(s string) *Node {
	return N(Literal, "value", s, "raw", strconv.Quote(s))
}

func Num(v float64) *Node {
	return N(Literal, "value", v, "raw", strconv.FormatFloat(v, 'f', -1, 64))
}

func Prog(sourceType string, body ...*Node) *Node {
	return N(Program, "sourceType", sourceType, "body", list(body))
}

func Expr(e *Node) *Node {
	return N(ExpressionStatement, "expression", e)
}

// Directive is a prologue statement such as "use strict".
func Directive(s string) *Node {
	return N(ExpressionStatement, "expression", Str(s), "directive", s)
}

func Block(body ...*Node) *Node {
	return N(BlockStatement, "body", list(body))
}

func Var(kind string, decls ...*Node) *Node {
	return N(VariableDeclaration, "kind", kind, "declarations", list(decls))
}

func Decl(id, init *Node) *Node {
	return N(VariableDeclarator, "id", id, "init", init)
}

// Let is a single-declarator shorthand.
func Let(kind, name string, init *Node) *Node {
	return Var(kind, Decl(Ident(name), init))
}

func Func(id *Node, params []*Node, body ...*Node) *Node {
	return N(FunctionDeclaration, "id", id, "params", list(params), "body", Block(body...))
}

func FuncExpr(id *Node, params []*Node, body ...*Node) *Node {
	return N(FunctionExpression, "id", id, "params", list(params), "body", Block(body...))
}

func Arrow(params []*Node, body *Node) *Node {
	return N(ArrowFunction, "params", list(params), "body", body, "expression", !body.Is(BlockStatement))
}

func Call(callee *Node, args ...*Node) *Node {
	return N(CallExpression, "callee", callee, "arguments", list(args))
}

func Member(object *Node, property string) *Node {
	return N(MemberExpression, "object", object, "property", Ident(property), "computed", false)
}

func Index(object, property *Node) *Node {
	return N(MemberExpression, "object", object, "property", property, "computed", true)
}

func Assign(op string, left, right *Node) *Node {
	return N(AssignmentExpression, "operator", op, "left", left, "right", right)
}

func Return(arg *Node) *Node {
	return N(ReturnStatement, "argument", arg)
}

func Generic(name string, args ...*Node) *Node {
	g := N(GenericTypeAnnotation, "id", Ident(name))
	if len(args) > 0 {
		g.Set("typeParameters", N(TypeParameterInstantiation, "params", list(args)))
	}
	return g
}

func TypeParams(names ...string) *Node {
	params := make([]*Node, 0, len(names))
	for _, name := range names {
		params = append(params, N(TypeParameter, "name", name))
	}
	return N(TypeParameterDeclaration, "params", params)
}

func list(nodes []*Node) []*Node {
	if nodes == nil {
		return []*Node{}
	}
	return nodes
}
