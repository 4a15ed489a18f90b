package jsparse

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"estscope/internal/estree"
	"estscope/internal/source"
)

type converter struct {
	src        []byte
	file       source.FileID
	sourceType string
	errs       []error
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func (c *converter) span(n *sitter.Node) source.Span {
	return source.Span{File: c.file, Start: n.StartByte(), End: n.EndByte()}
}

// make builds an estree node spanning ts.
func (c *converter) make(typ string, ts *sitter.Node, kv ...any) *estree.Node {
	n := estree.N(typ, kv...)
	n.Span = c.span(ts)
	return n
}

func (c *converter) unsupported(n *sitter.Node) *estree.Node {
	pt := n.StartPoint()
	c.errs = append(c.errs, fmt.Errorf("%w: %s at %d:%d", ErrUnsupported, n.Type(), pt.Row+1, pt.Column+1))
	return nil
}

// named returns the named children of n, comments excluded.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "comment" {
			out = append(out, child)
		}
	}
	return out
}

// hasToken reports whether n has an anonymous child spelled tok.
func hasToken(n *sitter.Node, tok string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.IsNamed() && child.Type() == tok {
			return true
		}
	}
	return false
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.Type() == typ {
			return child
		}
	}
	return nil
}

func field(n *sitter.Node, name string) *sitter.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(name)
}

func (c *converter) program(root *sitter.Node) *estree.Node {
	sourceType := c.sourceType
	if sourceType == "" {
		sourceType = "script"
		for _, child := range named(root) {
			if child.Type() == "import_statement" || child.Type() == "export_statement" {
				sourceType = "module"
				break
			}
		}
	}
	var comments []*estree.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if child := root.NamedChild(i); child.Type() == "comment" {
			comments = append(comments, c.comment(child))
		}
	}
	return c.make(estree.Program, root,
		"sourceType", sourceType,
		"body", c.statements(named(root), true),
		"comments", comments)
}

func (c *converter) comment(n *sitter.Node) *estree.Node {
	text := c.text(n)
	if body, ok := strings.CutPrefix(text, "/*"); ok {
		return c.make("Block", n, "value", strings.TrimSuffix(body, "*/"))
	}
	return c.make("Line", n, "value", strings.TrimPrefix(text, "//"))
}

// statements converts a statement list. With prologue set, leading string
// expression statements become directives.
func (c *converter) statements(list []*sitter.Node, prologue bool) []*estree.Node {
	out := make([]*estree.Node, 0, len(list))
	for _, n := range list {
		if prologue {
			if d := c.directive(n); d != nil {
				out = append(out, d)
				continue
			}
			prologue = false
		}
		if s := c.statement(n); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (c *converter) directive(n *sitter.Node) *estree.Node {
	if n.Type() != "expression_statement" {
		return nil
	}
	kids := named(n)
	if len(kids) != 1 || kids[0].Type() != "string" {
		return nil
	}
	raw := c.text(kids[0])
	return c.make(estree.ExpressionStatement, n,
		"expression", c.expression(kids[0]),
		"directive", raw[1:len(raw)-1])
}

func (c *converter) block(n *sitter.Node, prologue bool) *estree.Node {
	if n == nil {
		return nil
	}
	return c.make(estree.BlockStatement, n, "body", c.statements(named(n), prologue))
}

func (c *converter) statement(n *sitter.Node) *estree.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "expression_statement":
		kids := named(n)
		if len(kids) == 0 {
			return c.make(estree.EmptyStatement, n)
		}
		return c.make(estree.ExpressionStatement, n, "expression", c.expression(kids[0]))
	case "empty_statement":
		return c.make(estree.EmptyStatement, n)
	case "debugger_statement":
		return c.make("DebuggerStatement", n)
	case "statement_block":
		return c.block(n, false)
	case "lexical_declaration", "variable_declaration":
		return c.declaration(n)
	case "function_declaration", "generator_function_declaration":
		return c.function(estree.FunctionDeclaration, n)
	case "class_declaration":
		return c.class(estree.ClassDeclaration, n)
	case "if_statement":
		var alt *estree.Node
		if el := field(n, "alternative"); el != nil {
			if kids := named(el); len(kids) > 0 {
				alt = c.statement(kids[0])
			}
		}
		return c.make(estree.IfStatement, n,
			"test", c.expression(field(n, "condition")),
			"consequent", c.statement(field(n, "consequence")),
			"alternate", alt)
	case "for_statement":
		return c.forStatement(n)
	case "for_in_statement":
		return c.forInStatement(n)
	case "while_statement":
		return c.make(estree.WhileStatement, n,
			"test", c.expression(field(n, "condition")),
			"body", c.statement(field(n, "body")))
	case "do_statement":
		return c.make(estree.DoWhileStatement, n,
			"body", c.statement(field(n, "body")),
			"test", c.expression(field(n, "condition")))
	case "return_statement":
		return c.make(estree.ReturnStatement, n, "argument", c.optionalExpression(n))
	case "throw_statement":
		return c.make(estree.ThrowStatement, n, "argument", c.optionalExpression(n))
	case "try_statement":
		return c.tryStatement(n)
	case "switch_statement":
		return c.switchStatement(n)
	case "labeled_statement":
		return c.make(estree.LabeledStatement, n,
			"label", c.identifier(field(n, "label")),
			"body", c.statement(field(n, "body")))
	case "break_statement", "continue_statement":
		typ := estree.BreakStatement
		if n.Type() == "continue_statement" {
			typ = estree.ContinueStatement
		}
		var label *estree.Node
		if l := field(n, "label"); l != nil {
			label = c.identifier(l)
		}
		return c.make(typ, n, "label", label)
	case "with_statement":
		return c.make(estree.WithStatement, n,
			"object", c.expression(field(n, "object")),
			"body", c.statement(field(n, "body")))
	case "import_statement":
		return c.importStatement(n)
	case "export_statement":
		return c.exportStatement(n)
	default:
		return c.unsupported(n)
	}
}

func (c *converter) optionalExpression(n *sitter.Node) *estree.Node {
	if kids := named(n); len(kids) > 0 {
		return c.expression(kids[0])
	}
	return nil
}

func (c *converter) declaration(n *sitter.Node) *estree.Node {
	kind := "var"
	if n.Type() == "lexical_declaration" {
		k := field(n, "kind")
		if k == nil {
			k = n.Child(0)
		}
		kind = c.text(k)
	}
	var decls []*estree.Node
	for _, d := range named(n) {
		if d.Type() != "variable_declarator" {
			continue
		}
		var init *estree.Node
		if v := field(d, "value"); v != nil {
			init = c.expression(v)
		}
		decls = append(decls, c.make(estree.VariableDeclarator, d,
			"id", c.pattern(field(d, "name")),
			"init", init))
	}
	return c.make(estree.VariableDeclaration, n, "kind", kind, "declarations", decls)
}

// loopClause unwraps the statement-shaped init and test slots of a for
// loop.
func (c *converter) loopClause(n *sitter.Node) *estree.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "empty_statement", ";":
		return nil
	case "lexical_declaration", "variable_declaration":
		return c.declaration(n)
	case "expression_statement":
		return c.optionalExpression(n)
	}
	return c.expression(n)
}

func (c *converter) forStatement(n *sitter.Node) *estree.Node {
	var update *estree.Node
	if inc := field(n, "increment"); inc != nil {
		update = c.expression(inc)
	}
	return c.make(estree.ForStatement, n,
		"init", c.loopClause(field(n, "initializer")),
		"test", c.loopClause(field(n, "condition")),
		"update", update,
		"body", c.statement(field(n, "body")))
}

func (c *converter) forInStatement(n *sitter.Node) *estree.Node {
	typ := estree.ForInStatement
	if op := field(n, "operator"); op != nil && c.text(op) == "of" {
		typ = estree.ForOfStatement
	}
	left := field(n, "left")
	var target *estree.Node
	if kind := field(n, "kind"); kind != nil {
		decl := c.make(estree.VariableDeclarator, left, "id", c.pattern(left), "init", nil)
		target = c.make(estree.VariableDeclaration, n,
			"kind", c.text(kind),
			"declarations", []*estree.Node{decl})
		target.Span.Start, target.Span.End = kind.StartByte(), left.EndByte()
	} else {
		target = c.pattern(left)
	}
	return c.make(typ, n,
		"left", target,
		"right", c.expression(field(n, "right")),
		"body", c.statement(field(n, "body")),
		"await", hasToken(n, "await"))
}

func (c *converter) tryStatement(n *sitter.Node) *estree.Node {
	var handler, finalizer *estree.Node
	if h := field(n, "handler"); h != nil {
		var param *estree.Node
		if p := field(h, "parameter"); p != nil {
			param = c.pattern(p)
		}
		handler = c.make(estree.CatchClause, h, "param", param, "body", c.block(field(h, "body"), false))
	}
	if f := field(n, "finalizer"); f != nil {
		finalizer = c.block(field(f, "body"), false)
	}
	return c.make(estree.TryStatement, n,
		"block", c.block(field(n, "body"), false),
		"handler", handler,
		"finalizer", finalizer)
}

func (c *converter) switchStatement(n *sitter.Node) *estree.Node {
	var cases []*estree.Node
	for _, sc := range named(field(n, "body")) {
		var test *estree.Node
		value := field(sc, "value")
		if sc.Type() == "switch_case" && value != nil {
			test = c.expression(value)
		}
		var body []*sitter.Node
		for _, s := range named(sc) {
			if value == nil || s.StartByte() != value.StartByte() || s.Type() != value.Type() {
				body = append(body, s)
			}
		}
		cases = append(cases, c.make(estree.SwitchCase, sc, "test", test, "consequent", c.statements(body, false)))
	}
	return c.make(estree.SwitchStatement, n,
		"discriminant", c.expression(field(n, "value")),
		"cases", cases)
}

func (c *converter) importStatement(n *sitter.Node) *estree.Node {
	var specs []*estree.Node
	if clause := childOfType(n, "import_clause"); clause != nil {
		for _, part := range named(clause) {
			switch part.Type() {
			case "identifier":
				specs = append(specs, c.make(estree.ImportDefaultSpecifier, part, "local", c.identifier(part)))
			case "namespace_import":
				if id := named(part); len(id) > 0 {
					specs = append(specs, c.make(estree.ImportNamespaceSpecifier, part, "local", c.identifier(id[0])))
				}
			case "named_imports":
				for _, s := range named(part) {
					if s.Type() != "import_specifier" {
						continue
					}
					imported := c.moduleName(field(s, "name"))
					local := imported
					if alias := field(s, "alias"); alias != nil {
						local = c.identifier(alias)
					}
					specs = append(specs, c.make(estree.ImportSpecifier, s, "imported", imported, "local", local))
				}
			}
		}
	}
	return c.make(estree.ImportDeclaration, n,
		"importKind", "value",
		"specifiers", specs,
		"source", c.expression(field(n, "source")))
}

// moduleName is an identifier or a string naming an import or export.
func (c *converter) moduleName(n *sitter.Node) *estree.Node {
	if n.Type() == "string" {
		return c.expression(n)
	}
	return c.identifier(n)
}

func (c *converter) exportStatement(n *sitter.Node) *estree.Node {
	var src *estree.Node
	if s := field(n, "source"); s != nil {
		src = c.expression(s)
	}
	if decl := field(n, "declaration"); decl != nil {
		if hasToken(n, "default") {
			return c.make(estree.ExportDefaultDeclaration, n, "declaration", c.statement(decl))
		}
		return c.make(estree.ExportNamedDeclaration, n,
			"exportKind", "value",
			"declaration", c.statement(decl),
			"specifiers", []*estree.Node{},
			"source", nil)
	}
	if value := field(n, "value"); value != nil {
		return c.make(estree.ExportDefaultDeclaration, n, "declaration", c.expression(value))
	}
	if clause := childOfType(n, "export_clause"); clause != nil {
		var specs []*estree.Node
		for _, s := range named(clause) {
			if s.Type() != "export_specifier" {
				continue
			}
			local := c.moduleName(field(s, "name"))
			exported := local
			if alias := field(s, "alias"); alias != nil {
				exported = c.moduleName(alias)
			}
			specs = append(specs, c.make(estree.ExportSpecifier, s, "local", local, "exported", exported))
		}
		return c.make(estree.ExportNamedDeclaration, n,
			"exportKind", "value",
			"declaration", nil,
			"specifiers", specs,
			"source", src)
	}
	var exported *estree.Node
	if ns := childOfType(n, "namespace_export"); ns != nil {
		if kids := named(ns); len(kids) > 0 {
			exported = c.moduleName(kids[0])
		}
	}
	return c.make(estree.ExportAllDeclaration, n, "exported", exported, "source", src)
}
