package jsparse

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"estscope/internal/estree"
	"estscope/internal/source"
)

func (c *converter) identifier(n *sitter.Node) *estree.Node {
	return c.make(estree.Identifier, n, "name", c.text(n))
}

func (c *converter) expression(n *sitter.Node) *estree.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "undefined", "shorthand_property_identifier", "property_identifier",
		"shorthand_property_identifier_pattern", "statement_identifier":
		return c.identifier(n)
	case "private_property_identifier":
		return c.make(estree.PrivateIdentifier, n, "name", strings.TrimPrefix(c.text(n), "#"))
	case "this":
		return c.make(estree.ThisExpression, n)
	case "super":
		return c.make(estree.Super, n)
	case "number":
		return c.number(n)
	case "string":
		return c.make(estree.Literal, n, "value", c.stringValue(n), "raw", c.text(n))
	case "true", "false":
		return c.make(estree.Literal, n, "value", n.Type() == "true", "raw", c.text(n))
	case "null":
		return c.make(estree.Literal, n, "value", nil, "raw", "null")
	case "regex":
		return c.make(estree.Literal, n, "raw", c.text(n), "regex", c.text(n))
	case "template_string":
		return c.template(n)
	case "parenthesized_expression":
		kids := named(n)
		if len(kids) == 0 {
			return c.unsupported(n)
		}
		return c.expression(kids[0])
	case "sequence_expression":
		var exprs []*estree.Node
		for _, k := range named(n) {
			if e := c.expression(k); e != nil && e.Is(estree.SequenceExpression) {
				exprs = append(exprs, e.List("expressions")...)
			} else {
				exprs = append(exprs, e)
			}
		}
		return c.make(estree.SequenceExpression, n, "expressions", exprs)
	case "array":
		var elems []*estree.Node
		for _, k := range named(n) {
			elems = append(elems, c.expression(k))
		}
		return c.make(estree.ArrayExpression, n, "elements", elems)
	case "object":
		return c.object(n)
	case "spread_element":
		return c.make(estree.SpreadElement, n, "argument", c.optionalExpression(n))
	case "function_expression", "function", "generator_function":
		return c.function(estree.FunctionExpression, n)
	case "arrow_function":
		return c.arrow(n)
	case "class":
		return c.class(estree.ClassExpression, n)
	case "call_expression":
		return c.call(n)
	case "new_expression":
		var args []*estree.Node
		if a := field(n, "arguments"); a != nil {
			args = c.arguments(a)
		}
		return c.make(estree.NewExpression, n,
			"callee", c.expression(field(n, "constructor")),
			"arguments", args)
	case "member_expression":
		return c.make(estree.MemberExpression, n,
			"object", c.expression(field(n, "object")),
			"property", c.expression(field(n, "property")),
			"computed", false,
			"optional", childOfType(n, "optional_chain") != nil)
	case "subscript_expression":
		return c.make(estree.MemberExpression, n,
			"object", c.expression(field(n, "object")),
			"property", c.expression(field(n, "index")),
			"computed", true,
			"optional", childOfType(n, "optional_chain") != nil)
	case "assignment_expression":
		return c.make(estree.AssignmentExpression, n,
			"operator", "=",
			"left", c.pattern(field(n, "left")),
			"right", c.expression(field(n, "right")))
	case "augmented_assignment_expression":
		return c.make(estree.AssignmentExpression, n,
			"operator", c.text(field(n, "operator")),
			"left", c.pattern(field(n, "left")),
			"right", c.expression(field(n, "right")))
	case "update_expression":
		arg := field(n, "argument")
		return c.make(estree.UpdateExpression, n,
			"operator", c.text(field(n, "operator")),
			"prefix", arg.StartByte() > n.StartByte(),
			"argument", c.expression(arg))
	case "binary_expression":
		op := c.text(field(n, "operator"))
		typ := estree.BinaryExpression
		if op == "&&" || op == "||" || op == "??" {
			typ = estree.LogicalExpression
		}
		return c.make(typ, n,
			"operator", op,
			"left", c.expression(field(n, "left")),
			"right", c.expression(field(n, "right")))
	case "unary_expression":
		return c.make(estree.UnaryExpression, n,
			"operator", c.text(field(n, "operator")),
			"prefix", true,
			"argument", c.expression(field(n, "argument")))
	case "ternary_expression":
		return c.make(estree.ConditionalExpression, n,
			"test", c.expression(field(n, "condition")),
			"consequent", c.expression(field(n, "consequence")),
			"alternate", c.expression(field(n, "alternative")))
	case "await_expression":
		return c.make(estree.AwaitExpression, n, "argument", c.optionalExpression(n))
	case "yield_expression":
		return c.make(estree.YieldExpression, n,
			"argument", c.optionalExpression(n),
			"delegate", hasToken(n, "*"))
	case "meta_property":
		kids := n.ChildCount()
		return c.make(estree.MetaProperty, n,
			"meta", c.make(estree.Identifier, n.Child(0), "name", c.text(n.Child(0))),
			"property", c.make(estree.Identifier, n.Child(int(kids)-1), "name", c.text(n.Child(int(kids)-1))))
	case "jsx_element", "jsx_self_closing_element":
		return c.jsxElement(n)
	default:
		return c.unsupported(n)
	}
}

func (c *converter) number(n *sitter.Node) *estree.Node {
	raw := c.text(n)
	digits := strings.ReplaceAll(raw, "_", "")
	if big, ok := strings.CutSuffix(digits, "n"); ok {
		return c.make(estree.Literal, n, "value", nil, "raw", raw, "bigint", big)
	}
	var value float64
	if i, err := strconv.ParseInt(digits, 0, 64); err == nil {
		value = float64(i)
	} else if f, err := strconv.ParseFloat(digits, 64); err == nil {
		value = f
	}
	return c.make(estree.Literal, n, "value", value, "raw", raw)
}

// stringValue decodes a string literal's fragments and escapes.
func (c *converter) stringValue(n *sitter.Node) string {
	var b strings.Builder
	for i := 0; i < int(n.NamedChildCount()); i++ {
		part := n.NamedChild(i)
		text := c.text(part)
		if part.Type() == "escape_sequence" {
			if s, err := strconv.Unquote(`"` + text + `"`); err == nil {
				text = s
			} else {
				text = strings.TrimPrefix(text, `\`)
			}
		}
		b.WriteString(text)
	}
	return b.String()
}

// template splits the literal at its substitutions. Each quasi spans its
// own text, between the backticks and the `${` `}` delimiters.
func (c *converter) template(n *sitter.Node) *estree.Node {
	var quasis, exprs []*estree.Node
	start := n.StartByte() + 1
	for i := 0; i < int(n.NamedChildCount()); i++ {
		part := n.NamedChild(i)
		if part.Type() != "template_substitution" {
			continue
		}
		quasis = append(quasis, c.quasi(start, part.StartByte(), false))
		exprs = append(exprs, c.optionalExpression(part))
		start = part.EndByte()
	}
	end := n.EndByte()
	if end > start {
		end--
	}
	quasis = append(quasis, c.quasi(start, end, true))
	return c.make(estree.TemplateLiteral, n, "quasis", quasis, "expressions", exprs)
}

func (c *converter) quasi(start, end uint32, tail bool) *estree.Node {
	q := estree.N(estree.TemplateElement, "value", string(c.src[start:end]), "tail", tail)
	q.Span = source.Span{File: c.file, Start: start, End: end}
	return q
}

func (c *converter) arguments(n *sitter.Node) []*estree.Node {
	var args []*estree.Node
	for _, a := range named(n) {
		args = append(args, c.expression(a))
	}
	return args
}

func (c *converter) call(n *sitter.Node) *estree.Node {
	fn := field(n, "function")
	args := field(n, "arguments")
	if fn.Type() == "import" {
		var source *estree.Node
		if list := c.arguments(args); len(list) > 0 {
			source = list[0]
		}
		return c.make(estree.ImportExpression, n, "source", source)
	}
	callee := c.expression(fn)
	if args != nil && args.Type() == "template_string" {
		return c.make(estree.TaggedTemplateExpression, n, "tag", callee, "quasi", c.template(args))
	}
	var list []*estree.Node
	if args != nil {
		list = c.arguments(args)
	}
	return c.make(estree.CallExpression, n,
		"callee", callee,
		"arguments", list,
		"optional", childOfType(n, "optional_chain") != nil)
}

// propertyKey converts an object or class key; computed keys unwrap
// their brackets.
func (c *converter) propertyKey(n *sitter.Node) (key *estree.Node, computed bool) {
	if n.Type() == "computed_property_name" {
		return c.optionalExpression(n), true
	}
	return c.expression(n), false
}

func (c *converter) object(n *sitter.Node) *estree.Node {
	var props []*estree.Node
	for _, p := range named(n) {
		switch p.Type() {
		case "pair":
			key, computed := c.propertyKey(field(p, "key"))
			props = append(props, c.make(estree.Property, p,
				"key", key,
				"value", c.expression(field(p, "value")),
				"kind", "init",
				"computed", computed,
				"shorthand", false,
				"method", false))
		case "shorthand_property_identifier":
			props = append(props, c.make(estree.Property, p,
				"key", c.identifier(p),
				"value", c.identifier(p),
				"kind", "init",
				"computed", false,
				"shorthand", true,
				"method", false))
		case "method_definition":
			key, computed := c.propertyKey(field(p, "name"))
			kind := "init"
			if hasToken(p, "get") {
				kind = "get"
			} else if hasToken(p, "set") {
				kind = "set"
			}
			props = append(props, c.make(estree.Property, p,
				"key", key,
				"value", c.method(p),
				"kind", kind,
				"computed", computed,
				"shorthand", false,
				"method", kind == "init"))
		case "spread_element":
			props = append(props, c.expression(p))
		default:
			c.unsupported(p)
		}
	}
	return c.make(estree.ObjectExpression, n, "properties", props)
}

func (c *converter) params(n *sitter.Node) []*estree.Node {
	var out []*estree.Node
	for _, p := range named(n) {
		out = append(out, c.pattern(p))
	}
	return out
}

func (c *converter) function(typ string, n *sitter.Node) *estree.Node {
	var id *estree.Node
	if name := field(n, "name"); name != nil {
		id = c.identifier(name)
	}
	return c.make(typ, n,
		"id", id,
		"params", c.params(field(n, "parameters")),
		"body", c.block(field(n, "body"), true),
		"async", hasToken(n, "async"),
		"generator", hasToken(n, "*"))
}

// method builds the function value of a method definition; it spans the
// parameter list and body like ESTree producers do.
func (c *converter) method(n *sitter.Node) *estree.Node {
	params := field(n, "parameters")
	fn := c.make(estree.FunctionExpression, n,
		"id", nil,
		"params", c.params(params),
		"body", c.block(field(n, "body"), true),
		"async", hasToken(n, "async"),
		"generator", hasToken(n, "*"))
	fn.Span.Start = params.StartByte()
	return fn
}

func (c *converter) arrow(n *sitter.Node) *estree.Node {
	var params []*estree.Node
	if single := field(n, "parameter"); single != nil {
		params = []*estree.Node{c.pattern(single)}
	} else {
		params = c.params(field(n, "parameters"))
	}
	body := field(n, "body")
	var converted *estree.Node
	expression := body.Type() != "statement_block"
	if expression {
		converted = c.expression(body)
	} else {
		converted = c.block(body, true)
	}
	return c.make(estree.ArrowFunction, n,
		"id", nil,
		"params", params,
		"body", converted,
		"expression", expression,
		"async", hasToken(n, "async"))
}

func (c *converter) class(typ string, n *sitter.Node) *estree.Node {
	var id, superClass *estree.Node
	if name := field(n, "name"); name != nil {
		id = c.identifier(name)
	}
	if heritage := childOfType(n, "class_heritage"); heritage != nil {
		superClass = c.optionalExpression(heritage)
	}
	body := field(n, "body")
	var members []*estree.Node
	for _, m := range named(body) {
		if member := c.classMember(m); member != nil {
			members = append(members, member)
		}
	}
	return c.make(typ, n,
		"id", id,
		"superClass", superClass,
		"body", c.make(estree.ClassBody, body, "body", members))
}

func (c *converter) classMember(n *sitter.Node) *estree.Node {
	static := hasToken(n, "static")
	switch n.Type() {
	case "method_definition":
		key, computed := c.propertyKey(field(n, "name"))
		kind := "method"
		switch {
		case hasToken(n, "get"):
			kind = "get"
		case hasToken(n, "set"):
			kind = "set"
		case !computed && !static && key.Name() == "constructor":
			kind = "constructor"
		}
		return c.make(estree.MethodDefinition, n,
			"key", key,
			"value", c.method(n),
			"kind", kind,
			"computed", computed,
			"static", static)
	case "field_definition":
		key, computed := c.propertyKey(field(n, "property"))
		var value *estree.Node
		if v := field(n, "value"); v != nil {
			value = c.expression(v)
		}
		return c.make(estree.PropertyDefinition, n,
			"key", key,
			"value", value,
			"computed", computed,
			"static", static)
	case "class_static_block":
		return c.make(estree.StaticBlock, n, "body", c.statements(named(field(n, "body")), false))
	case "decorator":
		return nil
	default:
		return c.unsupported(n)
	}
}

// pattern converts a binding or assignment target.
func (c *converter) pattern(n *sitter.Node) *estree.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern", "undefined":
		return c.identifier(n)
	case "assignment_pattern":
		return c.make(estree.AssignmentPattern, n,
			"left", c.pattern(field(n, "left")),
			"right", c.expression(field(n, "right")))
	case "rest_pattern":
		return c.make(estree.RestElement, n, "argument", c.pattern(firstNamed(n)))
	case "array_pattern":
		var elems []*estree.Node
		for _, k := range named(n) {
			elems = append(elems, c.pattern(k))
		}
		return c.make(estree.ArrayPattern, n, "elements", elems)
	case "object_pattern":
		return c.objectPattern(n)
	case "parenthesized_expression":
		return c.pattern(firstNamed(n))
	}
	return c.expression(n)
}

func (c *converter) objectPattern(n *sitter.Node) *estree.Node {
	var props []*estree.Node
	for _, p := range named(n) {
		switch p.Type() {
		case "pair_pattern":
			key, computed := c.propertyKey(field(p, "key"))
			props = append(props, c.make(estree.Property, p,
				"key", key,
				"value", c.pattern(field(p, "value")),
				"kind", "init",
				"computed", computed,
				"shorthand", false))
		case "shorthand_property_identifier_pattern":
			props = append(props, c.make(estree.Property, p,
				"key", c.identifier(p),
				"value", c.identifier(p),
				"kind", "init",
				"computed", false,
				"shorthand", true))
		case "object_assignment_pattern":
			left := field(p, "left")
			value := c.make(estree.AssignmentPattern, p,
				"left", c.pattern(left),
				"right", c.expression(field(p, "right")))
			props = append(props, c.make(estree.Property, p,
				"key", c.identifier(left),
				"value", value,
				"kind", "init",
				"computed", false,
				"shorthand", true))
		case "rest_pattern":
			props = append(props, c.pattern(p))
		default:
			c.unsupported(p)
		}
	}
	return c.make(estree.ObjectPattern, n, "properties", props)
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if kids := named(n); len(kids) > 0 {
		return kids[0]
	}
	return nil
}
