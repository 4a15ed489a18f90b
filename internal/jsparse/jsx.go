package jsparse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"estscope/internal/estree"
)

// jsxElement converts elements, self-closing elements and fragments. A
// fragment is an element whose opening tag has no name.
func (c *converter) jsxElement(n *sitter.Node) *estree.Node {
	if n.Type() == "jsx_self_closing_element" {
		return c.make(estree.JSXElement, n,
			"openingElement", c.jsxOpening(n, true),
			"children", []*estree.Node{},
			"closingElement", nil)
	}
	open := field(n, "open_tag")
	closeTag := field(n, "close_tag")
	var children []*estree.Node
	for _, k := range named(n) {
		if k.Type() == "jsx_opening_element" || k.Type() == "jsx_closing_element" {
			continue
		}
		if child := c.jsxChild(k); child != nil {
			children = append(children, child)
		}
	}
	if field(open, "name") == nil {
		return c.make(estree.JSXFragment, n,
			"openingFragment", c.make(estree.JSXOpeningFragment, open),
			"children", children,
			"closingFragment", c.make(estree.JSXClosingFragment, closeTag))
	}
	var closing *estree.Node
	if closeTag != nil {
		closing = c.make(estree.JSXClosingElement, closeTag, "name", c.jsxName(field(closeTag, "name")))
	}
	return c.make(estree.JSXElement, n,
		"openingElement", c.jsxOpening(open, false),
		"children", children,
		"closingElement", closing)
}

func (c *converter) jsxOpening(n *sitter.Node, selfClosing bool) *estree.Node {
	name := field(n, "name")
	var attrs []*estree.Node
	for _, k := range named(n) {
		if k.StartByte() == name.StartByte() && k.EndByte() == name.EndByte() {
			continue
		}
		switch k.Type() {
		case "jsx_attribute":
			attrs = append(attrs, c.jsxAttribute(k))
		case "jsx_expression":
			attrs = append(attrs, c.make(estree.JSXSpreadAttribute, k, "argument", c.spreadArgument(k)))
		}
	}
	return c.make(estree.JSXOpeningElement, n,
		"name", c.jsxName(name),
		"attributes", attrs,
		"selfClosing", selfClosing)
}

// spreadArgument unwraps {...expr}.
func (c *converter) spreadArgument(n *sitter.Node) *estree.Node {
	inner := firstNamed(n)
	if inner != nil && inner.Type() == "spread_element" {
		return c.optionalExpression(inner)
	}
	return c.expression(inner)
}

func (c *converter) jsxName(n *sitter.Node) *estree.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "property_identifier":
		return c.make(estree.JSXIdentifier, n, "name", c.text(n))
	case "this":
		return c.make(estree.JSXIdentifier, n, "name", "this")
	case "member_expression", "nested_identifier":
		object := field(n, "object")
		property := field(n, "property")
		if object == nil || property == nil {
			kids := named(n)
			object, property = kids[0], kids[len(kids)-1]
		}
		return c.make(estree.JSXMemberExpression, n,
			"object", c.jsxName(object),
			"property", c.jsxName(property))
	case "jsx_namespace_name":
		kids := named(n)
		return c.make(estree.JSXNamespacedName, n,
			"namespace", c.jsxName(kids[0]),
			"name", c.jsxName(kids[len(kids)-1]))
	}
	return c.unsupported(n)
}

func (c *converter) jsxAttribute(n *sitter.Node) *estree.Node {
	kids := named(n)
	var value *estree.Node
	if len(kids) > 1 {
		value = c.jsxValue(kids[1])
	}
	return c.make(estree.JSXAttribute, n, "name", c.jsxName(kids[0]), "value", value)
}

func (c *converter) jsxValue(n *sitter.Node) *estree.Node {
	switch n.Type() {
	case "string":
		return c.expression(n)
	case "jsx_expression":
		return c.jsxContainer(n)
	}
	return c.expression(n)
}

func (c *converter) jsxContainer(n *sitter.Node) *estree.Node {
	inner := firstNamed(n)
	if inner == nil {
		empty := c.make(estree.JSXEmptyExpression, n)
		return c.make(estree.JSXExpressionContainer, n, "expression", empty)
	}
	return c.make(estree.JSXExpressionContainer, n, "expression", c.expression(inner))
}

func (c *converter) jsxChild(n *sitter.Node) *estree.Node {
	switch n.Type() {
	case "jsx_text", "html_character_reference":
		return c.make(estree.JSXText, n, "value", c.text(n), "raw", c.text(n))
	case "jsx_expression":
		if inner := firstNamed(n); inner != nil && inner.Type() == "spread_element" {
			return c.make("JSXSpreadChild", n, "expression", c.optionalExpression(inner))
		}
		return c.jsxContainer(n)
	}
	return c.expression(n)
}
