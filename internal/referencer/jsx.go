package referencer

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"estscope/internal/estree"
	"estscope/internal/scope"
)

var upper = cases.Upper(language.Und)

// pragmas returns the root identifiers of the JSX factory and fragment.
// Docblock @jsx and @jsxFrag tags override the options.
func (r *referencer) pragmas(program *estree.Node) (pragma, fragment string) {
	pragma = r.opts.JSXPragma
	if pragma == "" {
		pragma = DefaultJSXPragma
	}
	if r.opts.DisableJSXPragma {
		pragma = ""
	}
	fragment = r.opts.JSXFragmentName
	if doc := docblock(program); doc != "" {
		if v, ok := docTag(doc, "@jsx"); ok {
			pragma = v
		}
		if v, ok := docTag(doc, "@jsxFrag"); ok {
			fragment = v
		}
	}
	return rootSegment(pragma), rootSegment(fragment)
}

// docblock returns the text of the leading block comment, if any.
func docblock(program *estree.Node) string {
	if db, ok := program.Scalar("docblock").(map[string]any); ok {
		if c, ok := db["comment"].(*estree.Node); ok {
			return c.Str("value")
		}
	}
	comments := program.List("comments")
	if len(comments) == 0 || !comments[0].Is("Block", "CommentBlock") {
		return ""
	}
	first := comments[0]
	if body := program.List("body"); len(body) > 0 && body[0] != nil && first.Span.End > body[0].Span.Start {
		return ""
	}
	return first.Str("value")
}

func docTag(doc, tag string) (string, bool) {
	fields := strings.Fields(doc)
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == tag {
			return fields[i+1], true
		}
	}
	return "", false
}

func rootSegment(name string) string {
	root, _, _ := strings.Cut(name, ".")
	return root
}

// intrinsic tags (<div>) compile to strings, not variable reads.
func intrinsic(name string) bool {
	first, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return false
	}
	s := string(first)
	return upper.String(s) != s
}

func (r *referencer) fbtTag(root string) bool {
	return r.opts.FBT && (root == "fbt" || root == "fbs")
}

func (r *referencer) jsxOpeningElement(n *estree.Node) {
	name := n.Child("name")
	root := estree.Root(name).Name()
	if !r.fbtTag(root) {
		r.referencePragma()
	}
	switch name.Type {
	case estree.JSXIdentifier:
		if r.fbtTag(root) || !intrinsic(root) {
			r.m.ReferenceValue(name, scope.RefSpec{})
		}
	case estree.JSXMemberExpression:
		if root != "this" {
			r.visit(name)
		}
	case estree.JSXNamespacedName:
		if root != "this" {
			r.m.ReferenceValue(name.Child("namespace"), scope.RefSpec{})
		}
	}
	r.visitType(n.Child("typeArguments"))
	r.visitAll(n.List("attributes"))
}

func (r *referencer) jsxFragmentNode(n *estree.Node) {
	r.referencePragma()
	r.referenceFragment()
	r.visitAll(n.List("children"))
}

// referencePragma marks the JSX factory used and, the first time a visible
// binding exists, gives that binding one read reference.
func (r *referencer) referencePragma() {
	r.m.MarkIndirect(r.jsxPragma)
	if r.jsxPragma != "" && !r.pragmaReferenced {
		r.pragmaReferenced = r.m.ReferenceInUpperScope(r.jsxPragma)
	}
}

func (r *referencer) referenceFragment() {
	r.m.MarkIndirect(r.jsxFragment)
	if r.jsxFragment != "" && !r.fragmentReferenced {
		r.fragmentReferenced = r.m.ReferenceInUpperScope(r.jsxFragment)
	}
}
