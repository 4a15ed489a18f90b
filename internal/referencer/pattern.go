package referencer

import "estscope/internal/estree"

// patternInfo describes one bound identifier of a pattern.
type patternInfo struct {
	topLevel bool
	rest     bool
	// assignments are the enclosing default-value nodes, outermost first.
	assignments []*estree.Node
}

type patternCallback func(id *estree.Node, info patternInfo)

// patternVisitor binds the identifiers of one pattern occurrence. Read
// positions met on the way are queued in rightHand and visited by the
// caller afterwards, so that every binding exists before its reads.
type patternVisitor struct {
	root        *estree.Node
	callback    patternCallback
	typeVisit   func(*estree.Node)
	assignments []*estree.Node
	restStack   []*estree.Node
	rightHand   []*estree.Node
}

func isPattern(n *estree.Node) bool {
	return n.Is(estree.Identifier, estree.ObjectPattern, estree.ArrayPattern,
		estree.SpreadElement, estree.RestElement, estree.AssignmentPattern)
}

// visitPattern runs the binder over root. With processRightHand the
// queued read positions are visited as ordinary expressions afterwards.
func (r *referencer) visitPattern(root *estree.Node, processRightHand bool, cb patternCallback) {
	if root == nil {
		return
	}
	pv := &patternVisitor{root: root, callback: cb, typeVisit: r.visitType}
	pv.visit(root)
	if processRightHand {
		r.visitAll(pv.rightHand)
	}
}

func (pv *patternVisitor) visit(n *estree.Node) {
	if n == nil {
		return
	}
	switch n.Type {
	case estree.Identifier:
		last := len(pv.restStack) - 1
		pv.callback(n, patternInfo{
			topLevel:    n == pv.root,
			rest:        last >= 0 && pv.restStack[last].Child("argument") == n,
			assignments: append([]*estree.Node(nil), pv.assignments...),
		})
		pv.typeVisit(n.Child("typeAnnotation"))

	case estree.ObjectPattern:
		for _, prop := range n.List("properties") {
			pv.visit(prop)
		}
		pv.typeVisit(n.Child("typeAnnotation"))

	case estree.ArrayPattern:
		for _, el := range n.List("elements") {
			pv.visit(el) // holes are nil
		}
		pv.typeVisit(n.Child("typeAnnotation"))

	case estree.Property:
		if n.Bool("computed") {
			pv.rightHand = append(pv.rightHand, n.Child("key"))
		}
		pv.visit(n.Child("value"))

	case estree.AssignmentPattern, estree.AssignmentExpression:
		pv.assignments = append(pv.assignments, n)
		pv.visit(n.Child("left"))
		pv.rightHand = append(pv.rightHand, n.Child("right"))
		pv.assignments = pv.assignments[:len(pv.assignments)-1]

	case estree.RestElement:
		pv.restStack = append(pv.restStack, n)
		pv.visit(n.Child("argument"))
		pv.restStack = pv.restStack[:len(pv.restStack)-1]
		pv.typeVisit(n.Child("typeAnnotation"))

	case estree.MemberExpression, estree.OptionalMemberExpression:
		if n.Bool("computed") {
			pv.rightHand = append(pv.rightHand, n.Child("property"))
		}
		pv.rightHand = append(pv.rightHand, n.Child("object"))

	case estree.SpreadElement:
		pv.visit(n.Child("argument"))

	case estree.ArrayExpression:
		for _, el := range n.List("elements") {
			pv.visit(el)
		}

	case estree.CallExpression:
		pv.rightHand = append(pv.rightHand, n.List("arguments")...)
		pv.visit(n.Child("callee"))

	default:
		for _, child := range n.Children() {
			pv.visit(child)
		}
	}
}
