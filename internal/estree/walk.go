package estree

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of that node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Count returns the number of nodes reachable from n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node) bool {
		total++
		return true
	})
	return total
}

// Root follows the chain of a member-like node down to its leftmost
// object. It is used for qualified names and JSX member tags.
func Root(n *Node) *Node {
	for n != nil {
		switch n.Type {
		case MemberExpression, OptionalMemberExpression, JSXMemberExpression:
			n = n.Child("object")
		case QualifiedTypeIdentifier, QualifiedTypeofIdentifier:
			n = n.Child("qualification")
		case JSXNamespacedName:
			n = n.Child("namespace")
		default:
			return n
		}
	}
	return nil
}
