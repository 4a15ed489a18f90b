package estree

import (
	"estscope/internal/source"
)

// FieldKind tells which payload of a Field is populated.
type FieldKind uint8

const (
	FieldScalar FieldKind = iota
	FieldNode
	FieldList
)

// Field is one named property of a node. Fields keep the order in which the
// producer emitted them.
type Field struct {
	Key    string
	Kind   FieldKind
	Node   *Node
	List   []*Node
	Scalar any
}

// Node is a generic ESTree node. Every syntax kind shares this shape; the
// Type tag selects behaviour.
type Node struct {
	Type   string
	Span   source.Span
	fields []Field
}

func NewNode(typ string, span source.Span) *Node {
	return &Node{Type: typ, Span: span}
}

// Is reports whether n is non-nil and has one of the given types.
func (n *Node) Is(types ...string) bool {
	if n == nil {
		return false
	}
	for _, t := range types {
		if n.Type == t {
			return true
		}
	}
	return false
}

func (n *Node) Fields() []Field {
	if n == nil {
		return nil
	}
	return n.fields
}

func (n *Node) field(key string) *Field {
	if n == nil {
		return nil
	}
	for i := range n.fields {
		if n.fields[i].Key == key {
			return &n.fields[i]
		}
	}
	return nil
}

// Has reports whether the key is present at all, even with a null value.
func (n *Node) Has(key string) bool {
	return n.field(key) != nil
}

// Child returns the node stored under key, or nil.
func (n *Node) Child(key string) *Node {
	if f := n.field(key); f != nil && f.Kind == FieldNode {
		return f.Node
	}
	return nil
}

// List returns the node list stored under key. Holes are nil entries.
func (n *Node) List(key string) []*Node {
	if f := n.field(key); f != nil && f.Kind == FieldList {
		return f.List
	}
	return nil
}

func (n *Node) Scalar(key string) any {
	if f := n.field(key); f != nil && f.Kind == FieldScalar {
		return f.Scalar
	}
	return nil
}

func (n *Node) Str(key string) string {
	s, _ := n.Scalar(key).(string)
	return s
}

func (n *Node) Bool(key string) bool {
	b, _ := n.Scalar(key).(bool)
	return b
}

// Name is the "name" property of identifiers and type parameters.
func (n *Node) Name() string {
	return n.Str("name")
}

func (n *Node) set(f Field) *Node {
	for i := range n.fields {
		if n.fields[i].Key == f.Key {
			n.fields[i] = f
			return n
		}
	}
	n.fields = append(n.fields, f)
	return n
}

// SetChild stores a child node; a nil child is kept as an explicit null.
func (n *Node) SetChild(key string, child *Node) *Node {
	if child == nil {
		return n.set(Field{Key: key, Kind: FieldScalar})
	}
	return n.set(Field{Key: key, Kind: FieldNode, Node: child})
}

func (n *Node) SetList(key string, list []*Node) *Node {
	if list == nil {
		list = []*Node{}
	}
	return n.set(Field{Key: key, Kind: FieldList, List: list})
}

func (n *Node) SetScalar(key string, v any) *Node {
	return n.set(Field{Key: key, Kind: FieldScalar, Scalar: v})
}

// Set dispatches on the dynamic type of v.
func (n *Node) Set(key string, v any) *Node {
	switch x := v.(type) {
	case *Node:
		return n.SetChild(key, x)
	case []*Node:
		return n.SetList(key, x)
	default:
		return n.SetScalar(key, v)
	}
}

// Children returns the child nodes in visitor-key order, skipping nil
// entries. Unknown node types fall back to field order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, key := range KeysOf(n) {
		f := n.field(key)
		if f == nil {
			continue
		}
		switch f.Kind {
		case FieldNode:
			out = append(out, f.Node)
		case FieldList:
			for _, c := range f.List {
				if c != nil {
					out = append(out, c)
				}
			}
		}
	}
	return out
}
