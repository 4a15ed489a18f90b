package scope

import (
	"estscope/internal/estree"
	"estscope/internal/source"
)

// Flag is the access mode of a reference.
type Flag uint8

const (
	Read      Flag = 1 << iota // value is read
	Write                      // value is written
	ReadWrite = Read | Write
)

func (f Flag) String() string {
	switch f {
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "rw"
	default:
		return "none"
	}
}

// Namespace is the binding namespace a reference resolves in.
type Namespace uint8

const (
	NamespaceValue Namespace = 1 << iota
	NamespaceType
	NamespaceDual = NamespaceValue | NamespaceType
)

func (n Namespace) String() string {
	switch n {
	case NamespaceValue:
		return "value"
	case NamespaceType:
		return "type"
	case NamespaceDual:
		return "dual"
	default:
		return "none"
	}
}

// ImplicitGlobal records where an undeclared assignment would create a
// global in sloppy mode.
type ImplicitGlobal struct {
	Pattern *estree.Node
	Node    *estree.Node
}

// Reference is one identifier occurrence.
type Reference struct {
	Identifier     *estree.Node
	Name           source.StringID
	From           ScopeID
	Flag           Flag
	Namespace      Namespace
	WriteExpr      *estree.Node
	Resolved       VariableID
	Init           bool
	Tainted        bool // passed through a with scope
	ImplicitGlobal *ImplicitGlobal
}

func (r *Reference) IsRead() bool      { return r.Flag&Read != 0 }
func (r *Reference) IsWrite() bool     { return r.Flag&Write != 0 }
func (r *Reference) IsReadOnly() bool  { return r.Flag == Read }
func (r *Reference) IsWriteOnly() bool { return r.Flag == Write }
func (r *Reference) IsReadWrite() bool { return r.Flag == ReadWrite }

func (r *Reference) IsValueReference() bool { return r.Namespace&NamespaceValue != 0 }
func (r *Reference) IsTypeReference() bool  { return r.Namespace&NamespaceType != 0 }

// compatible applies the namespace check against a candidate variable.
func (r *Reference) compatible(v *Variable) bool {
	if r.Namespace == NamespaceDual {
		return true
	}
	return (r.IsValueReference() && v.IsValueVariable()) || (r.IsTypeReference() && v.IsTypeVariable())
}

// RefSpec carries the optional attributes of a value reference.
type RefSpec struct {
	Flag           Flag // zero means Read
	WriteExpr      *estree.Node
	ImplicitGlobal *ImplicitGlobal
	Init           bool
}
