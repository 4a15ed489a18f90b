package scope

import "estscope/internal/estree"

// DefKind names the syntax that introduced a binding.
type DefKind uint8

const (
	DefVariable DefKind = iota + 1
	DefParameter
	DefFunctionName
	DefClassName
	DefCatchClause
	DefImportBinding
	DefType
	DefTypeParameter
	DefEnum
	DefComponentName
	DefHookName
	DefNamespaceName
	DefRecordName
	DefImplicitGlobalVariable
)

func (k DefKind) String() string {
	switch k {
	case DefVariable:
		return "Variable"
	case DefParameter:
		return "Parameter"
	case DefFunctionName:
		return "FunctionName"
	case DefClassName:
		return "ClassName"
	case DefCatchClause:
		return "CatchClause"
	case DefImportBinding:
		return "ImportBinding"
	case DefType:
		return "Type"
	case DefTypeParameter:
		return "TypeParameter"
	case DefEnum:
		return "Enum"
	case DefComponentName:
		return "ComponentName"
	case DefHookName:
		return "HookName"
	case DefNamespaceName:
		return "NamespaceName"
	case DefRecordName:
		return "RecordName"
	case DefImplicitGlobalVariable:
		return "ImplicitGlobalVariable"
	default:
		return "Invalid"
	}
}

// capability is the fixed value/type pair of kinds that do not depend on
// their syntax. Import bindings are computed in Import.
func (k DefKind) capability() (value, typ bool) {
	switch k {
	case DefClassName, DefEnum, DefNamespaceName, DefRecordName, DefImportBinding:
		return true, true
	case DefType, DefTypeParameter:
		return false, true
	default:
		return true, false
	}
}

// Definition is one declaration site of a variable.
type Definition struct {
	Kind DefKind
	// Name is the binding identifier, the TypeParameter node itself, or
	// for catch clauses the whole param pattern.
	Name *estree.Node
	// Node is the syntax the definition annotates: the declarator, the
	// function, the class, the import specifier, ...
	Node *estree.Node
	// Parent is the enclosing declaration, when there is one.
	Parent *estree.Node
	// Rest marks a parameter bound under a rest element.
	Rest bool
	// DeclKind is the declaration keyword of variable definitions: var,
	// let, const, or the keyword of a declare form.
	DeclKind string
	IsValue  bool
	IsType   bool
}

// NewDefinition builds a definition whose capability follows its kind.
func NewDefinition(kind DefKind, name, node, parent *estree.Node) Definition {
	value, typ := kind.capability()
	return Definition{Kind: kind, Name: name, Node: node, Parent: parent, IsValue: value, IsType: typ}
}

// VariableDef builds a var/let/const (or declare) definition.
func VariableDef(name, declarator, decl *estree.Node, keyword string) Definition {
	d := NewDefinition(DefVariable, name, declarator, decl)
	d.DeclKind = keyword
	return d
}

// Parameter builds a parameter definition of the function-like fn.
func Parameter(name, fn *estree.Node, rest bool) Definition {
	d := NewDefinition(DefParameter, name, fn, nil)
	d.Rest = rest
	return d
}

// Import builds an import binding. A `type` or `typeof` import kind on the
// specifier or on the declaration makes the binding type-only.
func Import(name, specifier, decl *estree.Node) Definition {
	d := NewDefinition(DefImportBinding, name, specifier, decl)
	if typeOnlyImport(specifier.Str("importKind")) || typeOnlyImport(decl.Str("importKind")) {
		d.IsValue = false
	}
	return d
}

func typeOnlyImport(kind string) bool {
	return kind == "type" || kind == "typeof"
}

// hoistsLikeVar reports whether a global definition stays dynamically
// resolved in script mode.
func (d *Definition) hoistsLikeVar() bool {
	return d.Kind == DefVariable && d.DeclKind == "var"
}
