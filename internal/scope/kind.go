package scope

// Kind tags a scope. The set is closed; close-time behaviour switches on it.
type Kind uint8

const (
	KindGlobal Kind = iota + 1
	KindModule
	KindFunction
	KindBlock
	KindCatch
	KindSwitch
	KindFor
	KindClass
	KindClassFieldInitializer
	KindClassStaticBlock
	KindFunctionExpressionName
	KindWith
	KindType
	KindDeclareModule
	KindDeclareNamespace
	KindComponent
	KindHook
	KindMatchCase
)

func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindModule:
		return "module"
	case KindFunction:
		return "function"
	case KindBlock:
		return "block"
	case KindCatch:
		return "catch"
	case KindSwitch:
		return "switch"
	case KindFor:
		return "for"
	case KindClass:
		return "class"
	case KindClassFieldInitializer:
		return "class-field-initializer"
	case KindClassStaticBlock:
		return "class-static-block"
	case KindFunctionExpressionName:
		return "function-expression-name"
	case KindWith:
		return "with"
	case KindType:
		return "type"
	case KindDeclareModule:
		return "declare-module"
	case KindDeclareNamespace:
		return "declare-namespace"
	case KindComponent:
		return "component"
	case KindHook:
		return "hook"
	case KindMatchCase:
		return "match-case"
	default:
		return "invalid"
	}
}

// ownsVariables reports whether the kind is its own variable scope, the
// target of hoisted `var` declarations.
func (k Kind) ownsVariables() bool {
	switch k {
	case KindGlobal, KindModule, KindFunction, KindClassFieldInitializer,
		KindClassStaticBlock, KindDeclareModule, KindDeclareNamespace:
		return true
	}
	return false
}

// functionLike kinds reject parameter-list references to body-only names.
func (k Kind) functionLike() bool {
	return k == KindFunction || k == KindHook || k == KindComponent
}

// dynamic kinds cannot guarantee static resolution.
func (k Kind) dynamic() bool {
	return k == KindGlobal || k == KindWith
}
