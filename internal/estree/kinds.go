package estree

// Node type tags handled explicitly by the analyzer. Anything else is
// traversed generically through KeysOf.
const (
	Program = "Program"

	Identifier        = "Identifier"
	PrivateIdentifier = "PrivateIdentifier"
	Literal           = "Literal"
	ThisExpression    = "ThisExpression"
	Super             = "Super"
	MetaProperty      = "MetaProperty"

	ExpressionStatement = "ExpressionStatement"
	BlockStatement      = "BlockStatement"
	StaticBlock         = "StaticBlock"
	EmptyStatement      = "EmptyStatement"
	LabeledStatement    = "LabeledStatement"
	BreakStatement      = "BreakStatement"
	ContinueStatement   = "ContinueStatement"
	WithStatement       = "WithStatement"
	SwitchStatement     = "SwitchStatement"
	SwitchCase          = "SwitchCase"
	ReturnStatement     = "ReturnStatement"
	ThrowStatement      = "ThrowStatement"
	TryStatement        = "TryStatement"
	CatchClause         = "CatchClause"
	IfStatement         = "IfStatement"
	WhileStatement      = "WhileStatement"
	DoWhileStatement    = "DoWhileStatement"
	ForStatement        = "ForStatement"
	ForInStatement      = "ForInStatement"
	ForOfStatement      = "ForOfStatement"

	VariableDeclaration = "VariableDeclaration"
	VariableDeclarator  = "VariableDeclarator"
	FunctionDeclaration = "FunctionDeclaration"
	FunctionExpression  = "FunctionExpression"
	ArrowFunction       = "ArrowFunctionExpression"
	ClassDeclaration    = "ClassDeclaration"
	ClassExpression     = "ClassExpression"
	ClassBody           = "ClassBody"
	MethodDefinition    = "MethodDefinition"
	PropertyDefinition  = "PropertyDefinition"
	ClassProperty       = "ClassProperty"
	ClassPrivateProp    = "ClassPrivateProperty"

	ArrayExpression          = "ArrayExpression"
	ObjectExpression         = "ObjectExpression"
	Property                 = "Property"
	SequenceExpression       = "SequenceExpression"
	UnaryExpression          = "UnaryExpression"
	BinaryExpression         = "BinaryExpression"
	LogicalExpression        = "LogicalExpression"
	AssignmentExpression     = "AssignmentExpression"
	UpdateExpression         = "UpdateExpression"
	ConditionalExpression    = "ConditionalExpression"
	CallExpression           = "CallExpression"
	OptionalCallExpression   = "OptionalCallExpression"
	NewExpression            = "NewExpression"
	MemberExpression         = "MemberExpression"
	OptionalMemberExpression = "OptionalMemberExpression"
	ChainExpression          = "ChainExpression"
	TaggedTemplateExpression = "TaggedTemplateExpression"
	TemplateLiteral          = "TemplateLiteral"
	TemplateElement          = "TemplateElement"
	SpreadElement            = "SpreadElement"
	YieldExpression          = "YieldExpression"
	AwaitExpression          = "AwaitExpression"
	ImportExpression         = "ImportExpression"

	ObjectPattern     = "ObjectPattern"
	ArrayPattern      = "ArrayPattern"
	RestElement       = "RestElement"
	AssignmentPattern = "AssignmentPattern"

	ImportDeclaration        = "ImportDeclaration"
	ImportSpecifier          = "ImportSpecifier"
	ImportDefaultSpecifier   = "ImportDefaultSpecifier"
	ImportNamespaceSpecifier = "ImportNamespaceSpecifier"
	ImportAttribute          = "ImportAttribute"
	ExportNamedDeclaration   = "ExportNamedDeclaration"
	ExportDefaultDeclaration = "ExportDefaultDeclaration"
	ExportAllDeclaration     = "ExportAllDeclaration"
	ExportSpecifier          = "ExportSpecifier"

	JSXElement             = "JSXElement"
	JSXFragment            = "JSXFragment"
	JSXOpeningElement      = "JSXOpeningElement"
	JSXClosingElement      = "JSXClosingElement"
	JSXOpeningFragment     = "JSXOpeningFragment"
	JSXClosingFragment     = "JSXClosingFragment"
	JSXIdentifier          = "JSXIdentifier"
	JSXMemberExpression    = "JSXMemberExpression"
	JSXNamespacedName      = "JSXNamespacedName"
	JSXAttribute           = "JSXAttribute"
	JSXSpreadAttribute     = "JSXSpreadAttribute"
	JSXExpressionContainer = "JSXExpressionContainer"
	JSXEmptyExpression     = "JSXEmptyExpression"
	JSXText                = "JSXText"

	// Flow expressions and declarations.
	TypeCastExpression   = "TypeCastExpression"
	AsExpression         = "AsExpression"
	AsConstExpression    = "AsConstExpression"
	EnumDeclaration      = "EnumDeclaration"
	ComponentDeclaration = "ComponentDeclaration"
	ComponentParameter   = "ComponentParameter"
	HookDeclaration      = "HookDeclaration"
	RecordDeclaration    = "RecordDeclaration"
	RecordProperty       = "RecordDeclarationProperty"
	RecordStaticProperty = "RecordDeclarationStaticProperty"
	RecordExpression     = "RecordExpression"
	MatchExpression      = "MatchExpression"
	MatchStatement       = "MatchStatement"
	MatchExpressionCase  = "MatchExpressionCase"
	MatchStatementCase   = "MatchStatementCase"

	MatchWildcardPattern   = "MatchWildcardPattern"
	MatchLiteralPattern    = "MatchLiteralPattern"
	MatchUnaryPattern      = "MatchUnaryPattern"
	MatchIdentifierPattern = "MatchIdentifierPattern"
	MatchMemberPattern     = "MatchMemberPattern"
	MatchBindingPattern    = "MatchBindingPattern"
	MatchAsPattern         = "MatchAsPattern"
	MatchOrPattern         = "MatchOrPattern"
	MatchObjectPattern     = "MatchObjectPattern"
	MatchObjectProperty    = "MatchObjectPatternProperty"
	MatchArrayPattern      = "MatchArrayPattern"
	MatchRestPattern       = "MatchRestPattern"

	// Flow type syntax.
	TypeAnnotation              = "TypeAnnotation"
	TypeAlias                   = "TypeAlias"
	OpaqueType                  = "OpaqueType"
	InterfaceDeclaration        = "InterfaceDeclaration"
	InterfaceExtends            = "InterfaceExtends"
	InterfaceTypeAnnotation     = "InterfaceTypeAnnotation"
	DeclareTypeAlias            = "DeclareTypeAlias"
	DeclareOpaqueType           = "DeclareOpaqueType"
	DeclareInterface            = "DeclareInterface"
	DeclareClass                = "DeclareClass"
	DeclareFunction             = "DeclareFunction"
	DeclareVariable             = "DeclareVariable"
	DeclareEnum                 = "DeclareEnum"
	DeclareModule               = "DeclareModule"
	DeclareModuleExports        = "DeclareModuleExports"
	DeclareNamespace            = "DeclareNamespace"
	DeclareComponent            = "DeclareComponent"
	DeclareHook                 = "DeclareHook"
	DeclareExportDeclaration    = "DeclareExportDeclaration"
	DeclareExportAllDeclaration = "DeclareExportAllDeclaration"
	TypeParameterDeclaration    = "TypeParameterDeclaration"
	TypeParameterInstantiation  = "TypeParameterInstantiation"
	TypeParameter               = "TypeParameter"
	GenericTypeAnnotation       = "GenericTypeAnnotation"
	QualifiedTypeIdentifier     = "QualifiedTypeIdentifier"
	QualifiedTypeofIdentifier   = "QualifiedTypeofIdentifier"
	TypeofTypeAnnotation        = "TypeofTypeAnnotation"
	ObjectTypeAnnotation        = "ObjectTypeAnnotation"
	ObjectTypeProperty          = "ObjectTypeProperty"
	ObjectTypeIndexer           = "ObjectTypeIndexer"
	ObjectTypeInternalSlot      = "ObjectTypeInternalSlot"
	ObjectTypeCallProperty      = "ObjectTypeCallProperty"
	ObjectTypeSpreadProperty    = "ObjectTypeSpreadProperty"
	ObjectTypeMappedTypeProp    = "ObjectTypeMappedTypeProperty"
	FunctionTypeAnnotation      = "FunctionTypeAnnotation"
	FunctionTypeParam           = "FunctionTypeParam"
	HookTypeAnnotation          = "HookTypeAnnotation"
	ComponentTypeAnnotation     = "ComponentTypeAnnotation"
	ComponentTypeParameter      = "ComponentTypeParameter"
	ConditionalTypeAnnotation   = "ConditionalTypeAnnotation"
	InferTypeAnnotation         = "InferTypeAnnotation"
	TupleTypeLabeledElement     = "TupleTypeLabeledElement"
	TupleTypeSpreadElement      = "TupleTypeSpreadElement"
	TypePredicate               = "TypePredicate"
	DeclaredPredicate           = "DeclaredPredicate"
	InferredPredicate           = "InferredPredicate"
)

// IsFunction reports whether n introduces a function scope.
func IsFunction(n *Node) bool {
	return n.Is(FunctionDeclaration, FunctionExpression, ArrowFunction)
}

// IsStringLiteral reports whether n is a Literal holding a string.
func IsStringLiteral(n *Node) bool {
	if !n.Is(Literal) {
		return false
	}
	_, ok := n.Scalar("value").(string)
	return ok
}
