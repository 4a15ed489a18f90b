package estree

// visitorKeys lists child-bearing properties in source order per node type.
var visitorKeys = map[string][]string{
	Program:             {"body"},
	ExpressionStatement: {"expression"},
	BlockStatement:      {"body"},
	StaticBlock:         {"body"},
	LabeledStatement:    {"label", "body"},
	BreakStatement:      {"label"},
	ContinueStatement:   {"label"},
	WithStatement:       {"object", "body"},
	SwitchStatement:     {"discriminant", "cases"},
	SwitchCase:          {"test", "consequent"},
	ReturnStatement:     {"argument"},
	ThrowStatement:      {"argument"},
	TryStatement:        {"block", "handler", "finalizer"},
	CatchClause:         {"param", "body"},
	IfStatement:         {"test", "consequent", "alternate"},
	WhileStatement:      {"test", "body"},
	DoWhileStatement:    {"body", "test"},
	ForStatement:        {"init", "test", "update", "body"},
	ForInStatement:      {"left", "right", "body"},
	ForOfStatement:      {"left", "right", "body"},
	"DebuggerStatement": {},
	EmptyStatement:      {},

	VariableDeclaration: {"declarations"},
	VariableDeclarator:  {"id", "init"},
	FunctionDeclaration: {"id", "typeParameters", "params", "returnType", "predicate", "body"},
	FunctionExpression:  {"id", "typeParameters", "params", "returnType", "predicate", "body"},
	ArrowFunction:       {"typeParameters", "params", "returnType", "predicate", "body"},
	ClassDeclaration:    {"decorators", "id", "typeParameters", "superClass", "superTypeParameters", "implements", "body"},
	ClassExpression:     {"decorators", "id", "typeParameters", "superClass", "superTypeParameters", "implements", "body"},
	ClassBody:           {"body"},
	MethodDefinition:    {"decorators", "key", "value"},
	PropertyDefinition:  {"decorators", "key", "value", "variance", "typeAnnotation"},
	ClassProperty:       {"decorators", "key", "value", "variance", "typeAnnotation"},
	ClassPrivateProp:    {"decorators", "key", "value", "variance", "typeAnnotation"},
	"Decorator":         {"expression"},
	"ClassImplements":   {"id", "typeParameters"},

	Identifier:               {"typeAnnotation"},
	PrivateIdentifier:        {},
	Literal:                  {},
	ThisExpression:           {},
	Super:                    {},
	MetaProperty:             {"meta", "property"},
	ArrayExpression:          {"elements"},
	ObjectExpression:         {"properties"},
	Property:                 {"key", "value"},
	SequenceExpression:       {"expressions"},
	UnaryExpression:          {"argument"},
	BinaryExpression:         {"left", "right"},
	LogicalExpression:        {"left", "right"},
	AssignmentExpression:     {"left", "right"},
	UpdateExpression:         {"argument"},
	ConditionalExpression:    {"test", "consequent", "alternate"},
	CallExpression:           {"callee", "typeArguments", "arguments"},
	OptionalCallExpression:   {"callee", "typeArguments", "arguments"},
	NewExpression:            {"callee", "typeArguments", "arguments"},
	MemberExpression:         {"object", "property"},
	OptionalMemberExpression: {"object", "property"},
	ChainExpression:          {"expression"},
	TaggedTemplateExpression: {"tag", "typeArguments", "quasi"},
	TemplateLiteral:          {"quasis", "expressions"},
	TemplateElement:          {},
	SpreadElement:            {"argument"},
	YieldExpression:          {"argument"},
	AwaitExpression:          {"argument"},
	ImportExpression:         {"source", "options"},

	ObjectPattern:     {"properties", "typeAnnotation"},
	ArrayPattern:      {"elements", "typeAnnotation"},
	RestElement:       {"argument", "typeAnnotation"},
	AssignmentPattern: {"left", "right"},

	ImportDeclaration:        {"specifiers", "source", "assertions"},
	ImportSpecifier:          {"imported", "local"},
	ImportDefaultSpecifier:   {"local"},
	ImportNamespaceSpecifier: {"local"},
	ImportAttribute:          {"key", "value"},
	ExportNamedDeclaration:   {"declaration", "specifiers", "source"},
	ExportDefaultDeclaration: {"declaration"},
	ExportAllDeclaration:     {"exported", "source"},
	ExportSpecifier:          {"local", "exported"},

	JSXElement:             {"openingElement", "children", "closingElement"},
	JSXFragment:            {"openingFragment", "children", "closingFragment"},
	JSXOpeningElement:      {"name", "typeArguments", "attributes"},
	JSXClosingElement:      {"name"},
	JSXOpeningFragment:     {},
	JSXClosingFragment:     {},
	JSXIdentifier:          {},
	JSXMemberExpression:    {"object", "property"},
	JSXNamespacedName:      {"namespace", "name"},
	JSXAttribute:           {"name", "value"},
	JSXSpreadAttribute:     {"argument"},
	JSXExpressionContainer: {"expression"},
	JSXEmptyExpression:     {},
	JSXText:                {},
	"JSXSpreadChild":       {"expression"},

	TypeCastExpression:           {"expression", "typeAnnotation"},
	AsExpression:                 {"expression", "typeAnnotation"},
	AsConstExpression:            {"expression"},
	EnumDeclaration:              {"id", "body"},
	ComponentDeclaration:         {"id", "typeParameters", "params", "rendersType", "body"},
	ComponentParameter:           {"name", "local"},
	HookDeclaration:              {"id", "typeParameters", "params", "returnType", "body"},
	RecordDeclaration:            {"id", "typeParameters", "implements", "body"},
	"RecordDeclarationBody":      {"elements"},
	RecordProperty:               {"key", "typeAnnotation", "defaultValue"},
	RecordStaticProperty:         {"key", "typeAnnotation", "value"},
	RecordExpression:             {"recordConstructor", "typeArguments", "properties"},
	"RecordExpressionProperties": {"properties"},
	MatchExpression:              {"argument", "cases"},
	MatchStatement:               {"argument", "cases"},
	MatchExpressionCase:          {"pattern", "guard", "body"},
	MatchStatementCase:           {"pattern", "guard", "body"},

	MatchWildcardPattern:   {},
	MatchLiteralPattern:    {"literal"},
	MatchUnaryPattern:      {"argument"},
	MatchIdentifierPattern: {"id"},
	MatchMemberPattern:     {"base", "property"},
	MatchBindingPattern:    {"id"},
	MatchAsPattern:         {"pattern", "target"},
	MatchOrPattern:         {"patterns"},
	MatchObjectPattern:     {"properties", "rest"},
	MatchObjectProperty:    {"key", "pattern"},
	MatchArrayPattern:      {"elements", "rest"},
	MatchRestPattern:       {"argument"},

	TypeAnnotation:               {"typeAnnotation"},
	TypeAlias:                    {"id", "typeParameters", "right"},
	OpaqueType:                   {"id", "typeParameters", "impltype", "lowerBound", "upperBound", "supertype"},
	InterfaceDeclaration:         {"id", "typeParameters", "extends", "body"},
	InterfaceExtends:             {"id", "typeParameters"},
	InterfaceTypeAnnotation:      {"extends", "body"},
	DeclareTypeAlias:             {"id", "typeParameters", "right"},
	DeclareOpaqueType:            {"id", "typeParameters", "impltype", "lowerBound", "upperBound", "supertype"},
	DeclareInterface:             {"id", "typeParameters", "extends", "body"},
	DeclareClass:                 {"id", "typeParameters", "extends", "implements", "mixins", "body"},
	DeclareFunction:              {"id", "predicate"},
	DeclareVariable:              {"id"},
	DeclareEnum:                  {"id", "body"},
	DeclareModule:                {"id", "body"},
	DeclareModuleExports:         {"typeAnnotation"},
	DeclareNamespace:             {"id", "body"},
	DeclareComponent:             {"id", "typeParameters", "params", "rest", "rendersType"},
	DeclareHook:                  {"id"},
	DeclareExportDeclaration:     {"declaration", "specifiers", "source"},
	DeclareExportAllDeclaration:  {"source"},
	TypeParameterDeclaration:     {"params"},
	TypeParameterInstantiation:   {"params"},
	TypeParameter:                {"bound", "variance", "default"},
	GenericTypeAnnotation:        {"id", "typeParameters"},
	QualifiedTypeIdentifier:      {"qualification", "id"},
	QualifiedTypeofIdentifier:    {"qualification", "id"},
	TypeofTypeAnnotation:         {"argument", "typeArguments"},
	ObjectTypeAnnotation:         {"properties", "indexers", "callProperties", "internalSlots"},
	ObjectTypeProperty:           {"key", "value", "variance"},
	ObjectTypeIndexer:            {"id", "key", "value", "variance"},
	ObjectTypeInternalSlot:       {"id", "value"},
	ObjectTypeCallProperty:       {"value"},
	ObjectTypeSpreadProperty:     {"argument"},
	ObjectTypeMappedTypeProp:     {"keyTparam", "propType", "sourceType", "variance"},
	FunctionTypeAnnotation:       {"typeParameters", "this", "params", "rest", "returnType"},
	FunctionTypeParam:            {"name", "typeAnnotation"},
	HookTypeAnnotation:           {"typeParameters", "params", "rest", "returnType"},
	ComponentTypeAnnotation:      {"typeParameters", "params", "rest", "rendersType"},
	ComponentTypeParameter:       {"name", "typeAnnotation"},
	ConditionalTypeAnnotation:    {"checkType", "extendsType", "trueType", "falseType"},
	InferTypeAnnotation:          {"typeParameter"},
	TupleTypeLabeledElement:      {"label", "elementType", "variance"},
	TupleTypeSpreadElement:       {"label", "typeAnnotation"},
	TypePredicate:                {"parameterName", "typeAnnotation"},
	DeclaredPredicate:            {"value"},
	InferredPredicate:            {},
	"ArrayTypeAnnotation":        {"elementType"},
	"NullableTypeAnnotation":     {"typeAnnotation"},
	"UnionTypeAnnotation":        {"types"},
	"IntersectionTypeAnnotation": {"types"},
	"TupleTypeAnnotation":        {"types", "elementTypes"},
	"IndexedAccessType":          {"objectType", "indexType"},
	"OptionalIndexedAccessType":  {"objectType", "indexType"},
	"KeyofTypeAnnotation":        {"argument"},
	"TypeOperator":               {"typeAnnotation"},
	"Variance":                   {},
	"EnumBooleanBody":            {"members"},
	"EnumNumberBody":             {"members"},
	"EnumStringBody":             {"members"},
	"EnumSymbolBody":             {"members"},
	"EnumBigIntBody":             {"members"},
}

// nonChildKeys are bookkeeping properties some producers attach to nodes.
var nonChildKeys = map[string]bool{
	"type":             true,
	"range":            true,
	"loc":              true,
	"start":            true,
	"end":              true,
	"parent":           true,
	"comments":         true,
	"tokens":           true,
	"docblock":         true,
	"leadingComments":  true,
	"trailingComments": true,
	"innerComments":    true,
}

// KeysOf returns the traversal keys for n. Unknown types fall back to the
// node's own field order.
func KeysOf(n *Node) []string {
	if n == nil {
		return nil
	}
	if keys, ok := visitorKeys[n.Type]; ok {
		return keys
	}
	var keys []string
	for _, f := range n.fields {
		if nonChildKeys[f.Key] || f.Kind == FieldScalar {
			continue
		}
		keys = append(keys, f.Key)
	}
	return keys
}

// KnownType reports whether the visitor-key table covers typ.
func KnownType(typ string) bool {
	_, ok := visitorKeys[typ]
	return ok
}
