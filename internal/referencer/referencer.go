// Package referencer drives a scope.Manager over an ESTree program: it
// opens and closes scopes, declares bindings and emits references in a
// single forward traversal.
package referencer

import (
	"errors"
	"fmt"
	"slices"

	"estscope/internal/estree"
	"estscope/internal/scope"
	"estscope/internal/trace"
)

var (
	// ErrImportOutsideModule is reported for an import declaration in a
	// script.
	ErrImportOutsideModule = errors.New("import declaration outside of a module")
	// ErrComponentSyntaxDisabled is reported for component or hook syntax
	// when EnableExperimentalComponentSyntax is off.
	ErrComponentSyntaxDisabled = errors.New("component syntax is not enabled")
	ErrNotProgram              = errors.New("root node is not a Program")
)

// DefaultJSXPragma is the factory referenced by JSX when neither the
// options nor the docblock name one.
const DefaultJSXPragma = "React"

// Options configures one analysis.
type Options struct {
	SourceType scope.SourceType
	// GlobalReturn wraps the program in a function scope, as CommonJS
	// loaders do.
	GlobalReturn  bool
	ImpliedStrict bool
	// ECMAVersion follows scope.Options: zero means latest.
	ECMAVersion int
	// JSXPragma names the JSX factory; empty means DefaultJSXPragma.
	JSXPragma        string
	DisableJSXPragma bool
	JSXFragmentName  string
	// FBT makes <fbt> and <fbs> reference the fbt import instead of the
	// JSX factory.
	FBT                               bool
	EnableExperimentalComponentSyntax bool
	Tracer                            trace.Tracer
}

// Analyze builds the scope tree of program.
func Analyze(program *estree.Node, opts Options) (*scope.Manager, error) {
	if !program.Is(estree.Program) {
		return nil, ErrNotProgram
	}
	if opts.SourceType == "" {
		if st, err := scope.ParseSourceType(program.Str("sourceType")); err == nil {
			opts.SourceType = st
		}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	n := uint(estree.Count(program)) // #nosec G115 -- node counts are non-negative
	m := scope.NewManager(scope.Options{
		SourceType:  opts.SourceType,
		ECMAVersion: opts.ECMAVersion,
		Tracer:      tracer,
		Hints:       scope.Hints{Scopes: n/8 + 1, Variables: n/4 + 1, References: n/2 + 1},
	})
	r := &referencer{opts: opts, m: m, tracer: tracer}
	r.jsxPragma, r.jsxFragment = r.pragmas(program)
	r.program(program)
	if r.err != nil {
		return nil, r.err
	}
	return m, nil
}

type referencer struct {
	opts   Options
	m      *scope.Manager
	tracer trace.Tracer
	err    error

	jsxPragma   string
	jsxFragment string
	// set once the factory binding has received its synthesized read
	pragmaReferenced   bool
	fragmentReferenced bool
}

// fail records the first contract error. The offending node is skipped.
func (r *referencer) fail(n *estree.Node, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s at %s: %w", n.Type, n.Span, err)
		trace.Point(r.tracer, trace.ScopeNode, "referencer.error", r.err.Error())
	}
}

func (r *referencer) current() *scope.Scope {
	return r.m.Scope(r.m.CurrentScope())
}

func (r *referencer) close(n *estree.Node) {
	r.m.Close(n)
}

func (r *referencer) program(n *estree.Node) {
	global := r.m.NestGlobalScope(n)
	if r.opts.GlobalReturn {
		r.m.SetStrict(global, false)
		r.m.NestFunctionScope(n, false)
	}
	if r.m.IsModule() && r.m.Options().BlockScoping() {
		r.m.NestModuleScope(n)
	}
	if r.opts.ImpliedStrict && r.m.Options().StrictModeSupported() {
		r.m.SetStrict(r.m.CurrentScope(), true)
	}
	r.visitChildren(n)
	r.close(n)
}

func (r *referencer) visitAll(list []*estree.Node) {
	for _, n := range list {
		r.visit(n)
	}
}

// visitChildren visits every child of n in visitor-key order.
func (r *referencer) visitChildren(n *estree.Node, skip ...string) {
	for _, key := range estree.KeysOf(n) {
		if slices.Contains(skip, key) {
			continue
		}
		r.visitField(n, key)
	}
}

func (r *referencer) visitField(n *estree.Node, key string) {
	if child := n.Child(key); child != nil {
		r.visit(child)
		return
	}
	r.visitAll(n.List(key))
}

// visit dispatches on the node type.
func (r *referencer) visit(n *estree.Node) {
	if n == nil || r.err != nil {
		return
	}
	switch n.Type {
	case estree.Identifier:
		r.m.ReferenceValue(n, scope.RefSpec{})
		r.visitType(n.Child("typeAnnotation"))

	case estree.FunctionDeclaration, estree.FunctionExpression, estree.ArrowFunction:
		r.visitFunction(n, false)
	case estree.ClassDeclaration, estree.ClassExpression:
		r.visitClass(n)

	case estree.BlockStatement:
		r.blockStatement(n)
	case estree.VariableDeclaration:
		r.variableDeclaration(n)
	case estree.ForStatement:
		r.forStatement(n)
	case estree.ForInStatement, estree.ForOfStatement:
		r.forInStatement(n)
	case estree.CatchClause:
		r.catchClause(n)
	case estree.SwitchStatement:
		r.switchStatement(n)
	case estree.WithStatement:
		r.withStatement(n)
	case estree.LabeledStatement:
		r.visit(n.Child("body"))
	case estree.BreakStatement, estree.ContinueStatement:
		// labels are not references

	case estree.AssignmentExpression:
		r.assignmentExpression(n)
	case estree.UpdateExpression:
		r.updateExpression(n)
	case estree.MemberExpression, estree.OptionalMemberExpression:
		r.visit(n.Child("object"))
		if n.Bool("computed") {
			r.visit(n.Child("property"))
		}
	case estree.Property:
		if n.Bool("computed") {
			r.visit(n.Child("key"))
		}
		r.visit(n.Child("value"))
	case estree.MethodDefinition:
		r.methodDefinition(n)
	case estree.CallExpression, estree.NewExpression, estree.OptionalCallExpression:
		r.visitChildren(n, "typeArguments", "typeParameters")
		r.visitType(n.Child("typeArguments"))
		r.visitType(n.Child("typeParameters"))
	case estree.TaggedTemplateExpression:
		r.visit(n.Child("tag"))
		r.visit(n.Child("quasi"))
		r.visitType(n.Child("typeArguments"))
	case estree.TypeCastExpression, estree.AsExpression, estree.AsConstExpression:
		r.visit(n.Child("expression"))
		r.visitType(n.Child("typeAnnotation"))
	case estree.ThisExpression, estree.Super, estree.MetaProperty, estree.PrivateIdentifier,
		estree.Literal, estree.TemplateElement, estree.EmptyStatement:
		// nothing to bind or reference

	case estree.ImportDeclaration:
		r.importDeclaration(n)
	case estree.ImportAttribute:
		// module metadata
	case estree.ExportNamedDeclaration:
		r.exportNamed(n)
	case estree.ExportDefaultDeclaration:
		r.exportDefault(n)
	case estree.ExportAllDeclaration:
		// defines and references nothing locally

	case estree.JSXElement:
		r.visit(n.Child("openingElement"))
		r.visitAll(n.List("children"))
	case estree.JSXOpeningElement:
		r.jsxOpeningElement(n)
	case estree.JSXFragment:
		r.jsxFragmentNode(n)
	case estree.JSXAttribute:
		r.visit(n.Child("value"))
	case estree.JSXIdentifier:
		r.m.ReferenceValue(n, scope.RefSpec{})
	case estree.JSXMemberExpression:
		r.visit(n.Child("object"))
	case estree.JSXClosingElement, estree.JSXOpeningFragment, estree.JSXClosingFragment,
		estree.JSXText, estree.JSXEmptyExpression:
		// not references

	case estree.EnumDeclaration, estree.DeclareEnum:
		r.m.DefineCurrent(n.Child("id"), scope.NewDefinition(scope.DefEnum, n.Child("id"), n, nil))
	case estree.ComponentDeclaration:
		r.componentDeclaration(n)
	case estree.HookDeclaration:
		r.hookDeclaration(n)
	case estree.DeclareComponent, estree.DeclareHook:
		if !r.componentSyntax(n) {
			return
		}
		r.visitType(n)
	case estree.DeclareNamespace:
		r.declareNamespace(n)
	case estree.RecordDeclaration:
		r.recordDeclaration(n)
	case estree.RecordExpression:
		r.visit(n.Child("recordConstructor"))
		r.visitType(n.Child("typeArguments"))
		r.visitField(n, "properties")
	case estree.MatchExpression, estree.MatchStatement:
		r.matchNode(n)

	default:
		if isTypeNode(n) {
			r.visitType(n)
			return
		}
		r.visitChildren(n)
	}
}

func (r *referencer) blockStatement(n *estree.Node) {
	if r.m.Options().BlockScoping() {
		r.m.NestBlockScope(n)
	}
	r.visitChildren(n)
	r.close(n)
}

func (r *referencer) forStatement(n *estree.Node) {
	if init := n.Child("init"); init.Is(estree.VariableDeclaration) && init.Str("kind") != "var" {
		r.m.NestForScope(n)
	}
	r.visitChildren(n)
	r.close(n)
}

func (r *referencer) forInStatement(n *estree.Node) {
	left := n.Child("left")
	if left.Is(estree.VariableDeclaration) {
		if left.Str("kind") != "var" {
			r.m.NestForScope(n)
		}
		r.visit(left)
		if decls := left.List("declarations"); len(decls) > 0 {
			r.visitPattern(decls[0].Child("id"), false, func(id *estree.Node, _ patternInfo) {
				r.m.ReferenceValue(id, scope.RefSpec{Flag: scope.Write, WriteExpr: n.Child("right"), Init: true})
			})
		}
	} else {
		r.visitPattern(left, true, func(id *estree.Node, info patternInfo) {
			hint := r.implicitGlobalHint(id, n)
			r.referenceDefaults(id, info.assignments, hint, false)
			r.m.ReferenceValue(id, scope.RefSpec{Flag: scope.Write, WriteExpr: n.Child("right"), ImplicitGlobal: hint})
		})
	}
	r.visit(n.Child("right"))
	r.visit(n.Child("body"))
	r.close(n)
}

func (r *referencer) catchClause(n *estree.Node) {
	r.m.NestCatchScope(n)
	if param := n.Child("param"); param != nil {
		r.visitPattern(param, true, func(id *estree.Node, info patternInfo) {
			r.m.DefineCurrent(id, scope.NewDefinition(scope.DefCatchClause, param, n, nil))
			r.referenceDefaults(id, info.assignments, nil, true)
		})
	}
	r.visit(n.Child("body"))
	r.close(n)
}

func (r *referencer) switchStatement(n *estree.Node) {
	r.visit(n.Child("discriminant"))
	if r.m.Options().BlockScoping() {
		r.m.NestSwitchScope(n)
	}
	r.visitAll(n.List("cases"))
	r.close(n)
}

func (r *referencer) withStatement(n *estree.Node) {
	r.visit(n.Child("object"))
	r.m.NestWithScope(n)
	r.visit(n.Child("body"))
	r.close(n)
}

// variableDeclaration defines every declarator binding. `var` bindings go
// to the enclosing variable scope.
func (r *referencer) variableDeclaration(n *estree.Node) {
	kind := n.Str("kind")
	target := r.m.CurrentScope()
	if kind == "var" {
		target = r.current().VariableScope
	}
	for _, decl := range n.List("declarations") {
		init := decl.Child("init")
		r.visitPattern(decl.Child("id"), true, func(id *estree.Node, info patternInfo) {
			r.m.Define(target, id, scope.VariableDef(id, decl, n, kind))
			r.referenceDefaults(id, info.assignments, nil, true)
			if init != nil {
				r.m.ReferenceValue(id, scope.RefSpec{Flag: scope.Write, WriteExpr: init, Init: true})
			}
		})
		r.visit(init)
	}
}

func (r *referencer) assignmentExpression(n *estree.Node) {
	left := n.Child("left")
	right := n.Child("right")
	switch {
	case isPattern(left) && n.Str("operator") == "=":
		r.visitPattern(left, true, func(id *estree.Node, info patternInfo) {
			hint := r.implicitGlobalHint(id, n)
			r.referenceDefaults(id, info.assignments, hint, false)
			r.m.ReferenceValue(id, scope.RefSpec{Flag: scope.Write, WriteExpr: right, ImplicitGlobal: hint})
		})
	case left.Is(estree.Identifier):
		r.m.ReferenceValue(left, scope.RefSpec{Flag: scope.ReadWrite, WriteExpr: right})
	case isPattern(left):
		// compound assignment to a destructuring target is a syntax error
	default:
		r.visit(left)
	}
	r.visit(right)
}

func (r *referencer) updateExpression(n *estree.Node) {
	arg := n.Child("argument")
	if !isPattern(arg) {
		r.visitChildren(n)
		return
	}
	r.visitPattern(arg, false, func(id *estree.Node, _ patternInfo) {
		r.m.ReferenceValue(id, scope.RefSpec{Flag: scope.ReadWrite})
	})
}

// implicitGlobalHint is set for sloppy-mode writes only.
func (r *referencer) implicitGlobalHint(id, node *estree.Node) *scope.ImplicitGlobal {
	if r.current().Strict {
		return nil
	}
	return &scope.ImplicitGlobal{Pattern: id, Node: node}
}

// referenceDefaults emits one write per enclosing default value.
func (r *referencer) referenceDefaults(id *estree.Node, assignments []*estree.Node, hint *scope.ImplicitGlobal, init bool) {
	for _, a := range assignments {
		r.m.ReferenceValue(id, scope.RefSpec{Flag: scope.Write, WriteExpr: a.Child("right"), ImplicitGlobal: hint, Init: init})
	}
}
