package scope

import "estscope/internal/estree"

// isStrictScope decides strictness when a scope opens. Strictness is
// inherited from the parent, implied by methods, classes and modules, or
// switched on by a leading "use strict" directive.
func (m *Manager) isStrictScope(kind Kind, block *estree.Node, upper *Scope, isMethod bool) bool {
	if !m.opts.StrictModeSupported() {
		return false
	}
	if upper != nil && upper.Strict {
		return true
	}
	if isMethod || kind == KindClass || kind == KindModule {
		return true
	}

	var body []*estree.Node
	switch {
	case kind.functionLike():
		if block.Is(estree.ArrowFunction) && !block.Child("body").Is(estree.BlockStatement) {
			return false
		}
		if block.Is(estree.Program) {
			body = block.List("body")
		} else {
			body = block.Child("body").List("body")
		}
	case kind == KindGlobal:
		body = block.List("body")
	default:
		return false
	}
	return hasUseStrict(body)
}

// hasUseStrict scans the directive prologue.
func hasUseStrict(body []*estree.Node) bool {
	for _, stmt := range body {
		if !stmt.Is(estree.ExpressionStatement) {
			return false
		}
		expr := stmt.Child("expression")
		if !estree.IsStringLiteral(expr) {
			return false
		}
		if raw := expr.Str("raw"); raw != "" {
			if raw == `"use strict"` || raw == `'use strict'` {
				return true
			}
			continue
		}
		if expr.Str("value") == "use strict" {
			return true
		}
	}
	return false
}
