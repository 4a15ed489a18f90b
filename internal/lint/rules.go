// Package lint runs scope-based checks over a finished scope.Manager and
// reports them as diag diagnostics.
package lint

import (
	"fmt"
	"slices"
	"strings"
)

// Rule names one check.
type Rule string

const (
	NoUndef      Rule = "no-undef"
	NoUnusedVars Rule = "no-unused-vars"
	NoTypeAsVal  Rule = "no-type-as-value"
)

// AllRules lists every rule in reporting order.
var AllRules = []Rule{NoUndef, NoUnusedVars, NoTypeAsVal}

// RuleSet is the set of enabled rules.
type RuleSet map[Rule]bool

// ParseRules validates rule names. An empty list enables every rule.
func ParseRules(names []string) (RuleSet, error) {
	set := make(RuleSet, len(AllRules))
	if len(names) == 0 {
		for _, r := range AllRules {
			set[r] = true
		}
		return set, nil
	}
	for _, name := range names {
		r := Rule(strings.TrimSpace(name))
		if !slices.Contains(AllRules, r) {
			return nil, fmt.Errorf("unknown lint rule %q", name)
		}
		set[r] = true
	}
	return set, nil
}

// Config selects rules and extra predeclared globals.
type Config struct {
	Rules   RuleSet
	Globals []string
	// IgnorePrefix exempts variables from no-unused-vars; "_" when empty.
	IgnorePrefix string
}

func (c Config) enabled(r Rule) bool {
	return c.Rules == nil || c.Rules[r]
}
