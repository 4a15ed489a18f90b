package scope

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks the structural invariants of a finished manager.
func (m *Manager) Validate() error {
	var errs []error
	if !m.global.IsValid() {
		return errors.New("scope: no global scope")
	}
	for _, sid := range m.scopes.ids() {
		s := m.Scope(sid)
		if !s.closed {
			errs = append(errs, fmt.Errorf("scope %d (%s) is not closed", sid, s.Kind))
		}
		if s.Upper.IsValid() {
			if up := m.Scope(s.Upper); up == nil || !slices.Contains(up.Children, sid) {
				errs = append(errs, fmt.Errorf("scope %d is missing from the children of %d", sid, s.Upper))
			}
		} else if sid != m.global {
			errs = append(errs, fmt.Errorf("scope %d (%s) has no parent", sid, s.Kind))
		}
		for _, child := range s.Children {
			if m.Scope(child).Upper != sid {
				errs = append(errs, fmt.Errorf("scope %d lists %d as child but its parent differs", sid, child))
			}
		}
		if len(s.Set) != len(s.Variables) {
			errs = append(errs, fmt.Errorf("scope %d: set has %d names for %d variables", sid, len(s.Set), len(s.Variables)))
		}
		for _, vid := range s.Variables {
			v := m.Variable(vid)
			if v.Scope != sid {
				errs = append(errs, fmt.Errorf("variable %q is listed in scope %d but owned by %d", m.Name(v.Name), sid, v.Scope))
			}
			if s.Set[v.Name] != vid {
				errs = append(errs, fmt.Errorf("scope %d: set entry for %q does not match", sid, m.Name(v.Name)))
			}
		}
		for _, rid := range s.References {
			if m.Reference(rid).From != sid {
				errs = append(errs, fmt.Errorf("reference %d is listed in scope %d but created in %d", rid, sid, m.Reference(rid).From))
			}
		}
	}
	for _, rid := range m.references.ids() {
		r := m.Reference(rid)
		if !r.Resolved.IsValid() {
			continue
		}
		if v := m.Variable(r.Resolved); v == nil || !slices.Contains(v.References, rid) {
			errs = append(errs, fmt.Errorf("reference %d to %q is missing from its variable", rid, m.Name(r.Name)))
		}
	}
	return errors.Join(errs...)
}
