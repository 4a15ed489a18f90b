package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"estscope/internal/scope"
)

// DumpFormat selects how a snapshot is written.
type DumpFormat string

const (
	DumpText DumpFormat = "text"
	DumpJSON DumpFormat = "json"
	DumpYAML DumpFormat = "yaml"
)

func ParseDumpFormat(s string) (DumpFormat, error) {
	switch f := DumpFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", DumpText:
		return DumpText, nil
	case DumpJSON, DumpYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected text|json|yaml)", s)
	}
}

// Dump writes snap in the requested format.
func Dump(w io.Writer, snap *scope.Snapshot, format DumpFormat) error {
	switch format {
	case DumpJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case DumpYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, ScopeTree(snap))
		return err
	}
}

type snapIndex struct {
	snap   *scope.Snapshot
	scopes map[uint32]*scope.ScopeData
	vars   map[uint32]*scope.VariableData
	refs   map[uint32]*scope.ReferenceData
}

func indexSnapshot(snap *scope.Snapshot) snapIndex {
	ix := snapIndex{
		snap:   snap,
		scopes: make(map[uint32]*scope.ScopeData, len(snap.Scopes)),
		vars:   make(map[uint32]*scope.VariableData, len(snap.Variables)),
		refs:   make(map[uint32]*scope.ReferenceData, len(snap.References)),
	}
	for i := range snap.Scopes {
		ix.scopes[snap.Scopes[i].ID] = &snap.Scopes[i]
	}
	for i := range snap.Variables {
		ix.vars[snap.Variables[i].ID] = &snap.Variables[i]
	}
	for i := range snap.References {
		ix.refs[snap.References[i].ID] = &snap.References[i]
	}
	return ix
}

// ScopeTree renders the scope hierarchy as an indented tree, one scope per
// node, listing variables with their definition kinds and references with
// their flag and resolution.
//
//	global [0,42) strict=false
//	├─ vars: x(Variable) f(FunctionName)
//	├─ refs: x write→?
//	├─ through: x y
//	└─ function [11,41) strict=false
//	   ├─ vars: arguments a(Parameter)
//	   └─ refs: a read→a@2 y read→?
func ScopeTree(snap *scope.Snapshot) string {
	if snap == nil || len(snap.Scopes) == 0 {
		return "<empty>\n"
	}
	ix := indexSnapshot(snap)
	var b strings.Builder
	ix.writeScope(&b, &snap.Scopes[0], "", "", true)
	return b.String()
}

func (ix snapIndex) writeScope(b *strings.Builder, s *scope.ScopeData, prefix, branch string, root bool) {
	label := fmt.Sprintf("%s [%d,%d) strict=%t", s.Kind, s.Block.Start, s.Block.End, s.Strict)
	if s.Dynamic {
		label += " dynamic"
	}
	if s.FunctionExpressionScope {
		label += " fe-name"
	}
	b.WriteString(prefix + branch + label + "\n")

	childPrefix := prefix
	if !root {
		if branch == "└─ " {
			childPrefix += "   "
		} else {
			childPrefix += "│  "
		}
	}

	var lines []string
	if vars := ix.varList(s.Variables); vars != "" {
		lines = append(lines, "vars: "+vars)
	}
	if refs := ix.refList(s.References); refs != "" {
		lines = append(lines, "refs: "+refs)
	}
	if len(s.Through) > 0 && s.Upper == 0 {
		lines = append(lines, "through: "+ix.names(s.Through))
	}
	if len(s.Implicit) > 0 {
		lines = append(lines, "implicit: "+ix.varList(s.Implicit))
	}

	total := len(lines) + len(s.Children)
	i := 0
	for _, line := range lines {
		i++
		b.WriteString(childPrefix + connector(i == total) + line + "\n")
	}
	for _, child := range s.Children {
		i++
		if cs, ok := ix.scopes[child]; ok {
			ix.writeScope(b, cs, childPrefix, connector(i == total), false)
		}
	}
}

func connector(last bool) string {
	if last {
		return "└─ "
	}
	return "├─ "
}

func (ix snapIndex) varList(ids []uint32) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		v, ok := ix.vars[id]
		if !ok {
			continue
		}
		if len(v.Defs) == 0 {
			parts = append(parts, v.Name)
			continue
		}
		kinds := make([]string, 0, len(v.Defs))
		for _, d := range v.Defs {
			kinds = append(kinds, d.Kind)
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", v.Name, strings.Join(kinds, ",")))
	}
	return strings.Join(parts, " ")
}

func (ix snapIndex) refList(ids []uint32) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		r, ok := ix.refs[id]
		if !ok {
			continue
		}
		target := "?"
		if v, ok := ix.vars[r.Resolved]; ok {
			target = fmt.Sprintf("%s@%d", v.Name, v.Scope)
		}
		part := fmt.Sprintf("%s %s→%s", r.Name, r.Flag, target)
		if r.Namespace != "value" {
			part += ":" + r.Namespace
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

func (ix snapIndex) names(ids []uint32) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if r, ok := ix.refs[id]; ok {
			parts = append(parts, r.Name)
		}
	}
	return strings.Join(parts, " ")
}
