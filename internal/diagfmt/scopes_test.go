package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"estscope/internal/estree"
	"estscope/internal/referencer"
	"estscope/internal/scope"
)

func sampleSnapshot(t *testing.T) *scope.Snapshot {
	t.Helper()
	// var x = 1; function f(a) { return a + y; }
	prog := estree.Prog("script",
		estree.Let("var", "x", estree.Num(1)),
		estree.Func(estree.Ident("f"), []*estree.Node{estree.Ident("a")},
			estree.Return(estree.N(estree.BinaryExpression, "operator", "+", "left", estree.Ident("a"), "right", estree.Ident("y")))),
	)
	estree.Finish(prog)
	m, err := referencer.Analyze(prog, referencer.Options{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	return m.Snapshot()
}

func TestScopeTree(t *testing.T) {
	out := ScopeTree(sampleSnapshot(t))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if !strings.HasPrefix(lines[0], "global [") {
		t.Fatalf("root line: %q", lines[0])
	}
	for _, want := range []string{
		"├─ vars: x(Variable) f(FunctionName)",
		"└─ function [",
		"   ├─ vars: arguments a(Parameter)",
		"a read→a@2",
		"y read→?",
		"through: ",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if ScopeTree(nil) != "<empty>\n" {
		t.Fatalf("nil snapshot")
	}
}

func TestDumpFormats(t *testing.T) {
	snap := sampleSnapshot(t)

	var buf bytes.Buffer
	if err := Dump(&buf, snap, DumpJSON); err != nil {
		t.Fatalf("json: %v", err)
	}
	var fromJSON scope.Snapshot
	if err := json.Unmarshal(buf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if !snap.Equal(&fromJSON) {
		t.Fatalf("json dump lost information")
	}

	buf.Reset()
	if err := Dump(&buf, snap, DumpYAML); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromYAML scope.Snapshot
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("yaml decode: %v", err)
	}
	if !snap.Equal(&fromYAML) {
		t.Fatalf("yaml dump lost information")
	}
	if !strings.Contains(buf.String(), "kind: function") {
		t.Fatalf("yaml keys:\n%s", buf.String())
	}
}

func TestParseDumpFormat(t *testing.T) {
	for in, want := range map[string]DumpFormat{"": DumpText, "JSON": DumpJSON, " yaml ": DumpYAML} {
		got, err := ParseDumpFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseDumpFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDumpFormat("xml"); err == nil {
		t.Fatalf("xml accepted")
	}
}
