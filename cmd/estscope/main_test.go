package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"estscope/internal/driver"
	"estscope/internal/observ"
	"estscope/internal/scope"
)

const sampleJS = "var x = 1;\nfunction f(a) { return a + y; }\n"

// workspace creates files in a fresh directory, makes it the working
// directory and points the cache at a private location.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd, finish := newRootCmd()
	defer finish()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--ui", "off", "--color", "off"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func exitCode(err error) int {
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json", "--hash")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if payload.Tool != "estscope" || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("payload: %+v", payload)
	}
	if _, _, err := execute(t, "version", "--format", "xml"); err == nil {
		t.Fatalf("xml format accepted")
	}
}

func TestAnalyzeUsesCache(t *testing.T) {
	workspace(t, map[string]string{"a.js": sampleJS})

	out, _, err := execute(t, "analyze", "a.js")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "a.js: 2 scopes, 4 variables") || strings.Contains(out, "(cached)") {
		t.Fatalf("first run:\n%s", out)
	}

	out, _, err = execute(t, "analyze", "a.js")
	if err != nil {
		t.Fatalf("analyze again: %v", err)
	}
	if !strings.Contains(out, "(cached)") || !strings.Contains(out, "analyzed 1 files (1 cached)") {
		t.Fatalf("second run:\n%s", out)
	}

	out, _, err = execute(t, "cache", "clean")
	if err != nil {
		t.Fatalf("cache clean: %v", err)
	}
	if !strings.HasPrefix(out, "removed 1 snapshots") {
		t.Fatalf("clean: %q", out)
	}
}

func TestAnalyzeTimings(t *testing.T) {
	workspace(t, map[string]string{"a.js": sampleJS})
	out, _, err := execute(t, "--timings", "analyze", "--no-cache", "a.js")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "timings:") || !strings.Contains(out, "  parse ") || !strings.Contains(out, "  analyze ") {
		t.Fatalf("timing table lacks phase rows:\n%s", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestPrintTimingsReportsWriteErrors(t *testing.T) {
	res := &driver.Result{Files: []driver.FileResult{{Timing: observ.Report{Phases: []observ.PhaseReport{{Name: "parse", DurationMS: 1}}}}}}
	if err := printTimings(failingWriter{}, res); err == nil {
		t.Fatalf("expected the write error")
	}
}

func TestAnalyzeFailsOnBadInput(t *testing.T) {
	workspace(t, map[string]string{"bad.js": "if ("})
	out, stderr, err := execute(t, "analyze", "--no-cache", ".")
	if exitCode(err) != 1 {
		t.Fatalf("expected exit 1, got %v", err)
	}
	if !strings.Contains(out, "bad.js: failed") || !strings.Contains(stderr, "SYN2001") {
		t.Fatalf("stdout:\n%s\nstderr:\n%s", out, stderr)
	}
}

func TestDumpFormats(t *testing.T) {
	workspace(t, map[string]string{"a.js": sampleJS})

	out, _, err := execute(t, "dump", "a.js", "--format", "json")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	var snap scope.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Scopes) != 2 || snap.Scopes[1].Kind != "function" {
		t.Fatalf("scopes: %+v", snap.Scopes)
	}

	out, _, err = execute(t, "dump", "a.js")
	if err != nil {
		t.Fatalf("dump text: %v", err)
	}
	if !strings.HasPrefix(out, "global [") || !strings.Contains(out, "└─ function") {
		t.Fatalf("text dump:\n%s", out)
	}

	out, _, err = execute(t, "dump", "a.js", "--format", "yaml")
	if err != nil || !strings.Contains(out, "source_type: script") {
		t.Fatalf("yaml dump (%v):\n%s", err, out)
	}
}

func TestLintExitStatus(t *testing.T) {
	workspace(t, map[string]string{"a.js": sampleJS})

	out, stderr, err := execute(t, "lint", "a.js")
	if exitCode(err) != 1 {
		t.Fatalf("expected exit 1, got %v", err)
	}
	if !strings.Contains(stderr, "a.js:2:28: error LNT9001: 'y' is not defined") {
		t.Fatalf("stderr:\n%s", stderr)
	}
	if !strings.Contains(out, "1 files: 1 errors, 0 warnings") {
		t.Fatalf("summary:\n%s", out)
	}

	if _, _, err := execute(t, "lint", "--global", "y", "a.js"); err != nil {
		t.Fatalf("with global: %v", err)
	}
	if _, _, err := execute(t, "lint", "--rules", "no-unused-vars", "a.js"); err != nil {
		t.Fatalf("no-undef disabled: %v", err)
	}
	if _, _, err := execute(t, "lint", "--rules", "no-such-rule", "a.js"); exitCode(err) != -1 {
		t.Fatalf("unknown rule accepted: %v", err)
	}
}

func TestLintJSON(t *testing.T) {
	workspace(t, map[string]string{"a.js": sampleJS})
	out, _, err := execute(t, "lint", "--format", "json", "a.js")
	if exitCode(err) != 1 {
		t.Fatalf("expected exit 1, got %v", err)
	}
	var doc struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if doc.Count != 1 || doc.Diagnostics[0].Code != "LNT9001" {
		t.Fatalf("doc: %+v", doc)
	}
}

func TestManifestSettings(t *testing.T) {
	workspace(t, map[string]string{
		"a.js":        sampleJS,
		"scopes.toml": "[lint]\nglobals = [\"y\"]\n",
	})
	if _, stderr, err := execute(t, "lint", "a.js"); err != nil {
		t.Fatalf("manifest globals ignored: %v\n%s", err, stderr)
	}

	if _, _, err := execute(t, "--config", "missing.toml", "lint", "a.js"); err == nil {
		t.Fatalf("missing explicit config accepted")
	}
}

func TestAnalyzerFlagValidation(t *testing.T) {
	workspace(t, map[string]string{"a.js": sampleJS})
	if _, _, err := execute(t, "analyze", "--ecma-version", "4", "a.js"); err == nil {
		t.Fatalf("ecma 4 accepted")
	}
	if _, _, err := execute(t, "analyze", "--source-type", "weird", "a.js"); err == nil {
		t.Fatalf("bad source type accepted")
	}
}

func TestDepsOrder(t *testing.T) {
	workspace(t, map[string]string{
		"m.js": "export const b = a + 1;\nconst a = 1;\n",
	})
	out, _, err := execute(t, "deps", "m.js")
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	order := out[strings.Index(out, "order:"):]
	first := strings.Index(order, "VariableDeclaration a")
	second := strings.Index(order, "export VariableDeclaration b")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("order:\n%s", out)
	}

	out, _, err = execute(t, "deps", "m.js", "--format", "json")
	if err != nil {
		t.Fatalf("deps json: %v", err)
	}
	var p depsPayload
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(p.Order) != 2 || p.Order[0] != 1 || len(p.Cycles) != 0 {
		t.Fatalf("payload: %+v", p)
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := workspace(t, map[string]string{"a.js": sampleJS})
	cpu := filepath.Join(dir, "cpu.pprof")
	heap := filepath.Join(dir, "heap.pprof")
	_, _, err := execute(t, "--cpu-profile", cpu, "--mem-profile", heap, "analyze", "--no-cache", "a.js")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, p := range []string{cpu, heap} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Fatalf("%s not written: %v", p, err)
		}
	}
}

func TestTraceRingMode(t *testing.T) {
	dir := workspace(t, map[string]string{"a.js": sampleJS})
	out := filepath.Join(dir, "trace.ndjson")
	_, _, err := execute(t, "--trace", out, "--trace-mode", "ring", "--trace-ring-size", "3", "analyze", "--no-cache", "a.js")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("trace output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("ring dump should hold 3 events, got %d:\n%s", len(lines), data)
	}
	var last map[string]any
	if err := json.Unmarshal([]byte(lines[2]), &last); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if last["name"] != "analyze" || last["kind"] != "end" || last["scope"] != "driver" {
		t.Fatalf("last event should end the driver span: %v", last)
	}
}
