package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"estscope/internal/diag"
	"estscope/internal/lint"
	"estscope/internal/project"
)

const scriptSource = "var x = 1;\nfunction f(a) { return a + y; }\n"

const estreeSource = `{"type": "Program", "sourceType": "script", "range": [0, 2], "body": [
  {"type": "ExpressionStatement", "range": [0, 2],
   "expression": {"type": "Identifier", "name": "x", "range": [0, 1]}}
]}`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestListInputs(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.js":                "",
		"a.json":              "{}",
		"notes.txt":           "",
		"node_modules/dep.js": "",
		".git/hook.js":        "",
		"vendor/lib.js":       "",
		"src/nested/deep.mjs": "",
	})
	exclude := func(path string) bool { return filepath.Base(path) == "vendor" }
	files, err := ListInputs([]string{dir, filepath.Join(dir, "b.js")}, exclude)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(dir, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"a.json", "b.js", "src/nested/deep.mjs"}
	if !slices.Equal(rel, want) {
		t.Fatalf("got %v want %v", rel, want)
	}

	_, err = ListInputs([]string{filepath.Join(dir, "notes.txt")}, nil)
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestAnalyzeSummaries(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": scriptSource, "b.json": estreeSource})
	res, err := Analyze(context.Background(), []string{dir}, Options{Jobs: 2})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Files) != 2 {
		t.Fatalf("files: %d", len(res.Files))
	}
	js := res.Files[0].Summary()
	if js.Scopes != 2 || js.Variables != 4 {
		t.Fatalf("js summary: %+v", js)
	}
	if js.Through == 0 {
		t.Fatalf("y should pass through the global scope: %+v", js)
	}
	tree := res.Files[1].Summary()
	if tree.Scopes != 1 || tree.References != 1 || tree.Through != 1 {
		t.Fatalf("estree summary: %+v", tree)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected errors")
	}
}

func TestAnalyzeReportsBadInput(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"broken.js":   "if (",
		"import.json": `{"type": "Program", "sourceType": "script", "body": [{"type": "ImportDeclaration", "specifiers": [], "source": {"type": "Literal", "value": "m"}}]}`,
	})
	res, err := Analyze(context.Background(), []string{dir}, Options{})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	codes := func(r FileResult) []diag.Code {
		var out []diag.Code
		for _, d := range r.Bag.Items() {
			out = append(out, d.Code)
		}
		return out
	}
	if got := codes(res.Files[0]); !slices.Equal(got, []diag.Code{diag.SynParseError}) {
		t.Fatalf("broken.js: %v", got)
	}
	if got := codes(res.Files[1]); !slices.Equal(got, []diag.Code{diag.SynImportInScript}) {
		t.Fatalf("import.json: %v", got)
	}
	if !res.Files[0].Failed() || !res.HasErrors() {
		t.Fatalf("expected failures")
	}
}

func TestAnalyzeWithLint(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": scriptSource})
	res, err := Analyze(context.Background(), []string{dir}, Options{Lint: &lint.Config{}})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	r := res.Files[0]
	if r.Manager == nil || r.Program == nil {
		t.Fatalf("lint runs keep the tree")
	}
	var undef []string
	for _, d := range r.Bag.Items() {
		if d.Code == diag.LntUndefined {
			undef = append(undef, d.Message)
		}
	}
	if len(undef) != 1 {
		t.Fatalf("expected one no-undef report, got %v", r.Bag.Items())
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": scriptSource})
	cache, err := OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	opts := Options{Cache: cache}

	first, err := Analyze(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.CacheHits() != 0 {
		t.Fatalf("cold cache reported a hit")
	}
	second, err := Analyze(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.CacheHits() != 1 {
		t.Fatalf("warm cache missed")
	}
	if !first.Files[0].Snapshot.Equal(second.Files[0].Snapshot) {
		t.Fatalf("cached snapshot differs from a fresh analysis")
	}

	// Different options are a different key.
	opts.Analyzer = project.AnalyzerConfig{ImpliedStrict: true}
	third, err := Analyze(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third.CacheHits() != 0 {
		t.Fatalf("options change must invalidate the cache")
	}

	n, err := cache.Clean()
	if err != nil || n != 2 {
		t.Fatalf("clean: %d %v", n, err)
	}
	if _, ok, _ := cache.Get(Key([]byte(scriptSource), project.AnalyzerConfig{})); ok {
		t.Fatalf("entry survived Clean")
	}
}

func TestCacheRootHonorsXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	dir, err := CacheRoot()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(base, CacheDirName) {
		t.Fatalf("cache root: %s", dir)
	}
}

func TestObserverSeesEveryFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": scriptSource, "b.json": estreeSource, "c.js": "let z;"})
	var mu sync.Mutex
	counts := map[EventStatus]int{}
	obs := func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		counts[ev.Status]++
	}
	if _, err := Analyze(context.Background(), []string{dir}, Options{Observer: obs, Jobs: 3}); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if counts[FileQueued] != 3 || counts[FileStarted] != 3 || counts[FileDone] != 3 {
		t.Fatalf("events: %v", counts)
	}
}

func TestTimingsDiagnostic(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": scriptSource})
	res, err := Analyze(context.Background(), []string{dir}, Options{Timings: true})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	items := res.Files[0].Bag.Items()
	if len(items) != 1 || items[0].Code != diag.ObsTimings || len(items[0].Notes) != 1 {
		t.Fatalf("timings: %+v", items)
	}
	if len(res.Files[0].Timing.Phases) < 2 {
		t.Fatalf("phases: %+v", res.Files[0].Timing)
	}
}

func TestAnalyzeCanceled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": scriptSource})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Analyze(ctx, []string{dir}, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
