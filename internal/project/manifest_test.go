package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"estscope/internal/scope"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[analyzer]
source_type = "module"
ecma_version = 2022
jsx_pragma = "h"
component_syntax = true

[lint]
rules = ["no-undef"]
globals = ["window"]

[files]
exclude = ["vendor/*"]
`)
	nested := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if m.Root != root {
		t.Fatalf("root = %q, want %q", m.Root, root)
	}
	opts := m.Config.Analyzer.Options()
	if opts.SourceType != scope.SourceModule || opts.ECMAVersion != 2022 || opts.JSXPragma != "h" || !opts.EnableExperimentalComponentSyntax {
		t.Fatalf("options = %+v", opts)
	}
	if len(m.Config.Lint.Globals) != 1 || m.Config.Lint.Globals[0] != "window" {
		t.Fatalf("globals = %v", m.Config.Lint.Globals)
	}
	if !m.Excluded(filepath.Join(root, "vendor", "lib.js")) || m.Excluded(filepath.Join(root, "src", "a.js")) {
		t.Fatalf("exclude patterns misapplied")
	}
}

func TestLoadManifestMissing(t *testing.T) {
	m, ok, err := LoadManifest(t.TempDir())
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if ok || m != nil {
		t.Skip("a scopes.toml exists above the temp dir")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	for _, tc := range []struct {
		name, body, want string
	}{
		{"source type", "[analyzer]\nsource_type = \"commonjs\"\n", "source_type"},
		{"edition", "[analyzer]\necma_version = 4\n", "ecma_version"},
		{"unknown key", "[analyzer]\njsx = true\n", "unknown keys: analyzer.jsx"},
		{"syntax", "[analyzer\n", "failed to parse TOML"},
		{"exclude", "[files]\nexclude = [\"[\"]\n", "[files].exclude"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tc.body)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestDigests(t *testing.T) {
	a := DigestOf([]byte("let a;"))
	if a == DigestOf([]byte("let b;")) {
		t.Fatalf("different content, same digest")
	}
	if Combine(a, OptionsDigest(AnalyzerConfig{})) == Combine(a, OptionsDigest(AnalyzerConfig{FBT: true})) {
		t.Fatalf("options must change the combined digest")
	}
	if len(a.String()) != 64 {
		t.Fatalf("hex digest length = %d", len(a.String()))
	}
}
