package project

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"estscope/internal/referencer"
	"estscope/internal/scope"
)

// Manifest is a loaded scopes.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest tables. Every key is optional.
type Config struct {
	Analyzer AnalyzerConfig `toml:"analyzer"`
	Lint     LintConfig     `toml:"lint"`
	Files    FilesConfig    `toml:"files"`
}

type AnalyzerConfig struct {
	SourceType       string `toml:"source_type"`
	GlobalReturn     bool   `toml:"global_return"`
	ImpliedStrict    bool   `toml:"implied_strict"`
	ECMAVersion      int    `toml:"ecma_version"`
	JSXPragma        string `toml:"jsx_pragma"`
	DisableJSXPragma bool   `toml:"disable_jsx_pragma"`
	JSXFragmentName  string `toml:"jsx_fragment_name"`
	FBT              bool   `toml:"fbt"`
	ComponentSyntax  bool   `toml:"component_syntax"`
}

type LintConfig struct {
	Rules   []string `toml:"rules"`
	Globals []string `toml:"globals"`
}

// FilesConfig narrows directory walks. Patterns use filepath.Match syntax
// against slash-separated paths relative to the manifest root.
type FilesConfig struct {
	Exclude []string `toml:"exclude"`
}

// LoadManifest finds and loads the manifest above startDir. ok is false
// when none exists.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := scope.ParseSourceType(c.Analyzer.SourceType); err != nil {
		return fmt.Errorf("[analyzer].source_type: %w", err)
	}
	if err := scope.CheckECMAVersion(c.Analyzer.ECMAVersion); err != nil {
		return fmt.Errorf("[analyzer].ecma_version: %w", err)
	}
	if slices.Contains(c.Lint.Globals, "") {
		return fmt.Errorf("[lint].globals: empty name")
	}
	for _, pattern := range c.Files.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("[files].exclude %q: %w", pattern, err)
		}
	}
	return nil
}

// Options converts the analyzer table. An empty source_type is left empty
// so the program's own sourceType field still applies.
func (a AnalyzerConfig) Options() referencer.Options {
	return referencer.Options{
		SourceType:                        scope.SourceType(a.SourceType),
		GlobalReturn:                      a.GlobalReturn,
		ImpliedStrict:                     a.ImpliedStrict,
		ECMAVersion:                       a.ECMAVersion,
		JSXPragma:                         a.JSXPragma,
		DisableJSXPragma:                  a.DisableJSXPragma,
		JSXFragmentName:                   a.JSXFragmentName,
		FBT:                               a.FBT,
		EnableExperimentalComponentSyntax: a.ComponentSyntax,
	}
}

// Excluded reports whether path (relative to the manifest root) matches an
// exclude pattern.
func (m *Manifest) Excluded(path string) bool {
	if m == nil {
		return false
	}
	rel, err := filepath.Rel(m.Root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range m.Config.Files.Exclude {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}
