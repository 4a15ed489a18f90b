package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"estscope/internal/driver"
	"estscope/internal/project"
	"estscope/internal/scope"
)

// runConfig is the manifest merged with command-line overrides.
type runConfig struct {
	manifest *project.Manifest
	analyzer project.AnalyzerConfig
	lint     project.LintConfig
}

// addAnalyzerFlags registers the flags that override [analyzer] keys.
func addAnalyzerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("source-type", "", "script|module (default: the program's own sourceType)")
	f.Int("ecma-version", 0, "ECMAScript edition or year (0 = latest)")
	f.Bool("global-return", false, "allow top-level return and wrap the program in a function scope")
	f.Bool("implied-strict", false, "treat every scope as strict")
	f.String("jsx-pragma", "", "JSX factory name")
	f.String("jsx-fragment", "", "JSX fragment name")
	f.Bool("fbt", false, "make <fbt> and <fbs> reference fbt")
	f.Bool("component-syntax", false, "accept Flow component and hook syntax")
}

func loadRunConfig(cmd *cobra.Command) (runConfig, error) {
	var rc runConfig
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return rc, fmt.Errorf("failed to get config flag: %w", err)
	}
	if explicit != "" {
		cfg, err := project.LoadConfig(explicit)
		if err != nil {
			return rc, err
		}
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return rc, fmt.Errorf("resolve %s: %w", explicit, err)
		}
		rc.manifest = &project.Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}
	} else {
		m, ok, err := project.LoadManifest(".")
		if err != nil {
			return rc, err
		}
		if ok {
			rc.manifest = m
		}
	}
	if rc.manifest != nil {
		rc.analyzer = rc.manifest.Config.Analyzer
		rc.lint = rc.manifest.Config.Lint
	}
	if err := applyAnalyzerFlags(cmd, &rc.analyzer); err != nil {
		return rc, err
	}
	return rc, nil
}

// applyAnalyzerFlags copies only the flags the user set.
func applyAnalyzerFlags(cmd *cobra.Command, a *project.AnalyzerConfig) error {
	f := cmd.Flags()
	if f.Lookup("source-type") == nil {
		return nil
	}
	var errs []error
	get := func(name string, apply func() error) {
		if f.Changed(name) {
			errs = append(errs, apply())
		}
	}
	get("source-type", func() (err error) {
		a.SourceType, err = f.GetString("source-type")
		if err == nil {
			_, err = scope.ParseSourceType(a.SourceType)
		}
		return err
	})
	get("ecma-version", func() (err error) {
		a.ECMAVersion, err = f.GetInt("ecma-version")
		if err == nil {
			err = scope.CheckECMAVersion(a.ECMAVersion)
		}
		return err
	})
	get("global-return", func() (err error) {
		a.GlobalReturn, err = f.GetBool("global-return")
		return err
	})
	get("implied-strict", func() (err error) {
		a.ImpliedStrict, err = f.GetBool("implied-strict")
		return err
	})
	get("jsx-pragma", func() (err error) {
		a.JSXPragma, err = f.GetString("jsx-pragma")
		return err
	})
	get("jsx-fragment", func() (err error) {
		a.JSXFragmentName, err = f.GetString("jsx-fragment")
		return err
	})
	get("fbt", func() (err error) {
		a.FBT, err = f.GetBool("fbt")
		return err
	})
	get("component-syntax", func() (err error) {
		a.ComponentSyntax, err = f.GetBool("component-syntax")
		return err
	})
	return errors.Join(errs...)
}

// driverOptions builds the shared part of a driver run.
func driverOptions(cmd *cobra.Command, rc runConfig) (driver.Options, error) {
	flags := cmd.Root().PersistentFlags()
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	maxDiag, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts := driver.Options{
		Analyzer:       rc.analyzer,
		Jobs:           jobs,
		MaxDiagnostics: maxDiag,
		Timings:        timings,
	}
	if rc.manifest != nil {
		opts.Exclude = rc.manifest.Excluded
	}
	return opts, nil
}

func defaultPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
