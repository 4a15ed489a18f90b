package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"estscope/internal/driver"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze files and print a per-file scope summary",
		Long:  "Analyze ESTree JSON (.json) and JavaScript (.js, .jsx, .mjs, .cjs) inputs. Directories are walked; results are cached unless --no-cache is set.",
		RunE:  runAnalyze,
	}
	addAnalyzerFlags(cmd)
	cmd.Flags().Bool("no-cache", false, "do not read or write the snapshot cache")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rc, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, rc)
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if !noCache {
		cache, err := driver.OpenCache()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: snapshot cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}

	tui, err := useTUI(cmd)
	if err != nil {
		return err
	}
	paths := defaultPaths(args)
	start := time.Now()
	var res *driver.Result
	if tui {
		res, err = runAnalyzeWithUI(cmd.Context(), cmd.OutOrStdout(), "analyze", paths, opts)
	} else {
		res, err = driver.Analyze(cmd.Context(), paths, opts)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	for i := range res.Files {
		r := &res.Files[i]
		if r.Snapshot == nil {
			fmt.Fprintf(out, "%s: %s\n", bold.Sprint(r.Path), color.RedString("failed"))
			continue
		}
		s := r.Summary()
		line := fmt.Sprintf("%s: %d scopes, %d variables, %d references, %d through",
			bold.Sprint(r.Path), s.Scopes, s.Variables, s.References, s.Through)
		if r.CacheHit {
			line += color.CyanString(" (cached)")
		}
		fmt.Fprintln(out, line)
	}

	if err := printDiagnostics(cmd, res, false); err != nil {
		return err
	}
	if opts.Timings {
		if err := printTimings(out, res); err != nil {
			return err
		}
	}
	if !quiet(cmd) {
		fmt.Fprintf(out, "analyzed %d files (%d cached) in %.1f ms\n", len(res.Files), res.CacheHits(), toMillis(elapsed))
	}
	if res.HasErrors() {
		return exitError{code: 1}
	}
	return nil
}
