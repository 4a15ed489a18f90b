package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"estscope/internal/diag"
	"estscope/internal/driver"
	"estscope/internal/lint"
)

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Report undefined and unused bindings",
		Long:  "Run the scope-based lint rules (" + ruleNames() + ") and exit with status 1 when any error is reported.",
		RunE:  runLint,
	}
	addAnalyzerFlags(cmd)
	cmd.Flags().StringSlice("rules", nil, "rules to enable (default: [lint].rules from scopes.toml, else all)")
	cmd.Flags().StringSlice("global", nil, "extra predeclared globals")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func ruleNames() string {
	names := make([]string, 0, len(lint.AllRules))
	for _, r := range lint.AllRules {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}

func runLint(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	rc, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, rc)
	if err != nil {
		return err
	}

	ruleList := rc.lint.Rules
	if cmd.Flags().Changed("rules") {
		if ruleList, err = cmd.Flags().GetStringSlice("rules"); err != nil {
			return fmt.Errorf("failed to get rules flag: %w", err)
		}
	}
	rules, err := lint.ParseRules(ruleList)
	if err != nil {
		return err
	}
	extra, err := cmd.Flags().GetStringSlice("global")
	if err != nil {
		return fmt.Errorf("failed to get global flag: %w", err)
	}
	opts.Lint = &lint.Config{
		Rules:   rules,
		Globals: append(append([]string(nil), rc.lint.Globals...), extra...),
	}

	res, err := driver.Analyze(cmd.Context(), defaultPaths(args), opts)
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd, res, format == "json"); err != nil {
		return err
	}
	if opts.Timings {
		if err := printTimings(cmd.ErrOrStderr(), res); err != nil {
			return err
		}
	}

	errs, warns := countSeverities(mergedBag(res))
	if format == "pretty" && !quiet(cmd) {
		summary := fmt.Sprintf("%d files: %d errors, %d warnings", len(res.Files), errs, warns)
		switch {
		case errs > 0:
			summary = color.RedString(summary)
		case warns > 0:
			summary = color.YellowString(summary)
		default:
			summary = color.GreenString(summary)
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary)
	}
	if errs > 0 {
		return exitError{code: 1}
	}
	return nil
}

func countSeverities(bag *diag.Bag) (errs, warns int) {
	for _, d := range bag.Items() {
		switch {
		case d.Severity >= diag.SevError:
			errs++
		case d.Severity == diag.SevWarning:
			warns++
		}
	}
	return errs, warns
}
