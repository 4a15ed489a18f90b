package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"estscope/internal/diagfmt"
	"estscope/internal/driver"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the scope tree of one file",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	addAnalyzerFlags(cmd)
	cmd.Flags().String("format", "text", "output format (text|json|yaml)")
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseDumpFormat(formatStr)
	if err != nil {
		return err
	}
	rc, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, rc)
	if err != nil {
		return err
	}
	opts.Exclude = nil

	res, err := driver.Analyze(cmd.Context(), args, opts)
	if err != nil {
		return err
	}
	if len(res.Files) != 1 {
		return fmt.Errorf("dump expects a single file, %s expands to %d", args[0], len(res.Files))
	}
	if err := printDiagnostics(cmd, res, false); err != nil {
		return err
	}
	r := &res.Files[0]
	if r.Snapshot == nil {
		return exitError{code: 1}
	}
	return diagfmt.Dump(cmd.OutOrStdout(), r.Snapshot, format)
}
