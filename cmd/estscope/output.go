package main

import (
	"github.com/spf13/cobra"

	"estscope/internal/diag"
	"estscope/internal/diagfmt"
	"estscope/internal/driver"
)

// mergedBag gathers every file's diagnostics, dropping timing entries
// which are printed as a table instead.
func mergedBag(res *driver.Result) *diag.Bag {
	bag := diag.NewBag(0)
	for i := range res.Files {
		r := &res.Files[i]
		if r.Bag == nil {
			continue
		}
		for _, d := range r.Bag.Items() {
			if d.Code == diag.ObsTimings {
				continue
			}
			bag.Add(d)
		}
	}
	bag.Sort()
	return bag
}

// printDiagnostics writes the run's diagnostics to stderr, or to stdout as
// JSON when asJSON is set.
func printDiagnostics(cmd *cobra.Command, res *driver.Result, asJSON bool) error {
	bag := mergedBag(res)
	if asJSON {
		return diagfmt.JSON(cmd.OutOrStdout(), bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		})
	}
	if bag.Len() == 0 {
		return nil
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, res.FileSet, diagfmt.PrettyOpts{
		Color:     !colorDisabled(),
		ShowNotes: true,
	})
	return nil
}
