package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"estscope/internal/driver"
	"estscope/internal/estree"
	"estscope/internal/source"
	"estscope/internal/usegraph"
)

func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps <file>",
		Short: "Show which top-level declarations use which, and a safe statement order",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeps,
	}
	addAnalyzerFlags(cmd)
	cmd.Flags().String("format", "text", "output format (text|json)")
	return cmd
}

type depsStatement struct {
	Index    int      `json:"index"`
	Line     uint32   `json:"line"`
	Type     string   `json:"type"`
	Declares []string `json:"declares,omitempty"`
	Uses     []string `json:"uses,omitempty"`
}

type depsPayload struct {
	Statements []depsStatement `json:"statements"`
	Order      []int           `json:"order"`
	Batches    [][]int         `json:"batches"`
	Cycles     []int           `json:"cycles,omitempty"`
}

func runDeps(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
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
	opts.KeepTree = true

	res, err := driver.Analyze(cmd.Context(), args, opts)
	if err != nil {
		return err
	}
	if len(res.Files) != 1 {
		return fmt.Errorf("deps expects a single file, %s expands to %d", args[0], len(res.Files))
	}
	if err := printDiagnostics(cmd, res, false); err != nil {
		return err
	}
	r := &res.Files[0]
	if r.Manager == nil {
		return exitError{code: 1}
	}

	g := usegraph.Build(r.Manager, r.Program)
	topo := usegraph.ToposortKahn(g)
	payload := buildDepsPayload(res.FileSet, g, topo)
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	writeDepsText(cmd.OutOrStdout(), payload)
	return nil
}

func buildDepsPayload(fs *source.FileSet, g usegraph.Graph, topo *usegraph.Topo) depsPayload {
	p := depsPayload{Statements: make([]depsStatement, len(g.Nodes))}
	for i, n := range g.Nodes {
		start, _ := fs.Resolve(n.Stmt.Span)
		p.Statements[i] = depsStatement{
			Index:    i,
			Line:     start.Line,
			Type:     statementType(n.Stmt),
			Declares: n.Declares,
			Uses:     n.Uses,
		}
	}
	ints := func(ids []usegraph.NodeID) []int {
		out := make([]int, len(ids))
		for i, id := range ids {
			out[i] = int(id)
		}
		return out
	}
	p.Order = ints(topo.Order)
	for _, b := range topo.Batches {
		p.Batches = append(p.Batches, ints(b))
	}
	p.Cycles = ints(topo.Cycles)
	return p
}

// statementType names the declaration an export wraps.
func statementType(stmt *estree.Node) string {
	if stmt.Is(estree.ExportNamedDeclaration, estree.ExportDefaultDeclaration) {
		if decl := stmt.Child("declaration"); decl != nil {
			return "export " + decl.Type
		}
	}
	return stmt.Type
}

func writeDepsText(out io.Writer, p depsPayload) {
	label := func(i int) string {
		s := p.Statements[i]
		name := s.Type
		if len(s.Declares) > 0 {
			name += " " + strings.Join(s.Declares, ", ")
		}
		return fmt.Sprintf("#%d line %d: %s", i, s.Line, name)
	}

	fmt.Fprintln(out, "uses:")
	for i, s := range p.Statements {
		if len(s.Declares) == 0 && len(s.Uses) == 0 {
			continue
		}
		uses := "-"
		if len(s.Uses) > 0 {
			uses = strings.Join(s.Uses, ", ")
		}
		fmt.Fprintf(out, "  %s -> %s\n", label(i), uses)
	}

	fmt.Fprintln(out, "order:")
	for wave, batch := range p.Batches {
		for _, i := range batch {
			fmt.Fprintf(out, "  %d. %s\n", wave+1, label(i))
		}
	}
	if len(p.Cycles) > 0 {
		fmt.Fprintln(out, "cycles:")
		for _, i := range p.Cycles {
			fmt.Fprintf(out, "  %s\n", label(i))
		}
	}
}
