// Package diagfmt renders diagnostics and analysis snapshots for people
// and tools.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"estscope/internal/diag"
	"estscope/internal/source"
)

type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan),
		note:   mk(color.FgBlue, color.Bold),
		loc:    mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes bag as
//
//	<path>:<line>:<col>: <severity> <CODE>: <message>
//
// followed by the source line with a caret underline and, when enabled,
// the notes. Items are printed in bag order; sort the bag first.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sev := strings.ToLower(d.Severity.String())
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.loc.Sprint(position(d.Primary, fs, opts.PathMode)),
			p.severity(d.Severity).Sprint(sev),
			d.Code.ID(),
			d.Message)
		writeSnippet(w, d.Primary, fs, opts.Context, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if d.Code == diag.ObsTimings {
				continue
			}
			fmt.Fprintf(w, "  %s: %s: %s\n", p.note.Sprint("note"), position(n.Span, fs, opts.PathMode), n.Msg)
		}
	}
}

func position(span source.Span, fs *source.FileSet, mode PathMode) string {
	f := fs.Get(span.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, mode, fs.BaseDir()), start.Line, start.Col)
}

// writeSnippet prints context lines then the primary line with carets under
// the span, clipped to that line. File-level spans print nothing.
func writeSnippet(w io.Writer, span source.Span, fs *source.FileSet, context int8, p palette) {
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 || span.Empty() {
		return
	}
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}
	first := start.Line
	if context > 0 && uint32(context) < first {
		first -= uint32(context)
	} else if context > 0 {
		first = 1
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for line := first; line <= start.Line; line++ {
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, line), f.GetLine(line))
	}

	text := f.GetLine(start.Line)
	col := int(start.Col) - 1
	col = min(max(col, 0), len(text))
	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		width = int(end.Col - start.Col)
	}
	width = min(width, max(len(text)-col, 1))
	pad := runewidth.StringWidth(expandTabs(text[:col]))
	mark := runewidth.StringWidth(expandTabs(text[col:min(col+width, len(text))]))
	fmt.Fprintf(w, " %s %s%s\n",
		p.gutter.Sprintf("%*s |", gutterWidth, ""),
		strings.Repeat(" ", pad),
		p.caret.Sprint(strings.Repeat("^", max(mark, 1))))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
