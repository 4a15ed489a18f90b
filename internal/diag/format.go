package diag

import (
	"fmt"
	"path/filepath"
	"strings"

	"estscope/internal/source"
)

// FormatShort renders one line per diagnostic:
//
//	error LNT9001 src/app.js:3:7 'foo' is not defined
//
// Notes follow their diagnostic as "note" lines when includeNotes is set.
// Input order is kept; sort the Bag first for stable output.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	var b strings.Builder
	for i := range diags {
		d := &diags[i]
		writeLine(&b, severityLabel(d.Severity), d.Code, d.Primary, d.Message, fs)
		if includeNotes {
			for _, n := range d.Notes {
				writeLine(&b, "note", d.Code, n.Span, n.Msg, fs)
			}
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeLine(b *strings.Builder, label string, code Code, span source.Span, msg string, fs *source.FileSet) {
	path, line, col := "?", uint32(0), uint32(0)
	if fs != nil {
		if f := fs.Get(span.File); f != nil {
			path = filepath.ToSlash(f.DisplayPath(fs.BaseDir()))
			start, _ := fs.Resolve(span)
			line, col = start.Line, start.Col
		}
	}
	fmt.Fprintf(b, "%s %s %s:%d:%d %s\n", label, code.ID(), path, line, col, sanitizeMessage(msg))
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
