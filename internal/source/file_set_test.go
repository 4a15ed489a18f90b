package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.Add("a.js", []byte("let a"), 0)
	id2 := fs.Add("a.js", []byte("let b"), 0)
	if id1 == id2 {
		t.Fatalf("expected a fresh id for the second add")
	}
	if got := string(fs.Get(id2).Content); got != "let b" {
		t.Fatalf("new version: %q", got)
	}
	if got := string(fs.Get(id1).Content); got != "let a" {
		t.Fatalf("old version lost: %q", got)
	}
	if fs.Get(FileID(99)) != nil {
		t.Fatalf("unknown id must return nil")
	}
}

func TestKindOf(t *testing.T) {
	cases := map[string]FileKind{
		"x.json":   KindESTree,
		"x.JS":     KindScript,
		"x.jsx":    KindScript,
		"x.mjs":    KindScript,
		"x.ts":     KindUnknown,
		"Makefile": KindUnknown,
	}
	for path, want := range cases {
		if got := KindOf(path); got != want {
			t.Errorf("KindOf(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestResolveLines(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("ab\ncd\n\nef"))
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, c := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: c.off, End: c.off})
		if start != c.want {
			t.Errorf("offset %d: got %+v, want %+v", c.off, start, c.want)
		}
	}
	f := fs.Get(id)
	if got := f.GetLine(2); got != "cd" {
		t.Fatalf("line 2: %q", got)
	}
	if got := f.GetLine(4); got != "ef" {
		t.Fatalf("line 4: %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("line 9: %q", got)
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.js")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags not recorded: %b", f.Flags)
	}
	if f.Kind != KindScript {
		t.Fatalf("kind: %v", f.Kind)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.js")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}
