package diag

import (
	"sync"
	"testing"

	"estscope/internal/source"
)

func TestBagSort(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevWarning, LntUnusedVariable, source.Span{File: 1, Start: 10, End: 12}, "b"))
	bag.Add(NewError(LntUndefined, source.Span{File: 1, Start: 2, End: 5}, "a"))
	bag.Add(New(SevWarning, LntUnusedVariable, source.Span{File: 0, Start: 50, End: 51}, "c"))
	bag.Sort()

	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(items))
	}
	if items[0].Message != "c" || items[1].Message != "a" || items[2].Message != "b" {
		t.Fatalf("unexpected order: %q %q %q", items[0].Message, items[1].Message, items[2].Message)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("severity queries wrong")
	}
}

func TestBagLimitAndMerge(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(New(SevInfo, LntInfo, source.Span{}, "one")) || bag.Add(New(SevInfo, LntInfo, source.Span{}, "two")) {
		t.Fatalf("limit not enforced")
	}
	other := NewBag(0)
	other.Add(New(SevInfo, LntInfo, source.Span{}, "three"))
	bag.Merge(other)
	if bag.Len() != 2 || bag.Cap() != 2 {
		t.Fatalf("merge should raise the limit: len=%d cap=%d", bag.Len(), bag.Cap())
	}
}

func TestCodeIDs(t *testing.T) {
	for code, want := range map[Code]string{
		LntUndefined:    "LNT9001",
		SynParseError:   "SYN2001",
		IOLoadFileError: "IO4001",
		ObsTimings:      "OBS6001",
		Code(1):         "E0000",
	} {
		if got := code.ID(); got != want {
			t.Fatalf("%d.ID() = %s, want %s", code, got, want)
		}
	}
	if Code(12345).Title() != "Unknown error" {
		t.Fatalf("unknown codes fall back to the generic title")
	}
}

func TestReporters(t *testing.T) {
	bag := NewBag(0)
	rep := NewDedupReporter(NewBagReporter(bag))
	span := source.Span{File: 0, Start: 4, End: 7}
	ReportError(rep, LntUndefined, span, "'foo' is not defined").Emit()
	ReportError(rep, LntUndefined, span, "'foo' is not defined").Emit()
	b := ReportWarning(rep, LntUnusedVariable, span, "'x' is unused").WithNote(span, "declared here")
	b.Emit()
	b.Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if notes := bag.Items()[1].Notes; len(notes) != 1 || notes[0].Msg != "declared here" {
		t.Fatalf("notes = %+v", notes)
	}
}

func TestBagReporterConcurrent(t *testing.T) {
	bag := NewBag(0)
	rep := NewBagReporter(bag)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rep.Report(LntInfo, SevInfo, source.Span{}, "x", nil)
		}()
	}
	wg.Wait()
	if bag.Len() != 8 {
		t.Fatalf("lost diagnostics: %d", bag.Len())
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("app.js", []byte("let a;\nfoo();\n"))
	d := NewError(LntUndefined, source.Span{File: id, Start: 7, End: 10}, "'foo' is not\ndefined").
		WithNote(source.Span{File: id, Start: 4, End: 5}, "nearby")
	got := FormatShort([]Diagnostic{d}, fs, true)
	want := "error LNT9001 app.js:2:1 'foo' is not defined\nnote LNT9001 app.js:1:5 nearby"
	if got != want {
		t.Fatalf("FormatShort =\n%s\nwant\n%s", got, want)
	}
}
