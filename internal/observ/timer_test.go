package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerFoldsPhases(t *testing.T) {
	tm := NewTimer()
	tm.Add("parse", 2*time.Millisecond, "")
	tm.Add("analyze", time.Millisecond, "")
	tm.Add("parse", 3*time.Millisecond, "2 files")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases: %+v", r.Phases)
	}
	if r.Phases[0].Name != "parse" || r.Phases[0].Count != 2 || r.Phases[0].DurationMS != 5 {
		t.Fatalf("parse phase: %+v", r.Phases[0])
	}
	if r.TotalMS != 6 {
		t.Fatalf("total: %v", r.TotalMS)
	}
	if !strings.Contains(tm.Summary(), "// 2 files") {
		t.Fatalf("summary lost the note:\n%s", tm.Summary())
	}
}

func TestTimerConcurrentBegin(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stop := tm.Begin("analyze")
			stop("")
		}()
	}
	wg.Wait()
	if got := tm.Report().Phases[0].Count; got != 16 {
		t.Fatalf("count: %d", got)
	}
}
