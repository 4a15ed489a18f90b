package main

import (
	"fmt"
	"io"
	"time"

	"estscope/internal/driver"
	"estscope/internal/observ"
)

// printTimings folds the per-file phase reports into one table.
func printTimings(out io.Writer, res *driver.Result) error {
	if out == nil || res == nil {
		return nil
	}
	timer := observ.NewTimer()
	for i := range res.Files {
		for _, p := range res.Files[i].Timing.Phases {
			timer.Add(p.Name, time.Duration(p.DurationMS*float64(time.Millisecond)), "")
		}
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		return fmt.Errorf("write timings: %w", err)
	}
	return nil
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
