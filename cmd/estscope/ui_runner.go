package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"estscope/internal/driver"
	"estscope/internal/ui"
)

type analyzeOutcome struct {
	result *driver.Result
	err    error
}

// runAnalyzeWithUI runs the batch in the background while a progress
// model consumes its events.
func runAnalyzeWithUI(ctx context.Context, out io.Writer, title string, paths []string, opts driver.Options) (*driver.Result, error) {
	files, err := driver.ListInputs(paths, opts.Exclude)
	if err != nil {
		return nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		opts.Observer = func(ev driver.Event) { events <- ev }
		res, err := driver.Analyze(ctx, paths, opts)
		outcomeCh <- analyzeOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// Keep draining so the worker never blocks on a full channel.
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
