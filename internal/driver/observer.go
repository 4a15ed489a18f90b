package driver

import "time"

// EventStatus reports where a file is in the pipeline.
type EventStatus int

const (
	// FileQueued is sent once per file before work starts.
	FileQueued EventStatus = iota
	FileStarted
	FileDone
)

// Event describes one file's progress.
type Event struct {
	Path     string
	Status   EventStatus
	Elapsed  time.Duration
	CacheHit bool
	Failed   bool
}

// Observer receives progress events from Analyze. It is called from worker
// goroutines and must be safe for concurrent use.
type Observer func(Event)

func (o Observer) emit(ev Event) {
	if o != nil {
		o(ev)
	}
}
