package trace

import (
	"fmt"
	"io"
	"sync"
)

// RingTracer keeps the last N events in memory. With a sink attached it
// writes them out on Close, so a long batch run leaves only its tail.
type RingTracer struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
	head     int
	full     bool
	level    Level

	sink   io.Writer
	format Format
	closed bool
}

// NewRingTracer creates a ring of the given capacity (DefaultRingSize when
// capacity is not positive).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{
		events:   make([]Event, capacity),
		capacity: capacity,
		level:    level,
	}
}

// DumpTo makes Close write the buffered events to w in format.
func (t *RingTracer) DumpTo(w io.Writer, format Format) *RingTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sink = w
	t.format = format
	return t
}

// Emit stores ev, overwriting the oldest event once the ring is full.
// Heartbeats bypass the level filter.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.head] = *ev
	t.head = (t.head + 1) % t.capacity
	if t.head == 0 {
		t.full = true
	}
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked()
}

func (t *RingTracer) snapshotLocked() []Event {
	if !t.full {
		out := make([]Event, t.head)
		copy(out, t.events[:t.head])
		return out
	}
	out := make([]Event, 0, t.capacity)
	out = append(out, t.events[t.head:]...)
	return append(out, t.events[:t.head]...)
}

// Dump writes the stored events to w, oldest first.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return dumpEvents(w, t.Snapshot(), format)
}

func dumpEvents(w io.Writer, events []Event, format Format) error {
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return fmt.Errorf("dump trace ring: %w", err)
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

// Close dumps the ring to its sink, once, and closes the sink unless it is
// a standard stream.
func (t *RingTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sink == nil || t.closed {
		return nil
	}
	t.closed = true
	if err := dumpEvents(t.sink, t.snapshotLocked(), t.format); err != nil {
		return err
	}
	if isStdStream(t.sink) {
		return nil
	}
	if closer, ok := t.sink.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *RingTracer) Level() Level {
	return t.level
}

func (t *RingTracer) Enabled() bool {
	return t.level > LevelOff
}
