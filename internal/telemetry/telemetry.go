// Package telemetry emits JSONL run events and carries turn IDs on contexts.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Recorder appends one JSON line per event to events.jsonl under its
// directory. A nil or disabled Recorder drops events, so callers never need
// to guard their Emit calls.
type Recorder struct {
	enabled bool
	path    string
	mu      sync.Mutex
}

// NewRecorder returns a Recorder writing under dir when enabled.
func NewRecorder(dir string, enabled bool) *Recorder {
	return &Recorder{enabled: enabled, path: filepath.Join(dir, "events.jsonl")}
}

// Emit writes a single JSON line for the named event.
// It augments fields with RFC3339Nano time and the event name.
func (r *Recorder) Emit(name string, fields map[string]any) {
	if r == nil || !r.enabled {
		return
	}

	// Make a shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		m[k] = v
	}
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: marshal: %v\n", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", filepath.Dir(r.path), err)
		return
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: open %s: %v\n", r.path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", r.path, err)
		return
	}
}

// Path returns the events file location.
func (r *Recorder) Path() string { return r.path }
