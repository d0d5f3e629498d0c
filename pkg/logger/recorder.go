package logger

import (
	"context"
	"sync"
)

// Entry is one call captured by a Recorder.
type Entry struct {
	Level  string
	Name   string
	Msg    string
	Fields []Field
}

// Field returns the value of the named field, if present.
func (e Entry) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Recorder is an in-memory Logger for tests.
type Recorder struct {
	mu      *sync.Mutex
	name    string
	entries *[]Entry
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

func (r *Recorder) add(level, msg string, fields []Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, Entry{Level: level, Name: r.name, Msg: msg, Fields: fields})
}

func (r *Recorder) Info(_ context.Context, msg string, fields ...Field)  { r.add("info", msg, fields) }
func (r *Recorder) Error(_ context.Context, msg string, fields ...Field) { r.add("error", msg, fields) }
func (r *Recorder) Debug(_ context.Context, msg string, fields ...Field) { r.add("debug", msg, fields) }
func (r *Recorder) Warn(_ context.Context, msg string, fields ...Field)  { r.add("warn", msg, fields) }
func (r *Recorder) Fatal(_ context.Context, msg string, fields ...Field) { r.add("fatal", msg, fields) }

// Named returns a child that records into the same buffer.
func (r *Recorder) Named(name string) Logger {
	child := *r
	if child.name != "" {
		name = child.name + "." + name
	}
	child.name = name
	return &child
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(*r.entries))
	copy(out, *r.entries)
	return out
}

// Level returns only the entries at the given level.
func (r *Recorder) Level(level string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
