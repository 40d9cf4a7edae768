// Package obstest provides an in-memory observability.Provider for tests.
package obstest

import (
	"context"
	"sync"

	"github.com/leofalp/chatdecode/providers/observability"
)

// Recorder captures spans, metrics and log messages.
type Recorder struct {
	mu       sync.Mutex
	spans    []*Span
	counters map[string]int64
	samples  map[string][]float64
	logs     []Log
}

// Log is one captured log call.
type Log struct {
	Level   string
	Message string
	Attrs   []observability.Attribute
}

// Event is one span event.
type Event struct {
	Name  string
	Attrs []observability.Attribute
}

var _ observability.Provider = (*Recorder)(nil)

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{
		counters: make(map[string]int64),
		samples:  make(map[string][]float64),
	}
}

// Spans returns the spans started so far.
func (r *Recorder) Spans() []*Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Span(nil), r.spans...)
}

// CounterValue returns the cumulative value of a counter.
func (r *Recorder) CounterValue(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[name]
}

// Samples returns the values recorded by a histogram.
func (r *Recorder) Samples(name string) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.samples[name]...)
}

// Logs returns the captured log calls.
func (r *Recorder) Logs() []Log {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Log(nil), r.logs...)
}

func (r *Recorder) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	span := &Span{Name: name}
	span.SetAttributes(attrs...)
	r.mu.Lock()
	r.spans = append(r.spans, span)
	r.mu.Unlock()
	return observability.ContextWithSpan(ctx, span), span
}

func (r *Recorder) Counter(name string) observability.Counter {
	return counter{recorder: r, name: name}
}

func (r *Recorder) Histogram(name string) observability.Histogram {
	return histogram{recorder: r, name: name}
}

func (r *Recorder) Trace(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("TRACE", msg, attrs)
}

func (r *Recorder) Debug(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("DEBUG", msg, attrs)
}

func (r *Recorder) Info(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("INFO", msg, attrs)
}

func (r *Recorder) Warn(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("WARN", msg, attrs)
}

func (r *Recorder) Error(_ context.Context, msg string, attrs ...observability.Attribute) {
	r.log("ERROR", msg, attrs)
}

func (r *Recorder) log(level, msg string, attrs []observability.Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, Log{Level: level, Message: msg, Attrs: attrs})
}

type counter struct {
	recorder *Recorder
	name     string
}

func (c counter) Add(_ context.Context, value int64, _ ...observability.Attribute) {
	c.recorder.mu.Lock()
	defer c.recorder.mu.Unlock()
	c.recorder.counters[c.name] += value
}

type histogram struct {
	recorder *Recorder
	name     string
}

func (h histogram) Record(_ context.Context, value float64, _ ...observability.Attribute) {
	h.recorder.mu.Lock()
	defer h.recorder.mu.Unlock()
	h.recorder.samples[h.name] = append(h.recorder.samples[h.name], value)
}

// Span is a captured span.
type Span struct {
	Name string

	mu     sync.Mutex
	attrs  map[string]any
	events []Event
	status observability.StatusCode
	errs   []error
	ended  bool
}

func (s *Span) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
}

func (s *Span) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attrs == nil {
		s.attrs = make(map[string]any)
	}
	for _, attr := range attrs {
		s.attrs[attr.Key] = attr.Value
	}
}

func (s *Span) SetStatus(code observability.StatusCode, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

func (s *Span) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *Span) AddEvent(name string, attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{Name: name, Attrs: attrs})
}

// Attr returns the last value set for key.
func (s *Span) Attr(key string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attrs[key]
}

// EventNames returns the names of the span's events in order.
func (s *Span) EventNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.events))
	for i, event := range s.events {
		names[i] = event.Name
	}
	return names
}

// Status returns the last status set.
func (s *Span) Status() observability.StatusCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Errors returns the recorded errors.
func (s *Span) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errs...)
}

// Ended reports whether End was called.
func (s *Span) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}
