// Package zapobs provides an observability.Provider backed by go.uber.org/zap,
// for deployments that already ship zap's production JSON encoder.
package zapobs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/leofalp/chatdecode/providers/observability"
)

// Observer implements observability.Provider with a zap.Logger.
type Observer struct {
	logger   *zap.Logger
	mu       sync.Mutex
	counters map[string]*zapCounter
}

var _ observability.Provider = (*Observer)(nil)

// Option configures New.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	level       zapcore.Level
	development bool
}

// WithLogger uses logger as is.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLevel sets the minimum level of the built logger.
func WithLevel(level zapcore.Level) Option {
	return func(o *options) { o.level = level }
}

// WithDevelopment switches to zap's console encoder and development defaults.
func WithDevelopment(enabled bool) Option {
	return func(o *options) { o.development = enabled }
}

// New builds an Observer. Without WithLogger it builds a logger from zap's
// production (or development) configuration at the requested level.
func New(opts ...Option) (*Observer, error) {
	cfg := options{level: zapcore.InfoLevel}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.logger
	if logger == nil {
		config := zap.NewProductionConfig()
		if cfg.development {
			config = zap.NewDevelopmentConfig()
		}
		config.Level = zap.NewAtomicLevelAt(cfg.level)
		built, err := config.Build()
		if err != nil {
			return nil, err
		}
		logger = built
	}

	return &Observer{logger: logger, counters: make(map[string]*zapCounter)}, nil
}

// Sync flushes buffered log entries.
func (o *Observer) Sync() error {
	return o.logger.Sync()
}

func fields(attrs []observability.Attribute, extra ...zap.Field) []zap.Field {
	out := make([]zap.Field, 0, len(attrs)+len(extra))
	out = append(out, extra...)
	for _, attr := range attrs {
		out = append(out, zap.Any(attr.Key, attr.Value))
	}
	return out
}

// --- TRACING ---

func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	span := &zapSpan{
		logger: o.logger.With(zap.String("span", name)),
		start:  time.Now(),
		attrs:  append([]observability.Attribute{}, attrs...),
	}
	span.logger.Debug("Span started", fields(attrs)...)
	return observability.ContextWithSpan(ctx, span), span
}

type zapSpan struct {
	logger *zap.Logger
	start  time.Time
	mu     sync.Mutex
	attrs  []observability.Attribute
}

func (s *zapSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug("Span ended", fields(s.attrs, zap.Duration("duration", time.Since(s.start)))...)
}

func (s *zapSpan) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *zapSpan) SetStatus(code observability.StatusCode, description string) {
	status := "unset"
	switch code {
	case observability.StatusOK:
		status = "ok"
	case observability.StatusError:
		status = "error"
	}
	s.SetAttributes(observability.String(observability.AttrStatus, status))
	if description != "" {
		s.SetAttributes(observability.String(observability.AttrStatusDescription, description))
	}
}

func (s *zapSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.SetAttributes(observability.Error(err))
	s.logger.Error("Span error", zap.Error(err))
}

func (s *zapSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.logger.Debug("Span event", fields(attrs, zap.String("event", name))...)
}

// --- METRICS ---

func (o *Observer) Counter(name string) observability.Counter {
	o.mu.Lock()
	defer o.mu.Unlock()
	counter, ok := o.counters[name]
	if !ok {
		counter = &zapCounter{name: name, logger: o.logger}
		o.counters[name] = counter
	}
	return counter
}

func (o *Observer) Histogram(name string) observability.Histogram {
	return &zapHistogram{name: name, logger: o.logger}
}

type zapCounter struct {
	name   string
	logger *zap.Logger
	value  atomic.Int64
}

func (c *zapCounter) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	current := c.value.Add(value)
	c.logger.Debug("Counter", fields(attrs,
		zap.String("metric", c.name),
		zap.Int64("value", current),
		zap.Int64("delta", value),
	)...)
}

type zapHistogram struct {
	name   string
	logger *zap.Logger
}

func (h *zapHistogram) Record(_ context.Context, value float64, attrs ...observability.Attribute) {
	h.logger.Debug("Histogram", fields(attrs,
		zap.String("metric", h.name),
		zap.Float64("value", value),
	)...)
}

// --- LOGGING ---

// Trace maps to zap's DEBUG level; zap has nothing finer.
func (o *Observer) Trace(_ context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.Debug(msg, fields(attrs, zap.Bool("trace", true))...)
}

func (o *Observer) Debug(_ context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.Debug(msg, fields(attrs)...)
}

func (o *Observer) Info(_ context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.Info(msg, fields(attrs)...)
}

func (o *Observer) Warn(_ context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.Warn(msg, fields(attrs)...)
}

func (o *Observer) Error(_ context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.Error(msg, fields(attrs)...)
}
