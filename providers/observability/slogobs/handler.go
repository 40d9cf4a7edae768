package slogobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// NewHandler builds the slog.Handler for format. Text and JSON formats use
// the standard library handlers with TRACE rendered by name.
func NewHandler(format Format, level slog.Level, output io.Writer) slog.Handler {
	options := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.LevelKey {
				if lvl, ok := attr.Value.Any().(slog.Level); ok {
					attr.Value = slog.StringValue(LogLevelString(lvl))
				}
			}
			return attr
		},
	}

	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(output, options)
	case FormatText:
		return slog.NewTextHandler(output, options)
	default:
		return &compactHandler{level: level, output: output, mu: &sync.Mutex{}}
	}
}

// compactHandler writes one line per record:
// "2006-01-02 15:04:05 LEVEL Message -> {"key":"value"}".
type compactHandler struct {
	level  slog.Level
	output io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	group  string
}

func (h *compactHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *compactHandler) Handle(_ context.Context, record slog.Record) error {
	buf := make([]byte, 0, 256)
	buf = append(buf, record.Time.Format("2006-01-02 15:04:05")...)
	buf = append(buf, fmt.Sprintf(" %5s ", LogLevelString(record.Level))...)
	buf = append(buf, record.Message...)

	attrs := make(map[string]any, len(h.attrs)+record.NumAttrs())
	for _, attr := range h.attrs {
		attrs[attr.Key] = attr.Value.Any()
	}
	record.Attrs(func(attr slog.Attr) bool {
		attrs[h.qualify(attr.Key)] = attr.Value.Any()
		return true
	})

	if len(attrs) > 0 {
		encoded, err := json.Marshal(attrs)
		if err != nil {
			buf = append(buf, " -> [json-error]"...)
		} else {
			buf = append(buf, " -> "...)
			buf = append(buf, encoded...)
		}
	}
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.output.Write(buf)
	return err
}

func (h *compactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	for _, attr := range attrs {
		attr.Key = h.qualify(attr.Key)
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

func (h *compactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = h.qualify(name)
	return &clone
}

func (h *compactHandler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}
