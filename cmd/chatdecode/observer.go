package main

import (
	"fmt"
	"log/slog"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"

	"github.com/leofalp/chatdecode/providers/observability"
	"github.com/leofalp/chatdecode/providers/observability/slogobs"
	"github.com/leofalp/chatdecode/providers/observability/zapobs"
)

const (
	loggerSlog = "slog"
	loggerZap  = "zap"
)

// newObserver builds the provider selected by --logger. The returned func
// flushes buffered entries and is never nil.
func newObserver(env *environment, cmd *cli.Command) (observability.Provider, func(), error) {
	var level *slog.Level
	if raw := cmd.String("log-level"); raw != "" {
		parsed, err := slogobs.ParseLogLevel(raw)
		if err != nil {
			return nil, nil, err
		}
		level = &parsed
	}

	switch cmd.String("logger") {
	case loggerSlog, "":
		opts := []slogobs.Option{slogobs.WithOutput(env.stderr)}
		if level != nil {
			opts = append(opts, slogobs.WithLevel(*level))
		}
		if format := cmd.String("log-format"); format != "" {
			opts = append(opts, slogobs.WithFormat(slogobs.ParseFormat(format)))
		}
		return slogobs.New(opts...), func() {}, nil

	case loggerZap:
		var opts []zapobs.Option
		if level != nil {
			opts = append(opts, zapobs.WithLevel(zapLevel(*level)))
		}
		observer, err := zapobs.New(opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("building zap logger: %w", err)
		}
		return observer, func() { _ = observer.Sync() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown logger %q (want slog or zap)", cmd.String("logger"))
	}
}

// zapLevel maps a slog level onto zap; TRACE collapses into DEBUG.
func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level < slog.LevelInfo:
		return zapcore.DebugLevel
	case level < slog.LevelWarn:
		return zapcore.InfoLevel
	case level < slog.LevelError:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
