package utils

import (
	"io"
	"log/slog"
)

// CloseWithLog closes closer and logs a close failure instead of returning
// it, for deferred cleanup where the primary error matters more.
func CloseWithLog(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close resource", "error", err)
	}
}
