package slogobs

import (
	"os"
	"strings"
)

// Format represents the output format for logs.
type Format string

const (
	// FormatCompact is a single line with JSON encoded attributes.
	// Example: 2026-10-14 10:40:35 DEBUG Span started -> {"span":"chatdecode.decode"}
	FormatCompact Format = "compact"

	// FormatText is the standard slog key=value text format.
	FormatText Format = "text"

	// FormatJSON is the standard slog JSON format, for log aggregation.
	FormatJSON Format = "json"
)

// ParseFormat parses a format name. Unknown names yield FormatCompact.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "text":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// GetFormatFromEnv reads CHATDECODE_LOG_FORMAT, then LOG_FORMAT.
// If neither is set, it returns FormatCompact.
func GetFormatFromEnv() Format {
	if format := os.Getenv("CHATDECODE_LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return FormatCompact
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}
