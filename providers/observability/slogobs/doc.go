// Package slogobs provides an observability.Provider backed by log/slog.
//
// Spans are logged at start and end, counters and histograms are kept in
// memory and logged on every update, and log calls map onto slog levels
// (with an extra TRACE level below DEBUG). The output format is compact,
// text or json; format and level default to the CHATDECODE_LOG_FORMAT and
// CHATDECODE_LOG_LEVEL environment variables.
package slogobs
