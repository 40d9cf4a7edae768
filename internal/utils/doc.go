// Package utils provides small shared helpers: an SSE scanner for recorded
// streaming bodies ([SSEScanner]), JSON and truncation helpers used in log
// output and CLI rendering, a wall-clock [Timer], and [CloseWithLog].
package utils
