package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// fencedJSON matches the first ```json fence, non-greedy across lines.
var fencedJSON = regexp.MustCompile("(?s)```json(.*?)```")

// fenceTrim is the set of characters trimmed from a fence interior.
const fenceTrim = " \t\r\n\x00\x0B"

// DecodeText returns the first JSON document found in text. Candidates are
// tried in order and the first one that parses strictly wins; if none does,
// the interior of the first ```json fence is tried. It reports false when
// text holds no parseable JSON.
func DecodeText(text string) (any, bool) {
	for _, candidate := range Candidates(text) {
		if value, ok := strict(candidate); ok {
			return value, true
		}
	}
	if interior, ok := Fenced(text); ok {
		return strict(interior)
	}
	return nil, false
}

// RepairText behaves like DecodeText, except that candidates failing strict
// parsing are retried through jsonrepair. As a last resort the text from the
// first opening bracket onward is repaired, which recovers documents cut off
// mid-stream.
func RepairText(text string) (any, bool) {
	if value, ok := DecodeText(text); ok {
		return value, true
	}

	for _, candidate := range Candidates(text) {
		if value, ok := repaired(candidate); ok {
			return value, true
		}
	}
	if interior, ok := Fenced(text); ok {
		if value, ok := repaired(interior); ok {
			return value, true
		}
	}
	if rest, ok := tail(text); ok {
		return repaired(rest)
	}
	return nil, false
}

// Fenced returns the trimmed interior of the first ```json fence in text.
func Fenced(text string) (string, bool) {
	match := fencedJSON.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return strings.Trim(match[1], fenceTrim), true
}

func strict(doc string) (any, bool) {
	var value any
	if err := json.Unmarshal([]byte(doc), &value); err != nil {
		return nil, false
	}
	return value, true
}

func repaired(doc string) (any, bool) {
	fixed, err := jsonrepair.JSONRepair(doc)
	if err != nil {
		return nil, false
	}
	return strict(fixed)
}
