package decode

import (
	"io"
	"strings"

	"github.com/leofalp/chatdecode/core/fragment"
)

// Markers are the literal substrings that flag accumulated text as likely
// JSON.
var Markers = []string{`{"`, `{\"`, `[{`, "```"}

// longestMarker is the length of the longest entry in Markers.
const longestMarker = 3

// HasMarker reports whether text contains any of Markers.
func HasMarker(text string) bool {
	for _, marker := range Markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// probe is the outcome of the bounded probing phase.
type probe struct {
	text      strings.Builder
	pulled    int
	candidate bool
}

// run pulls fragments from seq until a marker shows up in the accumulated
// text, budget fragments have been pulled, or seq is exhausted. Only the
// bytes that can contain a new marker occurrence are searched after each
// append.
func (p *probe) run(seq fragment.Sequence, budget int) error {
	for p.pulled < budget {
		frag, err := seq.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		p.pulled++

		before := p.text.Len()
		p.text.WriteString(frag.Text())
		if HasMarker(p.text.String()[max(0, before-(longestMarker-1)):]) {
			p.candidate = true
			return nil
		}
	}
	return nil
}

// drain appends every remaining fragment of seq and reports how many there
// were.
func (p *probe) drain(seq fragment.Sequence) (int, error) {
	return fragment.DrainInto(seq, &p.text)
}
