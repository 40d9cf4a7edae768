package fragment

import (
	"io"
	"iter"
	"strings"
)

// Fragment is one immutable piece of model output, in emission order.
type Fragment struct {
	text string
}

// New returns a Fragment carrying text. Empty text is a valid fragment.
func New(text string) Fragment {
	return Fragment{text: text}
}

// Text returns the fragment's text.
func (f Fragment) Text() string {
	return f.text
}

// Sequence is a forward-only, single-pass source of fragments.
//
// Next returns the next fragment, or io.EOF once the sequence is exhausted.
// Any other error comes from the underlying producer and is returned as is.
// Close releases the producer without draining it; calling Next after Close
// returns io.EOF.
type Sequence interface {
	Next() (Fragment, error)
	Close()
}

// All adapts seq for range-over-func loops. The loop ends at exhaustion or
// after the first producer error has been yielded. Breaking out of the loop
// leaves the sequence positioned after the last fragment seen, so ranging
// over All again resumes from there.
func All(seq Sequence) iter.Seq2[Fragment, error] {
	return func(yield func(Fragment, error) bool) {
		for {
			frag, err := seq.Next()
			if err == io.EOF {
				return
			}
			if !yield(frag, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains seq and returns the concatenated text of every remaining
// fragment. On a producer error it returns the text gathered so far along
// with the error.
func Collect(seq Sequence) (string, error) {
	var builder strings.Builder
	_, err := DrainInto(seq, &builder)
	return builder.String(), err
}

// DrainInto appends the text of every remaining fragment of seq to builder
// and reports how many fragments were consumed.
func DrainInto(seq Sequence, builder *strings.Builder) (int, error) {
	count := 0
	for {
		frag, err := seq.Next()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		count++
		builder.WriteString(frag.Text())
	}
}
