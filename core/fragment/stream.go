package fragment

import (
	"io"
	"iter"
)

// Stream is a Sequence backed by a lazily evaluated producer. The producer
// runs only as fragments are requested, and each produced text is seen once.
type Stream struct {
	next   func() (string, error, bool)
	stop   func()
	pulled int
	done   bool
}

var _ Sequence = (*Stream)(nil)

// NewStream wraps a producer of fragment texts. A producer that yields a
// non-nil error reports a mid-stream failure; the error is handed to the
// consumer by Next exactly as yielded.
//
// The producer is not started until the first call to Next. Callers must
// either drain the stream or Close it, since the producer may hold open
// resources such as an HTTP response body.
func NewStream(producer iter.Seq2[string, error]) *Stream {
	next, stop := iter.Pull2(producer)
	return &Stream{next: next, stop: stop}
}

// FromStrings returns a Stream that yields texts in order.
func FromStrings(texts ...string) *Stream {
	return NewStream(func(yield func(string, error) bool) {
		for _, text := range texts {
			if !yield(text, nil) {
				return
			}
		}
	})
}

// Next returns the next fragment, or io.EOF when the producer is exhausted.
func (s *Stream) Next() (Fragment, error) {
	if s.done {
		return Fragment{}, io.EOF
	}
	text, err, ok := s.next()
	if !ok {
		s.done = true
		s.stop()
		return Fragment{}, io.EOF
	}
	if err != nil {
		return Fragment{}, err
	}
	s.pulled++
	return New(text), nil
}

// Pulled reports how many fragments have been produced so far.
func (s *Stream) Pulled() int {
	return s.pulled
}

// Exhausted reports whether the producer has finished or the stream was closed.
func (s *Stream) Exhausted() bool {
	return s.done
}

// Close stops the producer. It is safe to call more than once.
func (s *Stream) Close() {
	s.done = true
	s.stop()
}

// All returns a range-over-func view of the remaining fragments.
func (s *Stream) All() iter.Seq2[Fragment, error] {
	return All(s)
}
