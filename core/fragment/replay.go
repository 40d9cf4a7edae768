package fragment

import "iter"

// Replay is a Sequence that re-exposes text an earlier reader already
// consumed. It yields the saved prefix as a single synthetic first fragment
// and then forwards every fragment of the remaining sequence unchanged.
//
// Replay owns the prefix but not the remaining sequence: draining a Replay
// drains the sequence it wraps, and closing it closes that sequence too.
type Replay struct {
	first     string
	emitted   bool
	remaining Sequence
}

var _ Sequence = (*Replay)(nil)

// NewReplay wraps the not yet consumed part of a sequence. remaining may
// already be exhausted, in which case the replay yields only its prefix.
func NewReplay(remaining Sequence) *Replay {
	return &Replay{remaining: remaining}
}

// SetFirstFragment stores text as the synthetic first fragment. It must be
// called at most once and before the first call to Next.
func (r *Replay) SetFirstFragment(text string) {
	r.first = text
}

// Next returns the saved prefix on the first call, even when it is empty,
// and the fragments of the remaining sequence afterwards.
func (r *Replay) Next() (Fragment, error) {
	if !r.emitted {
		r.emitted = true
		return New(r.first), nil
	}
	return r.remaining.Next()
}

// Close releases the remaining sequence. A prefix that has not been
// emitted yet is discarded.
func (r *Replay) Close() {
	r.emitted = true
	r.remaining.Close()
}

// All returns a range-over-func view of the replay.
func (r *Replay) All() iter.Seq2[Fragment, error] {
	return All(r)
}
