// Package fragment models the incremental text output of a language model as
// a forward-only, single-pass sequence of [Fragment] values.
//
// A [Stream] wraps a producer (typically the content deltas of a streaming
// chat response) and can be partially consumed by one reader and then handed
// to another. When a reader has already pulled some fragments and wants to
// give an equivalent sequence to someone else, it wraps the remainder in a
// [Replay] seeded with everything consumed so far: the replay yields that
// prefix as one synthetic fragment and then forwards the rest unchanged.
//
// Sequences are owned by one consumer at a time. They are not safe for
// concurrent use and do no locking.
package fragment
