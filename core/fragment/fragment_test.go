package fragment

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// texts drains seq and returns the text of every fragment, failing the test
// on any producer error.
func texts(t *testing.T, seq Sequence) []string {
	t.Helper()
	var got []string
	for frag, err := range All(seq) {
		if err != nil {
			t.Fatalf("unexpected sequence error: %v", err)
		}
		got = append(got, frag.Text())
	}
	return got
}

func TestStream_YieldsInOrderThenEOF(t *testing.T) {
	stream := FromStrings("a", "b", "", "c")

	got := texts(t, stream)
	want := []string{"a", "b", "", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fragments mismatch (-want +got):\n%s", diff)
	}
	if stream.Pulled() != 4 {
		t.Errorf("expected 4 pulled fragments, got %d", stream.Pulled())
	}
	if !stream.Exhausted() {
		t.Error("expected stream to be exhausted")
	}
	if _, err := stream.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after exhaustion, got %v", err)
	}
}

// TestStream_SecondIterationYieldsNothing verifies forward-only semantics:
// a drained stream is not restartable.
func TestStream_SecondIterationYieldsNothing(t *testing.T) {
	stream := FromStrings("x", "y")
	_ = texts(t, stream)

	if got := texts(t, stream); len(got) != 0 {
		t.Errorf("expected no fragments on second iteration, got %v", got)
	}
}

func TestStream_ProducerStartsLazily(t *testing.T) {
	started := false
	stream := NewStream(func(yield func(string, error) bool) {
		started = true
		yield("only", nil)
	})
	defer stream.Close()

	if started {
		t.Fatal("producer started before the first Next call")
	}
	frag, err := stream.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !started || frag.Text() != "only" {
		t.Errorf("expected producer to start and yield %q, got %q", "only", frag.Text())
	}
}

func TestStream_PropagatesProducerErrorUnchanged(t *testing.T) {
	errBoom := errors.New("connection reset")
	stream := NewStream(func(yield func(string, error) bool) {
		if !yield("partial", nil) {
			return
		}
		yield("", errBoom)
	})
	defer stream.Close()

	if frag, err := stream.Next(); err != nil || frag.Text() != "partial" {
		t.Fatalf("expected first fragment %q, got %q (err %v)", "partial", frag.Text(), err)
	}
	if _, err := stream.Next(); err != errBoom {
		t.Fatalf("expected producer error to be returned as is, got %v", err)
	}
	if _, err := stream.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF once the producer returned, got %v", err)
	}
}

func TestStream_CloseStopsProducer(t *testing.T) {
	released := false
	stream := NewStream(func(yield func(string, error) bool) {
		defer func() { released = true }()
		for {
			if !yield("tick", nil) {
				return
			}
		}
	})

	for range 3 {
		if _, err := stream.Next(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	stream.Close()
	stream.Close()

	if !released {
		t.Error("expected producer to be released by Close")
	}
	if _, err := stream.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after Close, got %v", err)
	}
}

func TestAll_BreakThenResume(t *testing.T) {
	stream := FromStrings("one", "two", "three", "four")

	var first []string
	for frag, err := range stream.All() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first = append(first, frag.Text())
		if len(first) == 2 {
			break
		}
	}

	rest := texts(t, stream)
	if diff := cmp.Diff([]string{"one", "two"}, first); diff != "" {
		t.Errorf("first loop mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"three", "four"}, rest); diff != "" {
		t.Errorf("resumed loop mismatch (-want +got):\n%s", diff)
	}
}

// TestReplay_CompletenessAtEverySplit checks the round-trip law: consuming
// k fragments, then replaying their concatenation ahead of the remainder,
// reproduces the original text for every k.
func TestReplay_CompletenessAtEverySplit(t *testing.T) {
	parts := []string{"Here ", "is ", "", "`code`", " and ", "{\"a\":1}", "\n"}
	want := strings.Join(parts, "")

	for k := 0; k <= len(parts); k++ {
		stream := FromStrings(parts...)
		var consumed strings.Builder
		for i := 0; i < k; i++ {
			frag, err := stream.Next()
			if err != nil {
				t.Fatalf("k=%d: unexpected error: %v", k, err)
			}
			consumed.WriteString(frag.Text())
		}

		replay := NewReplay(stream)
		replay.SetFirstFragment(consumed.String())

		got := texts(t, replay)
		if strings.Join(got, "") != want {
			t.Errorf("k=%d: expected %q, got %q", k, want, strings.Join(got, ""))
		}
		if len(got) != len(parts)-k+1 {
			t.Errorf("k=%d: expected %d fragments, got %d", k, len(parts)-k+1, len(got))
		}
	}
}

func TestReplay_EmptyPrefixStillEmitted(t *testing.T) {
	replay := NewReplay(FromStrings("a", "b"))
	replay.SetFirstFragment("")

	got := texts(t, replay)
	if diff := cmp.Diff([]string{"", "a", "b"}, got); diff != "" {
		t.Errorf("fragments mismatch (-want +got):\n%s", diff)
	}
}

func TestReplay_ExhaustedRemainingYieldsOnlyPrefix(t *testing.T) {
	stream := FromStrings("all", " of ", "it")
	full, err := Collect(stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	replay := NewReplay(stream)
	replay.SetFirstFragment(full)

	got := texts(t, replay)
	if diff := cmp.Diff([]string{"all of it"}, got); diff != "" {
		t.Errorf("fragments mismatch (-want +got):\n%s", diff)
	}
	if got := texts(t, replay); len(got) != 0 {
		t.Errorf("expected replay to be exhausted, got %v", got)
	}
}

func TestReplay_DrainsWrappedSequence(t *testing.T) {
	stream := FromStrings("p", "q", "r")
	replay := NewReplay(stream)
	replay.SetFirstFragment("prefix")
	_ = texts(t, replay)

	if !stream.Exhausted() {
		t.Error("expected wrapped stream to be exhausted")
	}
}

func TestReplay_ForwardsErrorUnchanged(t *testing.T) {
	errUpstream := errors.New("upstream failed")
	stream := NewStream(func(yield func(string, error) bool) {
		yield("", errUpstream)
	})
	replay := NewReplay(stream)
	replay.SetFirstFragment("seen")
	defer replay.Close()

	var got []string
	var gotErr error
	for frag, err := range replay.All() {
		if err != nil {
			gotErr = err
			continue
		}
		got = append(got, frag.Text())
	}

	if gotErr != errUpstream {
		t.Errorf("expected upstream error, got %v", gotErr)
	}
	if diff := cmp.Diff([]string{"seen"}, got); diff != "" {
		t.Errorf("fragments mismatch (-want +got):\n%s", diff)
	}
}

// TestReplay_NestedReplay verifies a replay can itself be partially read and
// wrapped again, as happens when a decoder hands its result to an extractor.
func TestReplay_NestedReplay(t *testing.T) {
	inner := NewReplay(FromStrings("2", "3"))
	inner.SetFirstFragment("1")

	first, err := inner.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outer := NewReplay(inner)
	outer.SetFirstFragment(first.Text())

	full, err := Collect(outer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full != "123" {
		t.Errorf("expected %q, got %q", "123", full)
	}
}

func TestDrainInto_CountsFragments(t *testing.T) {
	var builder strings.Builder
	builder.WriteString(">")

	count, err := DrainInto(FromStrings("a", "", "b"), &builder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 fragments, got %d", count)
	}
	if builder.String() != ">ab" {
		t.Errorf("expected %q, got %q", ">ab", builder.String())
	}
}
