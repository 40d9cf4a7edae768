// Package decode decides whether model output carries JSON and decodes it.
//
// A complete [payload.Message] or [payload.Text] is decoded directly: the
// result is either the decoded document or the input echoed unchanged.
//
// A [payload.Stream] is probed. Up to the probe budget, fragments are pulled
// and appended to an accumulator, and probing stops at the first fragment
// after which the accumulator contains a JSON start marker ({", {\", [{ or a
// markdown fence). A flagged stream is then drained completely and decoded;
// streaming is given up in exchange for a complete document. When the stream
// is never flagged, or the drained text turns out not to be JSON, the result
// is a replay sequence that first yields everything consumed so far and then
// the rest of the original stream, so the caller can still stream it.
//
//	decoder := decode.New(decode.WithProbeBudget(5))
//	result, err := decoder.Decode(ctx, payload.FromChatStream(stream))
//	switch result.Kind {
//	case payload.KindStructured:
//	    use(result.Value)
//	case payload.KindReplay:
//	    for frag, err := range fragment.All(result.Sequence) { ... }
//	}
//
// The marker check is a heuristic. Valid JSON whose opening is not among the
// markers within the budget is handed back as a replay too.
package decode
