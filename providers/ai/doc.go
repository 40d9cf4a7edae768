// Package ai defines the provider-agnostic shape of model output consumed by
// the decoders: a complete [ChatResponse], or a [ChatStream] of incremental
// [StreamEvent] deltas. Provider packages such as providers/ai/openai are responsible for
// mapping their wire formats onto these types.
//
// [ChatStream.Texts] exposes only the content deltas of a stream, which is
// the fragment source used by the core/fragment and core/payload packages.
package ai
