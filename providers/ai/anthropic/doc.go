// Package anthropic reads recorded Anthropic Messages API output: complete
// message bodies and SSE transcripts of streamed messages.
//
// The stream lifecycle is
//
//	message_start → content_block_start → content_block_delta(s) →
//	content_block_stop → message_delta → message_stop
//
// Text deltas become content events, thinking deltas become reasoning
// events. Tool use blocks carry no text and are skipped.
package anthropic
