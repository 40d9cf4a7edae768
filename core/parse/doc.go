// Package parse extracts JSON documents from free-form model output.
//
// Models wrap JSON in prose, markdown fences, or schema-style envelopes. The
// extraction runs in layers:
//
//  1. [Candidates] scans for balanced {...} and [...] spans, skipping
//     brackets inside JSON string literals, and returns the non-overlapping
//     top-level spans in order.
//  2. [DecodeText] returns the first candidate that parses strictly, then
//     falls back to the interior of the first ```json fence.
//  3. [RepairText] does the same but runs candidates that fail strict
//     parsing through jsonrepair, and finally repairs the text from the
//     first opening bracket to the end, which recovers truncated output.
//
// "No JSON here" is reported as (nil, false), never as an error.
//
// [ParseAs] builds on the same layers to decode directly into a Go type,
// converting primitives with strconv and unwrapping {"type":..,"value":..}
// envelopes that models produce when they confuse a schema with data.
package parse
