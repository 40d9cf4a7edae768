// Package payload defines the input and output shapes shared by the decoder
// and the code-block extractor.
//
// A [Payload] is one of exactly three variants:
//
//   - [Message]: a complete model response,
//   - [Text]: a plain string,
//   - [Stream]: an incremental [fragment.Sequence].
//
// Consumers dispatch with an explicit type switch and reject anything else
// with [ErrUnknownPayload]. [Result] carries what a consumer decided: the
// decoded JSON value, the extracted code, the echoed input, or a replay
// sequence that still streams every fragment already consumed.
package payload
