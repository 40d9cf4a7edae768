// Package openai decodes recorded OpenAI chat-completions bodies into the
// provider-neutral types of package ai.
//
// [DecodeStream] reads a text/event-stream body (stream=true), one
// chat.completion.chunk per "data:" event up to the [DONE] sentinel, and
// presents it as an [ai.ChatStream]. [DecodeResponse] reads a complete
// chat.completion body. Both accept any OpenAI-compatible server's output
// (OpenAI, Azure, Ollama, OpenRouter), which share the chunk schema.
package openai
