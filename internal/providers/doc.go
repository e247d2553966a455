// Package providers contains streaming model service clients.
//
// Each provider implements the [Streamer] interface: submit one review
// prompt, relay text fragments in arrival order via a callback. Supported
// providers are Anthropic, OpenAI, and Ollama/LM Studio (OpenAI-compatible
// local servers).
//
// Classified service failures surface as [ModelError] with a machine code;
// rate limits and overload are retried with exponential backoff, but only
// before the first fragment has been delivered.
package providers
