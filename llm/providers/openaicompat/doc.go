// Package openaicompat provides a shared base implementation for all
// OpenAI-compatible LLM providers.
//
// OpenAI itself, Groq, Ollama, Azure OpenAI and most third-party relays
// speak the same Chat Completions format. Instead of duplicating the HTTP
// handling, request conversion, and status-code mapping in each provider,
// they embed openaicompat.Provider and only override what differs:
//
//   - Provider name and default model
//   - Base URL and endpoint paths
//   - Custom headers (Azure's api-key, OpenAI's organization)
package openaicompat
