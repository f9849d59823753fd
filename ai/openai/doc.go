// Package openai implements the ai interfaces against OpenAI-compatible
// APIs via langchaingo. It works with api.openai.com as well as local
// servers (Ollama, LocalAI, vLLM) that speak the same protocol.
package openai
