// Package ollama implements image captioning and summary generation against
// Ollama-compatible servers through langchaingo.
//
// The Captioner downloads the artwork image itself (with its own, shorter
// timeout) and sends it to a multimodal model as binary content. The
// Summarizer renders the curator prompt from catalog metadata and generates
// plain text. Both construct their clients from ai.Config and return
// interface types.
package ollama
