// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the external AI services Curio
// enriches artworks with.
//
// This package defines interfaces for the three transformer roles and the
// shared failure taxonomy. The pipeline depends on these abstractions rather
// than concrete clients, so stages can be tested without any service running.
//
// # Design
//
// The package is designed around three interfaces, one per pipeline stage:
//
//   - Captioner: image URL to literal visual description
//   - Summarizer: caption plus catalog metadata to curatorial prose
//   - Embedder: summary text to fixed-dimension vector
//
// # Implementation Packages
//
//   - ai/ollama: Captioner and Summarizer against Ollama-compatible servers
//   - ai/openai: Embedder against OpenAI-compatible embedding APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors (ollama.NewCaptioner, openai.NewEmbedder, ...) return
// interface types to enforce abstraction. Mock constructors return concrete
// types so tests can inject behavior and count calls.
//
// # Failure Classification
//
// ClassifyFailure maps transformer errors onto three retry classes:
// rate-limited failures back off exponentially, transient failures back off
// linearly, and everything else fails the record immediately. Client
// libraries mostly surface failures as status text, so classification is
// sentinel-first with string heuristics as the fallback.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithOllamaHost("http://gpu-box:11434"))
//	captioner, err := ollama.NewCaptioner(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	caption, err := captioner.CaptionImage(ctx, artwork.PrimaryImage)
package ai
