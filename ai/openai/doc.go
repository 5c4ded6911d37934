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


// Package openai implements ai.Embedder against OpenAI-compatible embedding
// APIs through langchaingo.
//
// It works with api.openai.com as well as local OpenAI-compatible servers
// (Ollama's /v1 facade, vLLM, LocalAI); the configured host is normalized to
// carry the /v1 suffix. The embedder reports its configured dimensionality
// so callers can reject vectors of the wrong length before persisting them.
package openai
