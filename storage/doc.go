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


// Package storage provides the storage abstraction layer for curio.
//
// It defines small role interfaces over the artwork catalog so the pipeline,
// the dataset loader, the search command, and the preflight checks each
// depend only on the operations they use:
//
//   - RecordStore: stage candidate selection and conditional enrichment writes
//   - CatalogWriter: bulk catalog ingestion
//   - SimilaritySearcher: nearest-neighbor lookup over embeddings
//   - StatusReporter: per-stage progress counts
//
// The conditional writes are the idempotency mechanism of the whole system:
// an UPDATE guarded by "column IS NULL" can never overwrite an enrichment,
// so re-running a stage after a crash or partial failure is always safe.
//
// Public constructors return interface-friendly concrete types; storage/postgres
// implements all four roles over PostgreSQL with pgvector.
package storage
