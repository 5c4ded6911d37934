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


// Package postgres implements artwork storage over PostgreSQL with the
// pgvector extension.
//
// The store expects an artwork table shaped like:
//
//	CREATE TABLE artwork (
//	    id                UUID PRIMARY KEY,
//	    object_id         BIGINT NOT NULL UNIQUE,
//	    title             TEXT,
//	    artist            TEXT,
//	    date              TEXT,
//	    medium            TEXT,
//	    culture           TEXT,
//	    department        TEXT,
//	    credit_line       TEXT,
//	    description       TEXT,
//	    primary_image     TEXT,
//	    image_caption     TEXT,
//	    embedding_summary TEXT,
//	    embedding         vector(3072),
//	    processed_at      TIMESTAMPTZ,
//	    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//
// Enrichment writes are guarded UPDATEs of the form
// "SET col = ... WHERE id = ... AND col IS NULL", so a row is enriched at
// most once per stage no matter how many runs race over it. A save that
// finds the column already written reports storage.ErrAlreadyEnriched.
package postgres
