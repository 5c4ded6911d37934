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


package postgres

import (
	"context"
	"os"
	"testing"
)

// TestDatabaseEnv names the environment variable holding the DSN of a
// disposable test database. Integration tests skip when it is unset.
const TestDatabaseEnv = "CURIO_TEST_DATABASE_URL"

// testTableDDL mirrors the production schema with a small vector column so
// tests can use short hand-written embeddings.
const testTableDDL = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS artwork (
    id                UUID PRIMARY KEY,
    object_id         BIGINT NOT NULL UNIQUE,
    title             TEXT,
    artist            TEXT,
    date              TEXT,
    medium            TEXT,
    culture           TEXT,
    department        TEXT,
    credit_line       TEXT,
    description       TEXT,
    primary_image     TEXT,
    image_caption     TEXT,
    embedding_summary TEXT,
    embedding         vector(8),
    processed_at      TIMESTAMPTZ,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
TRUNCATE artwork`

// NewTestStore connects to the database named by TestDatabaseEnv, creates a
// fresh artwork table, and returns a store bound to it. Tests without a
// configured database are skipped rather than failed.
func NewTestStore(t *testing.T) *Store {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	dsn := os.Getenv(TestDatabaseEnv)
	if dsn == "" {
		t.Skipf("%s not set", TestDatabaseEnv)
	}

	store, err := New(dsn)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ctx := context.Background()
	conn, err := store.connect(ctx)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, testTableDDL); err != nil {
		t.Fatalf("Failed to prepare artwork table: %v", err)
	}

	return store
}
