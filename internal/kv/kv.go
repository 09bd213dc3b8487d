// Package kv defines the injected key-value persistence boundary used by the
// governance and outcome stores. Values are JSON-serialized payloads keyed by
// "{namespace}:{programId}" strings; drivers only move bytes.
package kv

import "context"

// Driver identifies a concrete key-value backend implementation.
type Driver string

const (
	// DriverMemory is the in-memory backend (tests / ephemeral).
	DriverMemory Driver = "memory"
	// DriverSQLite is the embedded sqlite file backend.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres is the PostgreSQL server backend.
	DriverPostgres Driver = "postgres"
)

// Store is a minimal abstraction over durable key-value backends. Get reports
// missing keys via the bool rather than an error so callers can fail open on
// absent data while still surfacing real storage faults.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Driver() Driver
}
