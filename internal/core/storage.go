package core

import (
	"fmt"
	"os"

	"accreditex/internal/kv"
	kvmemory "accreditex/internal/kv/memory"
	kvpostgres "accreditex/internal/kv/postgres"
	kvsqlite "accreditex/internal/kv/sqlite"
)

// OpenKVStore selects a key-value backend using environment variables.
// Defaults to sqlite when unset.
//
//	ACCREDITEX_KV_DRIVER: memory|sqlite|postgres (default sqlite)
//	ACCREDITEX_KV_SQLITE_PATH: path to sqlite file (default ./accreditex.db)
//	ACCREDITEX_KV_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenKVStore() (kv.Store, error) {
	driver := os.Getenv("ACCREDITEX_KV_DRIVER")
	if driver == "" {
		driver = string(kv.DriverSQLite)
	}
	switch kv.Driver(driver) {
	case kv.DriverMemory:
		return kvmemory.New(), nil
	case kv.DriverSQLite:
		return kvsqlite.New(os.Getenv("ACCREDITEX_KV_SQLITE_PATH"))
	case kv.DriverPostgres:
		return kvpostgres.New(os.Getenv("ACCREDITEX_KV_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown kv driver %s", driver)
	}
}
