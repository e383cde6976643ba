package lookup

import (
	"context"
	"fmt"
	"os"

	"biovalid/pkg/domain"
)

// Store persists resolved cache entries across process restarts so
// repeated validations do not re-pay external-service cost. Entries are
// append-only; the engine never depends on a store being present.
type Store interface {
	LoadTerms(ctx context.Context) (map[string]domain.TermResult, error)
	LoadSamples(ctx context.Context) (map[string]domain.ExternalSample, error)
	PutTerm(ctx context.Context, key string, res domain.TermResult) error
	PutSample(ctx context.Context, key string, res domain.ExternalSample) error
	Close() error
}

// OpenStore selects a cache store implementation using environment
// variables.
//
//	BIOVALID_CACHE_DRIVER: off|sqlite|postgres (default off)
//	BIOVALID_CACHE_SQLITE_PATH: database path when driver=sqlite
//	BIOVALID_CACHE_POSTGRES_DSN: connection string when driver=postgres
//
// An empty or "off" driver returns (nil, nil): the cache then lives only
// for the process lifetime.
func OpenStore(ctx context.Context) (Store, error) {
	driver := os.Getenv("BIOVALID_CACHE_DRIVER")
	switch driver {
	case "", "off":
		return nil, nil
	case "sqlite":
		return NewSQLiteStore(os.Getenv("BIOVALID_CACHE_SQLITE_PATH"))
	case "postgres":
		return NewPostgresStore(ctx, os.Getenv("BIOVALID_CACHE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown cache driver %s", driver)
	}
}
