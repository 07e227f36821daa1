// Package store persists the engine's collections as JSON documents under
// namespaced string keys.
package store

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/proforma/internal/db"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = eris.New("store: unknown driver")

// KV is a string-keyed document store. Get reports a missing key with
// ok=false and a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver      string        `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string        `yaml:"database_url" mapstructure:"database_url"`
	KeyPrefix   string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	Pool        db.PoolConfig `yaml:",inline" mapstructure:",squash"`
}

// Open returns the backend named by cfg.Driver. The caller runs Migrate.
func Open(ctx context.Context, cfg Config) (KV, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, &cfg.Pool)
	default:
		return nil, eris.Wrapf(ErrUnknownDriver, "%q", cfg.Driver)
	}
}
