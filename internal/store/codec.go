package store

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Load decodes the document at key into a T. A missing key, a backend error
// or a corrupt document all yield def; errors are logged, never returned.
func Load[T any](ctx context.Context, kv KV, key string, def T) T {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		zap.L().Warn("store: load failed, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		zap.L().Warn("store: corrupt document, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	return v
}

// Save encodes v as JSON and writes it under key. Failures are logged and
// returned so callers that care can surface them.
func Save[T any](ctx context.Context, kv KV, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		err = eris.Wrapf(err, "store: marshal %s", key)
		zap.L().Error("store: save failed", zap.String("key", key), zap.Error(err))
		return err
	}
	if err := kv.Put(ctx, key, raw); err != nil {
		zap.L().Error("store: save failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Key joins the namespace prefix and a collection name.
func Key(prefix, collection string) string {
	if prefix == "" {
		return collection
	}
	return prefix + ":" + collection
}
