package store

import (
	"context"

	"github.com/sells-group/proforma/internal/resilience"
)

// retryingKV retries transient backend failures.
type retryingKV struct {
	KV
	cfg resilience.RetryConfig
}

// WithRetry wraps kv so Get, Put and Delete retry transient errors.
func WithRetry(kv KV, cfg resilience.RetryConfig) KV {
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("store", "kv")
	}
	return &retryingKV{KV: kv, cfg: cfg}
}

type getResult struct {
	value []byte
	ok    bool
}

func (r *retryingKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := resilience.DoVal(ctx, r.cfg, func(ctx context.Context) (getResult, error) {
		v, ok, err := r.KV.Get(ctx, key)
		return getResult{value: v, ok: ok}, err
	})
	return res.value, res.ok, err
}

func (r *retryingKV) Put(ctx context.Context, key string, value []byte) error {
	return resilience.Do(ctx, r.cfg, func(ctx context.Context) error {
		return r.KV.Put(ctx, key, value)
	})
}

func (r *retryingKV) Delete(ctx context.Context, key string) error {
	return resilience.Do(ctx, r.cfg, func(ctx context.Context) error {
		return r.KV.Delete(ctx, key)
	})
}
