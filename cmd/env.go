package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/config"
	"github.com/sells-group/proforma/internal/db"
	"github.com/sells-group/proforma/internal/notify"
	"github.com/sells-group/proforma/internal/project"
	"github.com/sells-group/proforma/internal/report"
	"github.com/sells-group/proforma/internal/resilience"
	"github.com/sells-group/proforma/internal/store"
)

// projectEnv is an opened project with the store and bus behind it.
type projectEnv struct {
	KV      store.KV
	Bus     *notify.Bus
	Project *project.Project
}

// Close flushes pending events and releases the store.
func (e *projectEnv) Close() {
	if e.Bus != nil {
		e.Bus.Close()
	}
	if e.KV != nil {
		if err := e.KV.Close(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}
}

func storeConfig(c *config.Config) store.Config {
	return store.Config{
		Driver:      c.Store.Driver,
		DatabaseURL: c.Store.DatabaseURL,
		KeyPrefix:   c.Store.KeyPrefix,
		Pool:        db.PoolConfig{MaxConns: c.Store.MaxConns, MinConns: c.Store.MinConns},
	}
}

func retryConfig(c *config.Config) resilience.RetryConfig {
	return resilience.FromRetryConfig(c.Retry.MaxAttempts, c.Retry.InitialBackoffMs)
}

// openStore opens and migrates the configured backend.
func openStore(ctx context.Context, c *config.Config) (store.KV, error) {
	if err := c.Validate("cli"); err != nil {
		return nil, err
	}
	kv, err := store.Open(ctx, storeConfig(c))
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := kv.Migrate(ctx); err != nil {
		_ = kv.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return store.WithRetry(kv, retryConfig(c)), nil
}

// initProject loads the project from the configured store.
func initProject(ctx context.Context) (*projectEnv, error) {
	kv, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bus := notify.New(time.Duration(cfg.Notify.DebounceMs) * time.Millisecond)
	for _, name := range notify.AllEvents {
		bus.Subscribe(name, func(ev notify.Event) {
			zap.L().Debug("project changed", zap.String("event", ev.Name))
		})
	}

	p, err := project.Open(ctx, project.Options{
		KV:        kv,
		KeyPrefix: cfg.Store.KeyPrefix,
		Bus:       bus,
	})
	if err != nil {
		bus.Close()
		_ = kv.Close()
		return nil, eris.Wrap(err, "open project")
	}
	return &projectEnv{KV: kv, Bus: bus, Project: p}, nil
}

// initSink builds the export destination named by export.driver.
func initSink(ctx context.Context) (report.Sink, error) {
	if err := cfg.Validate("export"); err != nil {
		return nil, err
	}
	if cfg.Export.Driver == "s3" {
		breaker := resilience.FromBreakerConfig(cfg.Retry.BreakerThreshold, cfg.Retry.BreakerResetSecs)
		return report.NewS3Sink(ctx, report.S3Config{
			Bucket:    cfg.Export.S3Bucket,
			Prefix:    cfg.Export.S3Prefix,
			Region:    cfg.Export.S3Region,
			Endpoint:  cfg.Export.S3Endpoint,
			PathStyle: cfg.Export.S3PathStyle,
			Breaker:   breaker,
		}, retryConfig(cfg))
	}
	return report.FileSink{Dir: cfg.Export.Dir}, nil
}
