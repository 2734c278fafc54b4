// Package settings persists user settings as string key/value pairs.
//
// Keys are dotted configuration names such as "options.hide_threshold".
// Values are stored verbatim; decoding happens in the config provider.
package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/qscore/internal/config"
	"github.com/okian/qscore/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// Store provides read/write access to user settings.
type Store interface {
	// Get returns the value for key and whether it was set.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// All returns a copy of every stored setting.
	All(ctx context.Context) (map[string]string, error)
	// Close releases the underlying resources.
	Close() error
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GetOr returns the stored value for key, or def when it is unset.
func GetOr(ctx context.Context, s Store, key, def string) (string, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Open creates the store selected by cfg.SettingsBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.SettingsBackend {
	case config.BackendMemory:
		s = NewMemoryStore()
	case config.BackendSQLite:
		s, err = NewSQLStore(ctx, cfg.SettingsDSN)
	case config.BackendRedis:
		s, err = NewRedisStore(ctx, redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cfg.RedisKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.SettingsBackend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, cfg.SettingsBackend), nil
}

// instrumented records latency and write outcomes for a store.
type instrumented struct {
	Store
	backend string
}

// Instrument wraps s so its operations are reported to metrics.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	metrics.RecordSettingsQueryLatency(i.backend, op, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordErrorByComponent("settings", op)
	}
}

func (i *instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := i.Store.Get(ctx, key)
	i.observe("get", start, err)
	return v, ok, err
}

func (i *instrumented) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := i.Store.Set(ctx, key, value)
	i.observe("set", start, err)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.RecordSettingsWrite(i.backend, result)
	return err
}

func (i *instrumented) All(ctx context.Context) (map[string]string, error) {
	start := time.Now()
	m, err := i.Store.All(ctx)
	i.observe("all", start, err)
	return m, err
}

// Ping forwards to the wrapped store when it supports health checks.
func (i *instrumented) Ping(ctx context.Context) error {
	if p, ok := i.Store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
