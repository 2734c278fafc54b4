// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Scoring parameters live in Quality, an immutable value copied per pass.
// - External errors are wrapped with this package's sentinel errors.
package config

// Settings backends understood by the settings adapter.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxBatchSize caps the number of items accepted by one scoring request.
	MaxBatchSize int `koanf:"max_batch_size"`

	// SettingsBackend selects where user settings persist: memory, sqlite or redis.
	SettingsBackend string `koanf:"settings_backend"`

	// SettingsDSN is the sqlite database path when SettingsBackend is sqlite.
	SettingsDSN string `koanf:"settings_dsn"`

	// RedisAddr and RedisKey locate the settings hash when SettingsBackend is redis.
	RedisAddr string `koanf:"redis_addr"`
	RedisKey  string `koanf:"redis_key"`

	// Quality holds the built-in scoring defaults, before user settings apply.
	Quality Quality `koanf:"quality"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		MaxBatchSize:    1_000,
		SettingsBackend: BackendMemory,
		SettingsDSN:     "qscore.db",
		RedisAddr:       "localhost:6379",
		RedisKey:        "qscore:settings",
		Quality:         DefaultQuality(),
	}
	return c
}
