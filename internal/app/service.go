// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/qscore/internal/adapters/settings"
	"github.com/okian/qscore/internal/config"
	"github.com/okian/qscore/internal/domain/model"
	"github.com/okian/qscore/internal/domain/ranking"
	"github.com/okian/qscore/internal/domain/scoring"
	"github.com/okian/qscore/internal/domain/stats"
	"github.com/okian/qscore/internal/domain/types"
	"github.com/okian/qscore/pkg/logger"
	"github.com/okian/qscore/pkg/metrics"
)

// Service scores item batches against the current settings snapshot.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     settings.Store
	provider  *config.Provider
	extractor stats.Extractor

	// Configuration
	base    config.Quality
	backend string
	clock   func() time.Time

	// State
	started     bool
	passes      int64
	itemsScored int64
	diagnostics int64
	lastPassID  string
	lastPassAt  time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSettingsStore sets the user settings store. The service closes it on Stop.
func WithSettingsStore(store settings.Store, backend string) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
			s.backend = backend
		}
	}
}

// WithBaseQuality sets the defaults that user settings are layered over.
func WithBaseQuality(q config.Quality) Option {
	return func(s *Service) {
		s.base = q
	}
}

// WithExtractor replaces the record extractor.
func WithExtractor(x stats.Extractor) Option {
	return func(s *Service) {
		if x != nil {
			s.extractor = x
		}
	}
}

// WithClock sets the time source used as "now" for each pass.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		base:      config.DefaultQuality(),
		extractor: stats.FieldExtractor{},
		clock:     time.Now,
		logger:    nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the settings store and configuration provider.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.store == nil {
		s.store = settings.Instrument(settings.NewMemoryStore(), config.BackendMemory)
		s.backend = config.BackendMemory
	}
	s.provider = config.NewProvider(s.base, s.store)

	s.started = true
	s.logger.Info(ctx, "quality scoring service started",
		logger.String("settingsBackend", s.backend),
		logger.String("defaultStrategy", string(s.base.Strategy)),
	)
	return nil
}

// Stop closes the settings store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing settings store failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(context.Background(), "quality scoring service stopped")
}

func (s *Service) components() (*config.Provider, settings.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.provider, s.store, nil
}

// Evaluate runs one scoring pass. Results are ranked when dir is set or auto
// sort is enabled, and filtered when hiding low quality items is enabled.
// Item failures become diagnostics; only a failing settings read is an error.
func (s *Service) Evaluate(ctx context.Context, items []stats.RawItem, dir model.Direction) (types.Evaluation, error) {
	start := time.Now()
	provider, _, err := s.components()
	if err != nil {
		return types.Evaluation{}, err
	}

	cfg, adjustments, err := provider.Snapshot(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "snapshot")
		return types.Evaluation{}, fmt.Errorf("settings snapshot: %w", err)
	}

	pass := scoring.RunPass(items, s.extractor, cfg, s.clock())

	ev := types.Evaluation{
		PassID:      uuid.NewString(),
		Strategy:    pass.Strategy,
		ShowScores:  cfg.Options.ShowScores,
		Results:     pass.Results,
		Diagnostics: append(scoring.ConfigDiagnostics(adjustments), pass.Diagnostics...),
	}

	if dir != "" || cfg.Options.AutoSort {
		list := ranking.Rank(pass.Results, dir)
		ev.Ranked = list.Entries
		ev.Direction = list.Direction
	}

	if cfg.Options.HideLowQuality {
		ev.HiddenAt = ranking.BelowMask(pass.Results, cfg.Options.HideThreshold)
		ev.Hidden = make([]string, 0, len(pass.Results))
		for i, r := range pass.Results {
			if ev.HiddenAt[i] {
				ev.Hidden = append(ev.Hidden, r.ItemID)
			}
		}
	}

	s.record(ctx, ev, time.Since(start))
	return ev, nil
}

// record logs and counts the outcome of a pass.
func (s *Service) record(ctx context.Context, ev types.Evaluation, took time.Duration) {
	strategy := string(ev.Strategy)
	for _, r := range ev.Results {
		metrics.RecordItemScored(strategy, string(r.Class))
		switch {
		case r.BelowFloor:
			metrics.RecordItemSuppressed("floor")
		case r.Suppressed:
			metrics.RecordItemSuppressed("significance")
		}
	}
	metrics.RecordItemsHidden(len(ev.Hidden))

	for _, d := range ev.Diagnostics {
		if d.Index < 0 {
			metrics.RecordConfigAdjustment(d.Kind)
		} else {
			metrics.RecordDiagnostic(d.Kind)
		}
		s.logger.Warn(ctx, "scoring diagnostic",
			logger.String("passId", ev.PassID),
			logger.String("kind", d.Kind),
			logger.String("itemId", d.ItemID),
			logger.Int("index", d.Index),
			logger.Error(d.Err),
		)
	}
	metrics.RecordPass(strategy, len(ev.Results), float64(took.Microseconds())/1000)

	s.logger.Debug(ctx, "scoring pass completed",
		logger.String("passId", ev.PassID),
		logger.String("strategy", strategy),
		logger.Int("items", len(ev.Results)),
		logger.Int("hidden", len(ev.Hidden)),
		logger.Int("diagnostics", len(ev.Diagnostics)),
		logger.Duration("tookMs", took),
	)

	s.mu.Lock()
	s.passes++
	s.itemsScored += int64(len(ev.Results))
	s.diagnostics += int64(len(ev.Diagnostics))
	s.lastPassID = ev.PassID
	s.lastPassAt = s.clock()
	s.mu.Unlock()
}

// Settings returns the current configuration snapshot and any adjustments.
func (s *Service) Settings(ctx context.Context) (config.Quality, []error, error) {
	provider, _, err := s.components()
	if err != nil {
		return config.Quality{}, nil, err
	}
	return provider.Snapshot(ctx)
}

// SettingKeys lists the keys accepted by UpdateSetting.
func (s *Service) SettingKeys() []string {
	provider, _, err := s.components()
	if err != nil {
		return nil
	}
	return provider.Keys()
}

// UpdateSetting validates and stores one user setting.
func (s *Service) UpdateSetting(ctx context.Context, key, value string) error {
	provider, store, err := s.components()
	if err != nil {
		return err
	}
	if err := provider.Validate(key, value); err != nil {
		return err
	}
	if err := store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("store setting %q: %w", key, err)
	}
	s.logger.Info(ctx, "setting updated", logger.String("key", key), logger.String("value", value))
	return nil
}

// ToggleSetting flips a boolean option and returns its new value.
func (s *Service) ToggleSetting(ctx context.Context, key string) (bool, error) {
	provider, _, err := s.components()
	if err != nil {
		return false, err
	}
	cfg, _, err := provider.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	v, known := cfg.Flatten()[key]
	if !known {
		return false, fmt.Errorf("%w: %q", config.ErrUnknownSetting, key)
	}
	current, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %w: %q", ErrNotToggle, config.ErrInvalidConfig, key)
	}
	next := !current
	if err := s.UpdateSetting(ctx, key, strconv.FormatBool(next)); err != nil {
		return false, err
	}
	return next, nil
}

// Ping checks the settings store.
func (s *Service) Ping(ctx context.Context) error {
	_, store, err := s.components()
	if err != nil {
		return err
	}
	if p, ok := store.(settings.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"settingsBackend": s.backend,
		"passes":          s.passes,
		"itemsScored":     s.itemsScored,
		"diagnostics":     s.diagnostics,
	}
	if s.lastPassID != "" {
		stats["lastPassId"] = s.lastPassID
		stats["lastPassAt"] = s.lastPassAt.UTC().Format(time.RFC3339)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()
	stats["goroutines"] = goroutines
	metrics.UpdateSystemGoroutineCount(goroutines)
	metrics.UpdateSystemMemoryUsage(mem.Alloc)

	return stats
}
