package config

import (
	"context"
	"fmt"
	"sort"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const keyDelim = "."

// SettingsReader is the read side of a user settings store.
type SettingsReader interface {
	All(ctx context.Context) (map[string]string, error)
}

// Provider merges built-in defaults, process overrides and stored user
// settings into a Quality snapshot.
type Provider struct {
	base  Quality
	store SettingsReader
	keys  map[string]struct{}
}

// NewProvider returns a provider layering store values over base.
// A nil store yields base on every snapshot.
func NewProvider(base Quality, store SettingsReader) *Provider {
	keys := make(map[string]struct{})
	for k := range base.Flatten() {
		keys[k] = struct{}{}
	}
	return &Provider{base: base, store: store, keys: keys}
}

// Keys returns the settable keys in lexical order.
func (p *Provider) Keys() []string {
	out := make([]string, 0, len(p.keys))
	for k := range p.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Snapshot reads the store and returns a normalized copy of the merged
// configuration. It never writes. Stored values that are unknown or do not
// parse are skipped and reported together with range adjustments; only a
// failing store read is returned as an error.
func (p *Provider) Snapshot(ctx context.Context) (Quality, []error, error) {
	var adj []error
	overrides := make(map[string]any)

	if p.store != nil {
		stored, err := p.store.All(ctx)
		if err != nil {
			return Quality{}, nil, fmt.Errorf("%w: read settings: %w", ErrLoadConfig, err)
		}
		keys := make([]string, 0, len(stored))
		for k := range stored {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := p.Validate(k, stored[k]); err != nil {
				adj = append(adj, err)
				continue
			}
			overrides[k] = stored[k]
		}
	}

	q, err := p.merge(overrides)
	if err != nil {
		return Quality{}, nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	q, clamped := q.Normalize()
	return q, append(adj, clamped...), nil
}

// Validate checks that key is settable and value decodes into a finite value
// of its field. Range problems are not reported here; Normalize handles them.
func (p *Provider) Validate(key, value string) error {
	if _, ok := p.keys[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	q, err := p.merge(map[string]any{key: value})
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, key, value, err)
	}
	if f, ok := q.Flatten()[key].(float64); ok && !isFinite(f) {
		return fmt.Errorf("%w: %s=%q: not a finite number", ErrInvalidConfig, key, value)
	}
	return nil
}

func (p *Provider) merge(overrides map[string]any) (Quality, error) {
	k := koanf.New(keyDelim)
	if err := k.Load(structs.Provider(p.base, "koanf"), nil); err != nil {
		return Quality{}, fmt.Errorf("load defaults: %w", err)
	}
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, keyDelim), nil); err != nil {
			return Quality{}, fmt.Errorf("load settings: %w", err)
		}
	}
	var q Quality
	// koanf decodes weakly typed, so stored strings become numbers and booleans.
	if err := k.UnmarshalWithConf("", &q, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Quality{}, fmt.Errorf("decode settings: %w", err)
	}
	return q, nil
}

// Flatten returns the snapshot keyed by dotted setting names.
func (q Quality) Flatten() map[string]any {
	k := koanf.New(keyDelim)
	// structs.Provider.Read cannot fail for a struct value.
	_ = k.Load(structs.Provider(q, "koanf"), nil)
	return k.All()
}
