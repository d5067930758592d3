// Package store holds the current styling configuration and persists the
// style part of it through a pluggable key-value backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrstyler/internal/apperr"
	"github.com/cristianadrielbraun/qrstyler/internal/qrconfig"
)

// DefaultKey is the KV key the state is saved under.
const DefaultKey = "qrstyler:state"

type Store struct {
	mu  sync.RWMutex
	cfg qrconfig.Config

	// saveMu orders commit and save so the KV always ends with the latest
	// committed state. Lock order: saveMu, then mu.
	saveMu sync.Mutex

	kv  KV
	key string
	log zerolog.Logger
}

// New creates a store holding the defaults. Call Load to restore a saved
// state.
func New(log zerolog.Logger, kv KV, key string) *Store {
	if kv == nil {
		kv = NopKV{}
	}
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		cfg: qrconfig.Defaults(),
		kv:  kv,
		key: key,
		log: log.With().Str("component", "store").Logger(),
	}
}

// Load restores the saved state. A missing state keeps the defaults; an
// unreadable or invalid one is logged and ignored.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	cfg, err := decode(raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Ignoring saved state")
		return nil
	}
	if cfg.Logo != "" {
		logo, err := resanitizeLogo(ctx, cfg.Logo)
		if err != nil {
			s.log.Warn().Err(err).Msg("Dropping saved logo")
		}
		cfg.Logo = logo
	}

	s.mu.Lock()
	cfg.Data = s.cfg.Data
	s.cfg = cfg
	s.mu.Unlock()

	s.log.Info().Msg("Restored saved state")
	return nil
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() qrconfig.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// SetData changes the encoded text. Data is never persisted.
func (s *Store) SetData(data string) qrconfig.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Data = data
	return s.cfg.Clone()
}

func (s *Store) SetDownloadSize(ctx context.Context, size int) (qrconfig.Config, error) {
	return s.mutate(ctx, func(c *qrconfig.Config) {
		c.DownloadSize = size
	})
}

// SetLogo stores a sanitized logo data URL and raises error correction to H
// so the covered modules stay recoverable.
func (s *Store) SetLogo(ctx context.Context, dataURL string) (qrconfig.Config, error) {
	return s.mutate(ctx, func(c *qrconfig.Config) {
		c.Logo = dataURL
		c.ErrorCorrectionLevel = qrconfig.ECHigh
	})
}

func (s *Store) ClearLogo(ctx context.Context) (qrconfig.Config, error) {
	return s.mutate(ctx, func(c *qrconfig.Config) {
		c.Logo = ""
	})
}

// Replace swaps in next wholesale. The logo is kept from the current state:
// it can only be changed through SetLogo and ClearLogo.
func (s *Store) Replace(ctx context.Context, next qrconfig.Config) (qrconfig.Config, error) {
	return s.mutate(ctx, func(c *qrconfig.Config) {
		logo := c.Logo
		*c = next.Clone()
		c.Logo = logo
	})
}

// Reset restores every field, including Data, to its default.
func (s *Store) Reset(ctx context.Context) (qrconfig.Config, error) {
	return s.mutate(ctx, func(c *qrconfig.Config) {
		*c = qrconfig.Defaults()
	})
}

func (s *Store) ApplyTemplate(ctx context.Context, id string) (qrconfig.Config, error) {
	tpl, ok := qrconfig.FindTemplate(id)
	if !ok {
		return qrconfig.Config{}, apperr.New(apperr.KindValidation, "store.apply_template",
			fmt.Sprintf("Unknown template %q", id))
	}
	return s.mutate(ctx, func(c *qrconfig.Config) {
		*c = tpl.Overrides.Apply(*c)
	})
}

// mutate applies fn to a copy, validates it, commits and saves. An invalid
// result leaves the state untouched. A failed save keeps the new state and
// is reported to the caller.
func (s *Store) mutate(ctx context.Context, fn func(*qrconfig.Config)) (qrconfig.Config, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	next := s.cfg.Clone()
	fn(&next)
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return qrconfig.Config{}, err
	}
	s.cfg = next
	out := next.Clone()
	s.mu.Unlock()

	if err := s.save(ctx, out); err != nil {
		s.log.Error().Err(err).Msg("Failed to save state")
		return out, apperr.Wrap(apperr.KindInternal, "store.save", "Your settings could not be saved", err)
	}
	return out, nil
}

func (s *Store) save(ctx context.Context, cfg qrconfig.Config) error {
	raw, err := encode(cfg)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, raw)
}
