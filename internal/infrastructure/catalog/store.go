package catalog

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopbot/backend/internal/domain"
)

// Store holds an immutable catalog snapshot that is swapped atomically on reload.
// It implements domain.CatalogRepository.
type Store struct {
	source   Source
	snapshot atomic.Pointer[[]domain.Product]
	loadedAt atomic.Pointer[time.Time]
	logger   zerolog.Logger
}

// NewStore creates an empty store backed by source
func NewStore(source Source, logger zerolog.Logger) *Store {
	return &Store{
		source: source,
		logger: logger.With().Str("component", "catalog").Str("source", source.Name()).Logger(),
	}
}

// Load fetches the catalog and replaces the current snapshot.
// On failure the previous snapshot stays in place.
func (s *Store) Load(ctx context.Context) error {
	start := time.Now()
	products, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("catalog load failed")
		return err
	}

	now := time.Now()
	s.snapshot.Store(&products)
	s.loadedAt.Store(&now)

	s.logger.Info().
		Int("products", len(products)).
		Dur("took", time.Since(start)).
		Msg("catalog loaded")
	return nil
}

// Snapshot returns the current catalog. Callers must treat it as read-only.
func (s *Store) Snapshot() []domain.Product {
	p := s.snapshot.Load()
	if p == nil {
		return nil
	}
	return *p
}

// LoadedAt reports when the current snapshot was loaded, or the zero time if never
func (s *Store) LoadedAt() time.Time {
	t := s.loadedAt.Load()
	if t == nil {
		return time.Time{}
	}
	return *t
}

// Refresh reloads the catalog every interval until ctx is cancelled
func (s *Store) Refresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Load(ctx)
		}
	}
}
