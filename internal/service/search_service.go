package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
)

// ResultCache holds the most recent successful search.
type ResultCache struct {
	mu     sync.RWMutex
	places []domain.Place
	user   *domain.Coordinate
}

func NewResultCache() *ResultCache {
	return &ResultCache{places: []domain.Place{}}
}

// Replace swaps in the places of result. The user location is only replaced
// when the result carries coordinates.
func (c *ResultCache) Replace(result *domain.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.places = append(make([]domain.Place, 0, len(result.Places)), result.Places...)
	if result.Coordinates != nil {
		u := *result.Coordinates
		c.user = &u
	}
}

func (c *ResultCache) Places() []domain.Place {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]domain.Place, 0, len(c.places)), c.places...)
}

func (c *ResultCache) UserLocation() *domain.Coordinate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *ResultCache) Find(placeID string) (domain.Place, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.FindPlace(c.places, placeID)
}

type SearchServiceConfig struct {
	RadiusMeters       int
	RequestTimeout     time.Duration
	GeolocationTimeout time.Duration
}

// SearchService fetches places from the backend and refreshes the cache on
// success. Failed fetches leave the cache untouched. Nothing is memoized:
// every call goes to the backend.
type SearchService struct {
	backend ports.CafeBackend
	cache   *ResultCache
	cfg     SearchServiceConfig
	logger  *slog.Logger
}

func NewSearchService(backend ports.CafeBackend, cache *ResultCache, cfg SearchServiceConfig, logger *slog.Logger) *SearchService {
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = 5000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{backend: backend, cache: cache, cfg: cfg, logger: logger}
}

func (s *SearchService) Cache() *ResultCache {
	return s.cache
}

func (s *SearchService) Search(ctx context.Context, location string) (*domain.SearchResult, error) {
	location = strings.TrimSpace(location)

	ctx, cancel := withTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	result, err := s.backend.SearchByLocation(ctx, location, s.cfg.RadiusMeters)
	if err != nil {
		s.logger.Warn("search failed", slog.String("location", location), slog.String("error", err.Error()))
		return nil, err
	}
	s.cache.Replace(result)
	s.logger.Info("search completed", slog.String("location", location), slog.Int("results", len(result.Places)))
	return result, nil
}

// SearchNearby acquires the device position from locator, then searches
// around it. radiusMeters <= 0 uses the configured radius.
func (s *SearchService) SearchNearby(ctx context.Context, locator ports.Geolocator, radiusMeters int) (*domain.SearchResult, error) {
	if radiusMeters <= 0 {
		radiusMeters = s.cfg.RadiusMeters
	}

	at, err := s.locate(ctx, locator)
	if err != nil {
		s.logger.Warn("geolocation failed", slog.String("error", err.Error()))
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	result, err := s.backend.SearchNearby(ctx, at, radiusMeters)
	if err != nil {
		s.logger.Warn("nearby search failed", slog.String("error", err.Error()))
		return nil, err
	}
	s.cache.Replace(result)
	s.logger.Info("nearby search completed", slog.Int("results", len(result.Places)))
	return result, nil
}

func (s *SearchService) locate(ctx context.Context, locator ports.Geolocator) (domain.Coordinate, error) {
	if locator == nil {
		return domain.Coordinate{}, domain.ErrGeolocationUnsupported
	}

	ctx, cancel := withTimeout(ctx, s.cfg.GeolocationTimeout)
	defer cancel()

	at, err := locator.CurrentPosition(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.Coordinate{}, domain.ErrGeolocationTimeout
		}
		return domain.Coordinate{}, err
	}
	return at, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
