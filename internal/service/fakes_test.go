package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/mapview"
	"github.com/njprem/NoirBrew_Web/internal/repository/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int { return &v }

func place(id string, rating *float64, price *int) domain.Place {
	return domain.Place{ID: id, Name: "Cafe " + id, Address: id + " Street", Lat: -33.86, Lng: 151.2, Rating: rating, PriceLevel: price}
}

type fakeBackend struct {
	mu        sync.Mutex
	result    *domain.SearchResult
	err       error
	locations []string
	nearby    []domain.Coordinate
	radii     []int
}

func (b *fakeBackend) SearchByLocation(ctx context.Context, location string, radius int) (*domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locations = append(b.locations, location)
	b.radii = append(b.radii, radius)
	if b.err != nil {
		return nil, b.err
	}
	return b.copyResult(), nil
}

func (b *fakeBackend) SearchNearby(_ context.Context, at domain.Coordinate, radius int) (*domain.SearchResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nearby = append(b.nearby, at)
	b.radii = append(b.radii, radius)
	if b.err != nil {
		return nil, b.err
	}
	res := b.copyResult()
	res.Coordinates = &at
	return res, nil
}

func (b *fakeBackend) ClientConfig(context.Context) (*domain.ClientConfig, error) {
	return &domain.ClientConfig{MapsAPIKey: "key"}, nil
}

func (b *fakeBackend) copyResult() *domain.SearchResult {
	if b.result == nil {
		return &domain.SearchResult{Places: []domain.Place{}}
	}
	r := *b.result
	r.Places = append([]domain.Place{}, b.result.Places...)
	return &r
}

type fakeLocator struct {
	at    domain.Coordinate
	err   error
	block bool
}

func (l fakeLocator) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	if l.block {
		<-ctx.Done()
		return domain.Coordinate{}, ctx.Err()
	}
	return l.at, l.err
}

type fakePublisher struct {
	mu    sync.Mutex
	calls [][]domain.Place
	users []*domain.Coordinate
}

func (p *fakePublisher) Publish(_ context.Context, places []domain.Place, user *domain.Coordinate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, append([]domain.Place{}, places...))
	p.users = append(p.users, user)
	return nil
}

func (p *fakePublisher) last() []domain.Place {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		return nil
	}
	return p.calls[len(p.calls)-1]
}

// adapterPublisher drives a real map adapter the way the renderer does.
type adapterPublisher struct {
	maps *mapview.Adapter
	err  error
}

func (p *adapterPublisher) Publish(ctx context.Context, places []domain.Place, user *domain.Coordinate) error {
	if err := p.maps.SetMarkers(ctx, places); err != nil {
		return err
	}
	if err := p.maps.FitToMarkers(ctx, user); err != nil {
		return err
	}
	return p.err
}

type fakeMap struct {
	mu          sync.Mutex
	centers     []domain.Coordinate
	markers     []domain.Place
	fits        int
	theme       domain.Theme
	route       *domain.RouteSummary
	routeErr    error
	routeCalls  int
	clearCalled bool
}

func (m *fakeMap) Initialize(_ context.Context, center domain.Coordinate, theme domain.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.centers = append(m.centers, center)
	m.theme = theme
	return nil
}

func (m *fakeMap) SetMarkers(_ context.Context, places []domain.Place) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append([]domain.Place{}, places...)
	return nil
}

func (m *fakeMap) FitToMarkers(context.Context, *domain.Coordinate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fits++
	return nil
}

func (m *fakeMap) Route(_ context.Context, origin, destination domain.Coordinate) (*domain.RouteSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routeCalls++
	if m.routeErr != nil {
		return nil, m.routeErr
	}
	return &domain.RouteSummary{Origin: origin, Destination: destination, DistanceText: "2.1 km", DurationText: "6 mins"}, nil
}

func (m *fakeMap) ClearRoute(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCalled = true
	return nil
}

func (m *fakeMap) Restyle(_ context.Context, theme domain.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = theme
	return nil
}

// plainStore hides the batch writer of the memory store.
type plainStore struct {
	inner   *memory.KeyValueStore
	failKey string
}

var errWriteFailed = errors.New("write failed")

func (s *plainStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, key)
}

func (s *plainStore) Set(ctx context.Context, key, value string) error {
	if key == s.failKey {
		return errWriteFailed
	}
	return s.inner.Set(ctx, key, value)
}
