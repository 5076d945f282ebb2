package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/mapview"
	"github.com/njprem/NoirBrew_Web/internal/repository/memory"
)

type appFixture struct {
	backend   *fakeBackend
	publisher *fakePublisher
	maps      *fakeMap
	favorites *FavoriteService
	state     *AppState
}

func newAppFixture(t *testing.T, withMap bool, places ...domain.Place) *appFixture {
	t.Helper()
	logger := discardLogger()
	store := memory.NewKeyValueStore()

	f := &appFixture{
		backend:   &fakeBackend{result: &domain.SearchResult{Places: places}},
		publisher: &fakePublisher{},
	}
	f.favorites = NewFavoriteService(store, logger)
	search := NewSearchService(f.backend, NewResultCache(), SearchServiceConfig{}, logger)
	themes := NewThemeService(store, domain.ThemeDark)

	if withMap {
		f.maps = &fakeMap{}
		f.state = NewAppState(search, f.favorites, themes, f.publisher, f.maps, AppStateConfig{DefaultLocation: "Sydney, Australia"}, logger)
	} else {
		f.state = NewAppState(search, f.favorites, themes, f.publisher, nil, AppStateConfig{DefaultLocation: "Sydney, Australia"}, logger)
	}
	return f
}

func (f *appFixture) dispatch(t *testing.T, cmd Command) *Outcome {
	t.Helper()
	out, err := f.state.Dispatch(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Dispatch(%s) returned error: %v", cmd.Action, err)
	}
	return out
}

func sydneyFixturePlaces() []domain.Place {
	return []domain.Place{
		place("p1", floatPtr(4.2), intPtr(2)),
		place("p2", floatPtr(4.8), intPtr(3)),
		place("p3", floatPtr(3.6), nil),
	}
}

func TestBootstrapSearchesDefaultLocationOnce(t *testing.T) {
	f := newAppFixture(t, false, sydneyFixturePlaces()...)

	f.state.Bootstrap(context.Background())
	f.state.Bootstrap(context.Background())

	if len(f.backend.locations) != 1 || f.backend.locations[0] != "Sydney, Australia" {
		t.Fatalf("expected one default search, got %v", f.backend.locations)
	}
	snap := f.state.Snapshot()
	if snap.Status.Kind != StatusReady {
		t.Fatalf("expected ready status, got %q", snap.Status.Kind)
	}
	if len(snap.Places) != 3 {
		t.Fatalf("expected 3 places, got %d", len(snap.Places))
	}
}

func TestSearchThenFavorite(t *testing.T) {
	f := newAppFixture(t, false, sydneyFixturePlaces()...)

	f.dispatch(t, Command{Action: domain.ActionSearch, Query: "Sydney"})
	if len(f.publisher.last()) != 3 {
		t.Fatalf("expected 3 published places, got %d", len(f.publisher.last()))
	}

	out := f.dispatch(t, Command{Action: domain.ActionToggleFavorite, PlaceID: "p2"})
	if out.Favorite == nil || !*out.Favorite {
		t.Fatal("expected favorite on")
	}
	if n, _ := f.favorites.Count(context.Background()); n != 1 {
		t.Fatalf("expected 1 favorite, got %d", n)
	}
	records, _ := f.favorites.AllFavoriteRecords(context.Background())
	if len(records) != 1 || records[0].ID != "p2" {
		t.Fatalf("expected favorite record p2, got %v", records)
	}
}

func TestSearchWithNoResults(t *testing.T) {
	f := newAppFixture(t, true)

	f.dispatch(t, Command{Action: domain.ActionSearch, Query: "Nowhere"})
	snap := f.state.Snapshot()
	if snap.Status.Kind != StatusReady || len(snap.Places) != 0 {
		t.Fatalf("expected ready with no places, got %+v", snap)
	}
	if len(f.maps.centers) != 0 {
		t.Fatal("map must not be initialized without places")
	}
}

func TestSearchFailureSetsErrorStatus(t *testing.T) {
	f := newAppFixture(t, false)
	f.backend.err = &domain.BackendError{Kind: domain.ErrBackendStatus, Status: 500, Message: "quota"}

	f.dispatch(t, Command{Action: domain.ActionSearch, Query: "Sydney"})
	st := f.state.Snapshot().Status
	if st.Kind != StatusError || st.Message != "Failed to load cafes." {
		t.Fatalf("unexpected status %+v", st)
	}
	if st.Detail != "Server error: 500 (quota)" {
		t.Fatalf("unexpected detail %q", st.Detail)
	}
	if st.CountText != "Error loading cafes" || len(st.Hints) != 3 {
		t.Fatalf("unexpected count text or hints: %+v", st)
	}
}

func TestNearMeGeolocationFailure(t *testing.T) {
	f := newAppFixture(t, false)

	f.dispatch(t, Command{Action: domain.ActionNearMe, Locator: fakeLocator{err: domain.ErrGeolocationDenied}})
	st := f.state.Snapshot().Status
	if st.Message != "Unable to get your location. Please search manually." || st.CountText != "Location error" {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestNearMeBackendFailure(t *testing.T) {
	f := newAppFixture(t, false)
	f.backend.err = &domain.BackendError{Kind: domain.ErrBackendTransport, Message: "connection refused"}

	f.dispatch(t, Command{Action: domain.ActionNearMe, Locator: fakeLocator{at: domain.Coordinate{Lat: 1, Lng: 2}}})
	st := f.state.Snapshot().Status
	if st.Message != "Failed to load nearby cafes." || st.CountText != "Error" {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestListAndMapShowSamePlaces(t *testing.T) {
	f := newAppFixture(t, true, sydneyFixturePlaces()...)
	at := domain.Coordinate{Lat: -33.87, Lng: 151.21}

	f.dispatch(t, Command{Action: domain.ActionNearMe, Locator: fakeLocator{at: at}})
	if len(f.maps.centers) != 1 || f.maps.centers[0] != at {
		t.Fatalf("expected map centered on user, got %v", f.maps.centers)
	}

	criteria := domain.DefaultFilterCriteria()
	criteria.SetRating("4.0")
	f.dispatch(t, Command{Action: domain.ActionApplyFilters, Criteria: &criteria})

	snap := f.state.Snapshot()
	published := f.publisher.last()
	if len(published) != 2 || len(snap.Places) != 2 {
		t.Fatalf("expected 2 places after filter, got published=%d displayed=%d", len(published), len(snap.Places))
	}
	for i := range published {
		if published[i].ID != snap.Places[i].ID {
			t.Fatalf("list and published set differ at %d", i)
		}
	}
	if snap.ApplyCount == nil || *snap.ApplyCount != 2 {
		t.Fatalf("expected apply count 2, got %v", snap.ApplyCount)
	}

	f.dispatch(t, Command{Action: domain.ActionResetFilters})
	snap = f.state.Snapshot()
	if len(snap.Places) != 3 || snap.ApplyCount != nil || snap.Criteria.Rating != domain.RatingAny {
		t.Fatalf("expected reset to restore full cache, got %+v", snap)
	}
}

func TestTopRatedOrdersCache(t *testing.T) {
	f := newAppFixture(t, false, sydneyFixturePlaces()...)
	f.dispatch(t, Command{Action: domain.ActionSearch, Query: "Sydney"})
	f.dispatch(t, Command{Action: domain.ActionTopRated})

	equalIDs(t, f.state.Snapshot().Places, "p2", "p1", "p3")
}

func TestViewModes(t *testing.T) {
	f := newAppFixture(t, false, sydneyFixturePlaces()...)
	if _, err := f.state.Dispatch(context.Background(), Command{Action: domain.ActionMapView}); !errors.Is(err, domain.ErrMapsDisabled) {
		t.Fatalf("expected ErrMapsDisabled, got %v", err)
	}

	f = newAppFixture(t, true, sydneyFixturePlaces()...)
	f.dispatch(t, Command{Action: domain.ActionMapView})
	if f.state.Snapshot().View != domain.ViewMap {
		t.Fatal("expected map view")
	}
	f.dispatch(t, Command{Action: domain.ActionListView})
	if f.state.Snapshot().View != domain.ViewList {
		t.Fatal("expected list view")
	}
}

func TestDirections(t *testing.T) {
	at := domain.Coordinate{Lat: -33.87, Lng: 151.21}

	t.Run("without user location", func(t *testing.T) {
		f := newAppFixture(t, true, sydneyFixturePlaces()...)
		f.dispatch(t, Command{Action: domain.ActionSearch, Query: "Sydney"})

		out := f.dispatch(t, Command{Action: domain.ActionDirections, PlaceID: "p1"})
		if out.ExternalURL != "https://www.google.com/maps/dir/?api=1&destination=-33.86,151.2" {
			t.Fatalf("unexpected url %q", out.ExternalURL)
		}
		if f.maps.routeCalls != 0 {
			t.Fatal("route must not be requested without a user location")
		}
	})

	t.Run("route computed", func(t *testing.T) {
		f := newAppFixture(t, true, sydneyFixturePlaces()...)
		f.dispatch(t, Command{Action: domain.ActionNearMe, Locator: fakeLocator{at: at}})

		out := f.dispatch(t, Command{Action: domain.ActionDirections, PlaceID: "p2"})
		if out.Route == nil || out.Route.DestinationName != "Cafe p2" {
			t.Fatalf("expected route to Cafe p2, got %+v", out.Route)
		}
		snap := f.state.Snapshot()
		if snap.View != domain.ViewMap || snap.Route == nil {
			t.Fatalf("expected map view with route, got %+v", snap)
		}

		f.dispatch(t, Command{Action: domain.ActionClearRoute})
		if f.state.Snapshot().Route != nil || !f.maps.clearCalled {
			t.Fatal("expected route cleared")
		}
	})

	t.Run("route failure falls back", func(t *testing.T) {
		f := newAppFixture(t, true, sydneyFixturePlaces()...)
		f.maps.routeErr = domain.ErrRouteFailed
		f.dispatch(t, Command{Action: domain.ActionNearMe, Locator: fakeLocator{at: at}})

		out := f.dispatch(t, Command{Action: domain.ActionDirections, PlaceID: "p2"})
		if !strings.Contains(out.ExternalURL, "origin=-33.87,151.21") || strings.Contains(out.ExternalURL, "travelmode") {
			t.Fatalf("unexpected fallback url %q", out.ExternalURL)
		}
		if out.Notice != "Could not calculate route. Opening in Google Maps..." {
			t.Fatalf("unexpected notice %q", out.Notice)
		}
	})

	t.Run("no map", func(t *testing.T) {
		f := newAppFixture(t, false, sydneyFixturePlaces()...)
		f.dispatch(t, Command{Action: domain.ActionNearMe, Locator: fakeLocator{at: at}})

		out := f.dispatch(t, Command{Action: domain.ActionDirections, PlaceID: "p3"})
		if !strings.HasSuffix(out.ExternalURL, "&travelmode=driving") || !strings.Contains(out.ExternalURL, "origin=") {
			t.Fatalf("unexpected url %q", out.ExternalURL)
		}
		if f.state.Snapshot().View != domain.ViewList {
			t.Fatal("view must stay list without a map")
		}
	})
}

func TestToggleThemeRestylesMap(t *testing.T) {
	f := newAppFixture(t, true)
	out := f.dispatch(t, Command{Action: domain.ActionToggleTheme})
	if out.Theme != domain.ThemeLight || f.maps.theme != domain.ThemeLight {
		t.Fatalf("expected light theme on map, got outcome=%q map=%q", out.Theme, f.maps.theme)
	}
}

func TestUnknownAction(t *testing.T) {
	f := newAppFixture(t, false)
	if _, err := f.state.Dispatch(context.Background(), Command{Action: "explode"}); !errors.Is(err, domain.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func newAdapterFixture(t *testing.T, places ...domain.Place) (*AppState, *mapview.Adapter, *adapterPublisher) {
	t.Helper()
	logger := discardLogger()
	store := memory.NewKeyValueStore()
	adapter := mapview.NewAdapter(nil)
	pub := &adapterPublisher{maps: adapter}
	search := NewSearchService(&fakeBackend{result: &domain.SearchResult{Places: places}}, NewResultCache(), SearchServiceConfig{}, logger)
	state := NewAppState(search, NewFavoriteService(store, logger), NewThemeService(store, domain.ThemeDark), pub, adapter, AppStateConfig{DefaultLocation: "Sydney, Australia"}, logger)
	return state, adapter, pub
}

func TestApplyFiltersWithCancelledContextKeepsViewsInSync(t *testing.T) {
	state, adapter, _ := newAdapterFixture(t,
		place("p1", floatPtr(4.8), nil),
		place("p2", floatPtr(3.0), nil),
		place("p3", floatPtr(2.0), nil),
	)
	if _, err := state.Dispatch(context.Background(), Command{Action: domain.ActionSearch, Query: "Sydney"}); err != nil {
		t.Fatalf("search: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	criteria := domain.DefaultFilterCriteria()
	criteria.SetRating("4.5")
	if _, err := state.Dispatch(ctx, Command{Action: domain.ActionApplyFilters, Criteria: &criteria}); err != nil {
		t.Fatalf("apply filters: %v", err)
	}

	snap := state.Snapshot()
	markers := adapter.Snapshot().Markers
	if len(snap.Places) != len(markers) {
		t.Fatalf("list shows %d places but map shows %d markers", len(snap.Places), len(markers))
	}
	if len(snap.Places) != 1 || markers[0].ID != "p1" {
		t.Fatalf("expected only p1 on both views, got list=%d markers=%v", len(snap.Places), markers)
	}
}

func TestPublishFailureKeepsPreviousSet(t *testing.T) {
	state, adapter, pub := newAdapterFixture(t, sydneyFixturePlaces()...)
	if _, err := state.Dispatch(context.Background(), Command{Action: domain.ActionSearch, Query: "Sydney"}); err != nil {
		t.Fatalf("search: %v", err)
	}

	errBroken := errors.New("widget gone")
	pub.err = errBroken
	criteria := domain.DefaultFilterCriteria()
	criteria.SetRating("4.5")
	_, err := state.Dispatch(context.Background(), Command{Action: domain.ActionApplyFilters, Criteria: &criteria})
	if !errors.Is(err, errBroken) {
		t.Fatalf("expected publish error, got %v", err)
	}

	snap := state.Snapshot()
	if len(snap.Places) != 3 || len(adapter.Snapshot().Markers) != 3 {
		t.Fatalf("expected previous 3 places on both views, got list=%d markers=%d", len(snap.Places), len(adapter.Snapshot().Markers))
	}
	if snap.Criteria.Rating != domain.RatingAny || snap.ApplyCount != nil {
		t.Fatalf("criteria must not change on failed publish, got %+v", snap.Criteria)
	}
}

func TestSnapshotCarriesMapState(t *testing.T) {
	state, _, _ := newAdapterFixture(t, sydneyFixturePlaces()...)
	if state.Snapshot().Map != nil {
		t.Fatal("expected no map state before the first search")
	}
	if _, err := state.Dispatch(context.Background(), Command{Action: domain.ActionSearch, Query: "Sydney"}); err != nil {
		t.Fatalf("search: %v", err)
	}

	snap := state.Snapshot()
	if snap.Map == nil || !snap.Map.Initialized {
		t.Fatal("expected initialized map state")
	}
	if len(snap.Map.Markers) != len(snap.Places) {
		t.Fatalf("expected %d markers, got %d", len(snap.Places), len(snap.Map.Markers))
	}
}

func TestBootstrapSurvivesCancelledRequest(t *testing.T) {
	f := newAppFixture(t, false, sydneyFixturePlaces()...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.state.Bootstrap(ctx)

	snap := f.state.Snapshot()
	if snap.Status.Kind != StatusReady || len(snap.Places) != 3 {
		t.Fatalf("expected default search to complete, got status=%q places=%d", snap.Status.Kind, len(snap.Places))
	}
}
