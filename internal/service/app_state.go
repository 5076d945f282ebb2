package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/mapview"
	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
)

// Publisher pushes the effective place set to every view.
type Publisher interface {
	Publish(ctx context.Context, places []domain.Place, user *domain.Coordinate) error
}

type StatusKind string

const (
	StatusIdle    StatusKind = "idle"
	StatusLoading StatusKind = "loading"
	StatusReady   StatusKind = "ready"
	StatusError   StatusKind = "error"
)

// Status is what the results area shows besides the cards.
type Status struct {
	Kind      StatusKind `json:"kind"`
	Message   string     `json:"message,omitempty"`
	Detail    string     `json:"detail,omitempty"`
	Hints     []string   `json:"hints,omitempty"`
	CountText string     `json:"count_text,omitempty"`
}

type Command struct {
	Action   domain.Action
	Query    string
	Radius   int
	Locator  ports.Geolocator
	Criteria *domain.FilterCriteria
	PlaceID  string
}

type Outcome struct {
	Action      domain.Action        `json:"action"`
	Favorite    *bool                `json:"favorite,omitempty"`
	Theme       domain.Theme         `json:"theme,omitempty"`
	Route       *domain.RouteSummary `json:"route,omitempty"`
	ExternalURL string               `json:"external_url,omitempty"`
	Notice      string               `json:"notice,omitempty"`
}

type Snapshot struct {
	Places       []domain.Place        `json:"cafes"`
	Criteria     domain.FilterCriteria `json:"filters"`
	View         domain.ViewMode       `json:"view"`
	Status       Status                `json:"status"`
	Route        *domain.RouteSummary  `json:"route,omitempty"`
	UserLocation *domain.Coordinate    `json:"user_location,omitempty"`
	ApplyCount   *int                  `json:"apply_count,omitempty"`
	MapsEnabled  bool                  `json:"maps_enabled"`
	// Map is the widget state taken under the same lock as Places.
	Map *mapview.State `json:"-"`
}

type AppStateConfig struct {
	DefaultLocation string
	RouteTimeout    time.Duration
}

// mapSnapshotter is implemented by map adapters that keep their state on
// the server.
type mapSnapshotter interface {
	Snapshot() mapview.State
}

type actionFunc func(ctx context.Context, cmd Command) (*Outcome, error)

// AppState owns the page state shared by the list and map views: the places
// on display, the filter criteria, the view mode and the last status. All
// user commands enter through Dispatch.
type AppState struct {
	search    *SearchService
	favorites *FavoriteService
	themes    *ThemeService
	publisher Publisher
	maps      ports.MapAdapter
	cfg       AppStateConfig
	logger    *slog.Logger
	actions   map[domain.Action]actionFunc

	mu         sync.Mutex
	criteria   domain.FilterCriteria
	displayed  []domain.Place
	view       domain.ViewMode
	status     Status
	route      *domain.RouteSummary
	applyCount *int
	bootstrap  sync.Once
}

// NewAppState wires the state object. maps may be nil when the map is
// disabled; the same code paths run without it.
func NewAppState(search *SearchService, favorites *FavoriteService, themes *ThemeService, publisher Publisher, maps ports.MapAdapter, cfg AppStateConfig, logger *slog.Logger) *AppState {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AppState{
		search:    search,
		favorites: favorites,
		themes:    themes,
		publisher: publisher,
		maps:      maps,
		cfg:       cfg,
		logger:    logger,
		criteria:  domain.DefaultFilterCriteria(),
		displayed: []domain.Place{},
		view:      domain.ViewList,
		status:    Status{Kind: StatusIdle},
	}
	s.actions = map[domain.Action]actionFunc{
		domain.ActionSearch:         s.doSearch,
		domain.ActionNearMe:         s.doNearMe,
		domain.ActionTopRated:       s.doTopRated,
		domain.ActionMapView:        s.doMapView,
		domain.ActionListView:       s.doListView,
		domain.ActionApplyFilters:   s.doApplyFilters,
		domain.ActionResetFilters:   s.doResetFilters,
		domain.ActionToggleFavorite: s.doToggleFavorite,
		domain.ActionToggleTheme:    s.doToggleTheme,
		domain.ActionDirections:     s.doDirections,
		domain.ActionClearRoute:     s.doClearRoute,
	}
	return s
}

func (s *AppState) MapsEnabled() bool {
	return s.maps != nil
}

// Dispatch runs the handler registered for cmd.Action.
func (s *AppState) Dispatch(ctx context.Context, cmd Command) (*Outcome, error) {
	fn, ok := s.actions[cmd.Action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAction, cmd.Action)
	}
	out, err := fn(ctx, cmd)
	if out != nil {
		out.Action = cmd.Action
	}
	return out, err
}

// Bootstrap runs the default-location search once per process. The search
// outlives the request that triggered it.
func (s *AppState) Bootstrap(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	s.bootstrap.Do(func() {
		if strings.TrimSpace(s.cfg.DefaultLocation) == "" {
			return
		}
		if _, err := s.doSearch(ctx, Command{Action: domain.ActionSearch, Query: s.cfg.DefaultLocation}); err != nil {
			s.logger.Error("initial search failed", slog.String("error", err.Error()))
		}
	})
}

func (s *AppState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Places:       append(make([]domain.Place, 0, len(s.displayed)), s.displayed...),
		Criteria:     copyCriteria(s.criteria),
		View:         s.view,
		Status:       s.status,
		UserLocation: s.search.Cache().UserLocation(),
		MapsEnabled:  s.maps != nil,
	}
	if s.route != nil {
		r := *s.route
		snap.Route = &r
	}
	if s.applyCount != nil {
		n := *s.applyCount
		snap.ApplyCount = &n
	}
	if m, ok := s.maps.(mapSnapshotter); ok {
		if state := m.Snapshot(); state.Initialized {
			snap.Map = &state
		}
	}
	return snap
}

// Lookup finds a place in the current results or, failing that, among the
// saved favorites.
func (s *AppState) Lookup(ctx context.Context, placeID string) (domain.Place, error) {
	if p, ok := s.search.Cache().Find(placeID); ok {
		return p, nil
	}
	s.mu.Lock()
	p, ok := domain.FindPlace(s.displayed, placeID)
	s.mu.Unlock()
	if ok {
		return p, nil
	}
	saved, err := s.favorites.AllFavoriteRecords(ctx)
	if err != nil {
		return domain.Place{}, err
	}
	if p, ok := domain.FindPlace(saved, placeID); ok {
		return p, nil
	}
	return domain.Place{}, fmt.Errorf("%w: %s", domain.ErrPlaceNotFound, placeID)
}

func (s *AppState) doSearch(ctx context.Context, cmd Command) (*Outcome, error) {
	query := strings.TrimSpace(cmd.Query)
	if query == "" {
		return &Outcome{}, nil
	}

	s.setStatus(Status{Kind: StatusLoading, Message: "Loading cafes...", CountText: "Searching..."})
	result, err := s.search.Search(ctx, query)
	if err != nil {
		s.setStatus(Status{
			Kind:    StatusError,
			Message: "Failed to load cafes.",
			Detail:  domain.UserMessage(err),
			Hints: []string{
				"Backend server not running",
				"Google Maps API key not configured",
				"Network connection issue",
			},
			CountText: "Error loading cafes",
		})
		return &Outcome{}, nil
	}
	return &Outcome{}, s.showResults(ctx, result.Places)
}

func (s *AppState) doNearMe(ctx context.Context, cmd Command) (*Outcome, error) {
	s.setStatus(Status{Kind: StatusLoading, Message: "Getting your location...", CountText: "Locating..."})
	result, err := s.search.SearchNearby(ctx, cmd.Locator, cmd.Radius)
	switch {
	case err == nil:
		return &Outcome{}, s.showResults(ctx, result.Places)
	case domain.IsGeolocationError(err):
		s.setStatus(Status{
			Kind:      StatusError,
			Message:   "Unable to get your location. Please search manually.",
			Detail:    domain.UserMessage(err),
			CountText: "Location error",
		})
	default:
		s.setStatus(Status{
			Kind:      StatusError,
			Message:   "Failed to load nearby cafes.",
			Detail:    domain.UserMessage(err),
			CountText: "Error",
		})
	}
	return &Outcome{}, nil
}

func (s *AppState) doTopRated(ctx context.Context, _ Command) (*Outcome, error) {
	sorted := SortByRatingDescending(s.search.Cache().Places())
	return &Outcome{}, s.publish(ctx, sorted)
}

func (s *AppState) doMapView(ctx context.Context, _ Command) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maps == nil {
		return &Outcome{}, domain.ErrMapsDisabled
	}
	s.view = domain.ViewMap
	return &Outcome{}, s.maps.FitToMarkers(ctx, s.search.Cache().UserLocation())
}

func (s *AppState) doListView(_ context.Context, _ Command) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = domain.ViewList
	return &Outcome{}, nil
}

func (s *AppState) doApplyFilters(ctx context.Context, cmd Command) (*Outcome, error) {
	criteria := domain.DefaultFilterCriteria()
	if cmd.Criteria != nil {
		criteria = copyCriteria(*cmd.Criteria)
	}
	criteria.Normalize()

	filtered := ApplyFilters(s.search.Cache().Places(), criteria)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.publishLocked(ctx, filtered); err != nil {
		return &Outcome{}, err
	}
	s.criteria = criteria
	n := len(filtered)
	s.applyCount = &n
	return &Outcome{}, nil
}

func (s *AppState) doResetFilters(ctx context.Context, _ Command) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.publishLocked(ctx, s.search.Cache().Places()); err != nil {
		return &Outcome{}, err
	}
	s.criteria = domain.DefaultFilterCriteria()
	s.applyCount = nil
	return &Outcome{}, nil
}

func (s *AppState) doToggleFavorite(ctx context.Context, cmd Command) (*Outcome, error) {
	id := strings.TrimSpace(cmd.PlaceID)
	if id == "" {
		return nil, fmt.Errorf("%w: empty place id", domain.ErrPlaceNotFound)
	}

	var record *domain.Place
	if p, err := s.Lookup(ctx, id); err == nil {
		record = &p
	} else if !errors.Is(err, domain.ErrPlaceNotFound) {
		return nil, err
	}

	on, err := s.favorites.ToggleFavorite(ctx, id, record)
	if err != nil {
		return nil, err
	}
	return &Outcome{Favorite: &on}, nil
}

func (s *AppState) doToggleTheme(ctx context.Context, _ Command) (*Outcome, error) {
	theme, err := s.themes.Toggle(ctx)
	if err != nil {
		return nil, err
	}
	if s.maps != nil {
		if err := s.maps.Restyle(ctx, theme); err != nil {
			s.logger.Warn("restyle map", slog.String("error", err.Error()))
		}
	}
	return &Outcome{Theme: theme}, nil
}

func (s *AppState) doDirections(ctx context.Context, cmd Command) (*Outcome, error) {
	place, err := s.Lookup(ctx, strings.TrimSpace(cmd.PlaceID))
	if err != nil {
		return nil, err
	}
	dest := place.Location()
	user := s.search.Cache().UserLocation()

	if s.maps != nil {
		s.mu.Lock()
		s.view = domain.ViewMap
		s.mu.Unlock()
	}

	switch {
	case user != nil && s.maps != nil:
		rctx, cancel := withTimeout(ctx, s.cfg.RouteTimeout)
		defer cancel()
		route, err := s.maps.Route(rctx, *user, dest)
		if err != nil {
			s.logger.Warn("route failed, falling back to external map",
				slog.String("place_id", place.ID), slog.String("error", err.Error()))
			return &Outcome{
				ExternalURL: mapview.ExternalDirectionsURL(user, dest, false),
				Notice:      "Could not calculate route. Opening in Google Maps...",
			}, nil
		}
		r := *route
		r.DestinationName = place.Name
		s.mu.Lock()
		s.route = &r
		s.mu.Unlock()
		return &Outcome{Route: &r}, nil
	case user != nil:
		return &Outcome{ExternalURL: mapview.ExternalDirectionsURL(user, dest, true)}, nil
	default:
		return &Outcome{ExternalURL: mapview.ExternalDirectionsURL(nil, dest, false)}, nil
	}
}

func (s *AppState) doClearRoute(ctx context.Context, _ Command) (*Outcome, error) {
	s.mu.Lock()
	s.route = nil
	s.mu.Unlock()
	if s.maps != nil {
		if err := s.maps.ClearRoute(ctx); err != nil {
			return nil, err
		}
	}
	return &Outcome{}, nil
}

// showResults publishes a fresh search result, re-centering the map first.
func (s *AppState) showResults(ctx context.Context, places []domain.Place) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)

	user := s.search.Cache().UserLocation()
	if s.maps != nil && len(places) > 0 {
		center := places[0].Location()
		if user != nil {
			center = *user
		}
		theme, err := s.themes.Current(ctx)
		if err != nil {
			s.logger.Warn("read theme", slog.String("error", err.Error()))
		}
		if err := s.maps.Initialize(ctx, center, theme); err != nil {
			s.logger.Warn("initialize map", slog.String("error", err.Error()))
		}
	}
	s.route = nil
	return s.publishLocked(ctx, places)
}

func (s *AppState) publish(ctx context.Context, places []domain.Place) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publishLocked(ctx, places)
}

// publishLocked syncs every view to places and only then replaces the
// displayed list. The caller holds s.mu so the list and the map always
// change together. Publishing is not bound to the caller's cancellation: a
// client hanging up must not leave the map half updated.
func (s *AppState) publishLocked(ctx context.Context, places []domain.Place) error {
	next := append(make([]domain.Place, 0, len(places)), places...)
	if s.publisher != nil {
		ctx = context.WithoutCancel(ctx)
		user := s.search.Cache().UserLocation()
		if err := s.publisher.Publish(ctx, next, user); err != nil {
			if rerr := s.publisher.Publish(ctx, s.displayed, user); rerr != nil {
				s.logger.Error("restore published places", slog.String("error", rerr.Error()))
			}
			return fmt.Errorf("publish places: %w", err)
		}
	}
	s.displayed = next
	s.status = Status{Kind: StatusReady}
	return nil
}

func (s *AppState) setStatus(st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

func copyCriteria(c domain.FilterCriteria) domain.FilterCriteria {
	out := c
	out.Price = append([]string{}, c.Price...)
	out.Ambience = append([]string{}, c.Ambience...)
	out.Diet = append([]string{}, c.Diet...)
	out.Experience = append([]string{}, c.Experience...)
	return out
}
