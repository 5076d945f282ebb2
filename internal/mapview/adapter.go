package mapview

import (
	"context"
	"sync"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
)

const defaultZoom = 13

type RouteProvider interface {
	Route(ctx context.Context, origin, destination domain.Coordinate) (*domain.RouteSummary, error)
}

type Marker struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Position domain.Coordinate `json:"position"`
	Place    domain.Place      `json:"-"`
}

type Bounds struct {
	NorthEast domain.Coordinate `json:"northeast"`
	SouthWest domain.Coordinate `json:"southwest"`
}

// State is everything the browser widget needs to draw the map.
type State struct {
	Initialized  bool                 `json:"initialized"`
	Center       domain.Coordinate    `json:"center"`
	Zoom         int                  `json:"zoom"`
	Theme        domain.Theme         `json:"theme"`
	Styles       []StyleRule          `json:"styles"`
	Markers      []Marker             `json:"markers"`
	UserLocation *domain.Coordinate   `json:"user_location,omitempty"`
	Bounds       *Bounds              `json:"bounds,omitempty"`
	Route        *domain.RouteSummary `json:"route,omitempty"`
}

// Adapter keeps the map widget's state on the server so that every page
// render draws the same markers as the list.
type Adapter struct {
	routes RouteProvider

	mu    sync.Mutex
	state State
}

func NewAdapter(routes RouteProvider) *Adapter {
	return &Adapter{
		routes: routes,
		state: State{
			Zoom:    defaultZoom,
			Theme:   domain.ThemeDark,
			Styles:  StylesFor(domain.ThemeDark),
			Markers: []Marker{},
		},
	}
}

func (a *Adapter) Initialize(ctx context.Context, center domain.Coordinate, theme domain.Theme) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state = State{
		Initialized: true,
		Center:      center,
		Zoom:        defaultZoom,
		Theme:       theme,
		Styles:      StylesFor(theme),
		Markers:     []Marker{},
	}
	return nil
}

func (a *Adapter) SetMarkers(ctx context.Context, places []domain.Place) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	markers := make([]Marker, 0, len(places))
	for _, p := range places {
		markers = append(markers, Marker{ID: p.ID, Title: p.Name, Position: p.Location(), Place: p})
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Markers = markers
	a.state.Bounds = nil
	return nil
}

func (a *Adapter) FitToMarkers(ctx context.Context, user *domain.Coordinate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if user != nil {
		u := *user
		a.state.UserLocation = &u
	}
	if len(a.state.Markers) == 0 {
		a.state.Bounds = nil
		return nil
	}

	first := a.state.Markers[0].Position
	b := Bounds{NorthEast: first, SouthWest: first}
	for _, m := range a.state.Markers[1:] {
		b.extend(m.Position)
	}
	if a.state.UserLocation != nil {
		b.extend(*a.state.UserLocation)
	}
	a.state.Bounds = &b
	return nil
}

func (a *Adapter) Route(ctx context.Context, origin, destination domain.Coordinate) (*domain.RouteSummary, error) {
	if a.routes == nil {
		return nil, domain.ErrRouteFailed
	}
	route, err := a.routes.Route(ctx, origin, destination)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	r := *route
	a.state.Route = &r
	return route, nil
}

func (a *Adapter) ClearRoute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Route = nil
	return nil
}

func (a *Adapter) Restyle(ctx context.Context, theme domain.Theme) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Theme = theme
	a.state.Styles = StylesFor(theme)
	return nil
}

// Snapshot returns a copy of the current widget state.
func (a *Adapter) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.state
	s.Markers = append(make([]Marker, 0, len(a.state.Markers)), a.state.Markers...)
	s.Styles = append(make([]StyleRule, 0, len(a.state.Styles)), a.state.Styles...)
	return s
}

func (b *Bounds) extend(c domain.Coordinate) {
	if c.Lat > b.NorthEast.Lat {
		b.NorthEast.Lat = c.Lat
	}
	if c.Lng > b.NorthEast.Lng {
		b.NorthEast.Lng = c.Lng
	}
	if c.Lat < b.SouthWest.Lat {
		b.SouthWest.Lat = c.Lat
	}
	if c.Lng < b.SouthWest.Lng {
		b.SouthWest.Lng = c.Lng
	}
}

var _ ports.MapAdapter = (*Adapter)(nil)
