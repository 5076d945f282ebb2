// Package render turns places into page markup and keeps the list and the
// map showing the same place set.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/geo"
	"github.com/njprem/NoirBrew_Web/internal/mapview"
	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
	"github.com/njprem/NoirBrew_Web/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	placeholderPhoto = "https://via.placeholder.com/400x250?text=No+Image"
	priceSymbol      = "₹"
)

// CardContext is the state a card depends on besides the place itself.
type CardContext struct {
	Favorites    map[string]bool
	UserLocation *domain.Coordinate
	Theme        domain.Theme
	ReturnTo     string
}

type cardView struct {
	ID          string
	Name        string
	Address     string
	Rating      string
	RatingCount string
	Price       string
	Distance    string
	PhotoURL    string
	OpenText    string
	OpenClass   string
	Favorite    bool
	Tags        []Tag
	ReturnTo    string
}

type listView struct {
	Cards []cardView
}

type markerView struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Position domain.Coordinate `json:"position"`
	Info     string            `json:"info"`
}

// navView feeds the top bar: where the theme toggle returns to and the
// number of saved spots.
type navView struct {
	ReturnTo string
	Saved    int
}

type mapView struct {
	APIKey       string               `json:"-"`
	Initialized  bool                 `json:"initialized"`
	Center       domain.Coordinate    `json:"center"`
	Zoom         int                  `json:"zoom"`
	Styles       []mapview.StyleRule  `json:"styles"`
	Markers      []markerView         `json:"markers"`
	UserLocation *domain.Coordinate   `json:"user_location,omitempty"`
	Bounds       *mapview.Bounds      `json:"bounds,omitempty"`
	Route        *domain.RouteSummary `json:"route,omitempty"`
}

// ExplorePage is the data behind the results page.
type ExplorePage struct {
	Query         string
	Snapshot      service.Snapshot
	Favorites     map[string]bool
	FavoriteCount int
	Theme         domain.Theme
	MapsAPIKey    string
	Map           *mapview.State
	Notice        string
}

type FavoritesPage struct {
	Records      []domain.Place
	Theme        domain.Theme
	UserLocation *domain.Coordinate
	Notice       string
}

type Option func(*Renderer)

// WithPicker replaces the random source for decorative tags.
func WithPicker(p Picker) Option {
	return func(r *Renderer) {
		r.picker = p
	}
}

type Renderer struct {
	tmpl   *template.Template
	maps   ports.MapAdapter
	picker Picker
}

// New parses the embedded templates. maps may be nil when no map widget is
// attached; Publish then only affects the list.
func New(maps ports.MapAdapter, opts ...Option) (*Renderer, error) {
	r := &Renderer{maps: maps, picker: randomPicker{}}
	for _, opt := range opts {
		opt(r)
	}

	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"resultsCount": ResultsCount,
		"savedCount":   SavedCount,
		"nav": func(returnTo string, saved int) navView {
			return navView{ReturnTo: returnTo, Saved: saved}
		},
		"applyText":    ApplyButtonText,
		"contains":     contains,
		"deref": func(n *int) int {
			if n == nil {
				return 0
			}
			return *n
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Publish pushes places to the attached map so that its markers match the
// list rendered from the same slice.
func (r *Renderer) Publish(ctx context.Context, places []domain.Place, user *domain.Coordinate) error {
	if r.maps == nil {
		return nil
	}
	if err := r.maps.SetMarkers(ctx, places); err != nil {
		return fmt.Errorf("set markers: %w", err)
	}
	if err := r.maps.FitToMarkers(ctx, user); err != nil {
		return fmt.Errorf("fit markers: %w", err)
	}
	return nil
}

func (r *Renderer) RenderCard(p domain.Place, cc CardContext) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "card", r.card(p, cc)); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// RenderList renders the card grid, or the no-results message when places is
// empty.
func (r *Renderer) RenderList(places []domain.Place, cc CardContext) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "list", r.list(places, cc)); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) InfoWindow(p domain.Place) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "info_window", r.card(p, CardContext{})); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) RenderExplorePage(w io.Writer, page ExplorePage) error {
	cc := CardContext{
		Favorites:    page.Favorites,
		UserLocation: page.Snapshot.UserLocation,
		Theme:        page.Theme,
		ReturnTo:     "/",
	}

	var m *mapView
	if page.Map != nil {
		mv, err := r.mapView(*page.Map, page.MapsAPIKey)
		if err != nil {
			return err
		}
		m = mv
	}

	data := struct {
		ExplorePage
		List      listView
		CountText string
		Map       *mapView
		Filters   filterPanel
	}{
		ExplorePage: page,
		List:        r.list(page.Snapshot.Places, cc),
		CountText:   countText(page.Snapshot),
		Map:         m,
		Filters:     newFilterPanel(page.Snapshot.Criteria),
	}
	return r.tmpl.ExecuteTemplate(w, "explore", data)
}

func (r *Renderer) RenderFavoritesPage(w io.Writer, page FavoritesPage) error {
	cc := CardContext{
		Favorites:    make(map[string]bool, len(page.Records)),
		UserLocation: page.UserLocation,
		Theme:        page.Theme,
		ReturnTo:     "/favorites",
	}
	for _, p := range page.Records {
		cc.Favorites[p.ID] = true
	}

	data := struct {
		FavoritesPage
		List      listView
		CountText string
	}{
		FavoritesPage: page,
		List:          r.list(page.Records, cc),
		CountText:     SavedCount(len(page.Records)),
	}
	return r.tmpl.ExecuteTemplate(w, "favorites", data)
}

func (r *Renderer) list(places []domain.Place, cc CardContext) listView {
	cards := make([]cardView, 0, len(places))
	for _, p := range places {
		cards = append(cards, r.card(p, cc))
	}
	return listView{Cards: cards}
}

func (r *Renderer) card(p domain.Place, cc CardContext) cardView {
	v := cardView{
		ID:       p.ID,
		Name:     p.Name,
		Address:  p.Address,
		Rating:   "N/A",
		Price:    strings.Repeat(priceSymbol, p.PriceTier()),
		PhotoURL: placeholderPhoto,
		Favorite: cc.Favorites[p.ID],
		Tags:     CardTags(p, r.picker),
		ReturnTo: cc.ReturnTo,
	}
	if rating, ok := p.RatingValue(); ok && rating > 0 {
		v.Rating = strconv.FormatFloat(rating, 'f', 1, 64)
	}
	if p.RatingCount != nil && *p.RatingCount > 0 {
		v.RatingCount = "(" + strconv.Itoa(*p.RatingCount) + ")"
	}
	if p.PhotoURL != nil && *p.PhotoURL != "" {
		v.PhotoURL = *p.PhotoURL
	}
	if label, ok := geo.DistanceLabel(cc.UserLocation, p.Location()); ok {
		v.Distance = label
	}
	switch p.OpenStatus() {
	case domain.OpenStatusOpen:
		v.OpenText, v.OpenClass = "Open", "open"
	case domain.OpenStatusClosed:
		v.OpenText, v.OpenClass = "Closed", "closed"
	}
	return v
}

func (r *Renderer) mapView(state mapview.State, apiKey string) (*mapView, error) {
	markers := make([]markerView, 0, len(state.Markers))
	for _, m := range state.Markers {
		info, err := r.InfoWindow(m.Place)
		if err != nil {
			return nil, err
		}
		markers = append(markers, markerView{ID: m.ID, Title: m.Title, Position: m.Position, Info: string(info)})
	}
	return &mapView{
		APIKey:       apiKey,
		Initialized:  state.Initialized,
		Center:       state.Center,
		Zoom:         state.Zoom,
		Styles:       state.Styles,
		Markers:      markers,
		UserLocation: state.UserLocation,
		Bounds:       state.Bounds,
		Route:        state.Route,
	}, nil
}

func countText(s service.Snapshot) string {
	switch s.Status.Kind {
	case service.StatusLoading, service.StatusError:
		return s.Status.CountText
	case service.StatusIdle:
		return ""
	default:
		return ResultsCount(len(s.Places))
	}
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

var _ service.Publisher = (*Renderer)(nil)
