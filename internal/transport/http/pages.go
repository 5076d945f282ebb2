package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/mapview"
	"github.com/njprem/NoirBrew_Web/internal/render"
	"github.com/njprem/NoirBrew_Web/internal/service"
)

// Dependencies are the services the handlers read from. Maps is nil when the
// map widget is disabled.
type Dependencies struct {
	State      *service.AppState
	Favorites  *service.FavoriteService
	Themes     *service.ThemeService
	Renderer   *render.Renderer
	Maps       *mapview.Adapter
	MapsAPIKey string
	Logger     *slog.Logger
}

type Handler struct {
	deps Dependencies
}

func newHandler(deps Dependencies) *Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Handler{deps: deps}
}

// RegisterPages serves the explore and favorites pages and the form actions
// they post to.
func RegisterPages(e *echo.Echo, deps Dependencies) {
	h := newHandler(deps)
	e.GET("/", h.explorePage)
	e.GET("/favorites", h.favoritesPage)
	e.POST("/actions/:action", h.formAction)
}

func (h *Handler) explorePage(c echo.Context) error {
	ctx := c.Request().Context()
	h.deps.State.Bootstrap(ctx)

	snap := h.deps.State.Snapshot()
	favorites, err := h.favoriteSet(c)
	if err != nil {
		return err
	}
	theme, err := h.deps.Themes.Current(ctx)
	if err != nil {
		h.deps.Logger.Warn("read theme", slog.String("error", err.Error()))
	}

	page := render.ExplorePage{
		Query:         c.QueryParam("q"),
		Snapshot:      snap,
		Favorites:     favorites,
		FavoriteCount: len(favorites),
		Theme:         theme,
		MapsAPIKey:    h.deps.MapsAPIKey,
		Map:           snap.Map,
		Notice:        c.QueryParam("notice"),
	}

	var buf bytes.Buffer
	if err := h.deps.Renderer.RenderExplorePage(&buf, page); err != nil {
		h.deps.Logger.Error("render explore page", slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError, "unable to render page")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *Handler) favoritesPage(c echo.Context) error {
	ctx := c.Request().Context()

	records, err := h.deps.Favorites.AllFavoriteRecords(ctx)
	if err != nil {
		h.deps.Logger.Error("load favorites", slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError, "unable to load favorites")
	}
	theme, err := h.deps.Themes.Current(ctx)
	if err != nil {
		h.deps.Logger.Warn("read theme", slog.String("error", err.Error()))
	}

	var buf bytes.Buffer
	err = h.deps.Renderer.RenderFavoritesPage(&buf, render.FavoritesPage{
		Records:      records,
		Theme:        theme,
		UserLocation: h.deps.State.Snapshot().UserLocation,
		Notice:       c.QueryParam("notice"),
	})
	if err != nil {
		h.deps.Logger.Error("render favorites page", slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError, "unable to render page")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *Handler) favoriteSet(c echo.Context) (map[string]bool, error) {
	ids, err := h.deps.Favorites.IDs(c.Request().Context())
	if err != nil {
		h.deps.Logger.Error("load favorite ids", slog.String("error", err.Error()))
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "unable to load favorites")
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// formAction runs one action posted by a page form, then redirects back
// (or out to Google Maps for directions that cannot be drawn in place).
func (h *Handler) formAction(c echo.Context) error {
	returnTo := safeReturnPath(c.FormValue("return_to"))

	action, err := domain.ParseAction(c.Param("action"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown action")
	}
	req, err := parseActionForm(c)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, withQuery(returnTo, "notice", err.Error()))
	}
	cmd, err := req.command(action)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, withQuery(returnTo, "notice", err.Error()))
	}

	out, err := h.deps.State.Dispatch(c.Request().Context(), cmd)
	if err != nil {
		h.deps.Logger.Warn("action failed",
			slog.String("action", string(action)), slog.String("error", err.Error()))
		return c.Redirect(http.StatusSeeOther, withQuery(returnTo, "notice", domain.UserMessage(err)))
	}

	if out != nil && out.ExternalURL != "" {
		return c.Redirect(http.StatusSeeOther, out.ExternalURL)
	}
	if action == domain.ActionSearch && cmd.Query != "" {
		return c.Redirect(http.StatusSeeOther, withQuery(returnTo, "q", cmd.Query))
	}
	return c.Redirect(http.StatusSeeOther, returnTo)
}
