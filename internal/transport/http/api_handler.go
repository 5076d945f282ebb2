package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/util"
)

// RegisterAPI exposes the same state and actions as JSON.
func RegisterAPI(e *echo.Echo, deps Dependencies) {
	h := newHandler(deps)
	g := e.Group("/api/v1")
	g.GET("/state", h.getState)
	g.GET("/favorites", h.listFavorites)
	g.GET("/map", h.getMap)
	g.POST("/actions/:action", h.apiAction)
}

func (h *Handler) getState(c echo.Context) error {
	return c.JSON(http.StatusOK, util.Data("state", h.deps.State.Snapshot()))
}

func (h *Handler) listFavorites(c echo.Context) error {
	records, err := h.deps.Favorites.AllFavoriteRecords(c.Request().Context())
	if err != nil {
		h.deps.Logger.Error("load favorites", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load favorites"))
	}
	return c.JSON(http.StatusOK, util.List("favorites", records))
}

func (h *Handler) getMap(c echo.Context) error {
	if h.deps.Maps == nil {
		return c.JSON(http.StatusNotFound, util.Error(domain.ErrMapsDisabled.Error()))
	}
	return c.JSON(http.StatusOK, util.Data("map", h.deps.Maps.Snapshot()))
}

func (h *Handler) apiAction(c echo.Context) error {
	action, err := domain.ParseAction(c.Param("action"))
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error("unknown action"))
	}

	var req actionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
		}
	}
	cmd, err := req.command(action)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	out, err := h.deps.State.Dispatch(c.Request().Context(), cmd)
	if err != nil {
		status := actionErrorStatus(err)
		if status >= http.StatusInternalServerError {
			h.deps.Logger.Error("action failed",
				slog.String("action", string(action)), slog.String("error", err.Error()))
		}
		return c.JSON(status, util.Error(domain.UserMessage(err)))
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"outcome": out,
		"state":   h.deps.State.Snapshot(),
	})
}

func actionErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownAction), errors.Is(err, domain.ErrPlaceNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMapsDisabled):
		return http.StatusConflict
	case errors.Is(err, domain.ErrFavoriteRecordRequired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
