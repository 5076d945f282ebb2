package ports

import (
	"context"

	"github.com/njprem/NoirBrew_Web/internal/domain"
)

// MapAdapter is the boundary to the map widget.
type MapAdapter interface {
	Initialize(ctx context.Context, center domain.Coordinate, theme domain.Theme) error
	// SetMarkers replaces every marker; old markers are cleared first.
	SetMarkers(ctx context.Context, places []domain.Place) error
	// FitToMarkers fits the viewport to the markers and, when known, the user.
	FitToMarkers(ctx context.Context, user *domain.Coordinate) error
	Route(ctx context.Context, origin, destination domain.Coordinate) (*domain.RouteSummary, error)
	ClearRoute(ctx context.Context) error
	Restyle(ctx context.Context, theme domain.Theme) error
}
