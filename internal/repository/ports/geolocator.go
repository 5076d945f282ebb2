package ports

import (
	"context"

	"github.com/njprem/NoirBrew_Web/internal/domain"
)

// Geolocator acquires the device's current position. Implementations return
// one of the domain.ErrGeolocation* errors on failure.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (domain.Coordinate, error)
}
