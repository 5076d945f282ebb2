package ports

import (
	"context"

	"github.com/njprem/NoirBrew_Web/internal/domain"
)

type CafeBackend interface {
	SearchByLocation(ctx context.Context, location string, radiusMeters int) (*domain.SearchResult, error)
	SearchNearby(ctx context.Context, at domain.Coordinate, radiusMeters int) (*domain.SearchResult, error)
	ClientConfig(ctx context.Context) (*domain.ClientConfig, error)
}
