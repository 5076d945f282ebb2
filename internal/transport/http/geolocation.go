package http

import (
	"context"
	"strings"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
)

// requestGeolocator answers with the position the browser attached to the
// request. The browser performs the actual lookup and posts either the
// coordinates or the reason it failed.
type requestGeolocator struct {
	at      *domain.Coordinate
	failure string
}

// newRequestGeolocator returns nil when the request carries neither a
// position nor a failure, which the search treats as unsupported.
func newRequestGeolocator(at *domain.Coordinate, failure string) ports.Geolocator {
	failure = strings.ToLower(strings.TrimSpace(failure))
	if at == nil && failure == "" {
		return nil
	}
	return requestGeolocator{at: at, failure: failure}
}

func (g requestGeolocator) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinate{}, err
	}
	switch g.failure {
	case "":
	case "denied":
		return domain.Coordinate{}, domain.ErrGeolocationDenied
	case "timeout":
		return domain.Coordinate{}, domain.ErrGeolocationTimeout
	case "unsupported":
		return domain.Coordinate{}, domain.ErrGeolocationUnsupported
	default:
		return domain.Coordinate{}, domain.ErrGeolocationUnavailable
	}
	if g.at == nil {
		return domain.Coordinate{}, domain.ErrGeolocationUnsupported
	}
	return *g.at, nil
}
