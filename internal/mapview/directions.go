package mapview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/njprem/NoirBrew_Web/internal/domain"
)

const externalDirectionsURL = "https://www.google.com/maps/dir/"

// DirectionsClient requests driving routes from a Directions web service.
type DirectionsClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewDirectionsClient(endpoint, apiKey string, httpClient *http.Client) *DirectionsClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DirectionsClient{
		endpoint: strings.TrimSpace(endpoint),
		apiKey:   apiKey,
		http:     httpClient,
	}
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Text string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Text string `json:"text"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

func (d *DirectionsClient) Route(ctx context.Context, origin, destination domain.Coordinate) (*domain.RouteSummary, error) {
	q := url.Values{}
	q.Set("origin", latLng(origin))
	q.Set("destination", latLng(destination))
	q.Set("mode", "driving")
	if d.apiKey != "" {
		q.Set("key", d.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRouteFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http status %d", domain.ErrRouteFailed, resp.StatusCode)
	}

	var payload directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrRouteFailed, err)
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("%w: status %s", domain.ErrRouteFailed, payload.Status)
	}
	if len(payload.Routes) == 0 || len(payload.Routes[0].Legs) == 0 {
		return nil, fmt.Errorf("%w: empty route", domain.ErrRouteFailed)
	}

	leg := payload.Routes[0].Legs[0]
	return &domain.RouteSummary{
		Origin:       origin,
		Destination:  destination,
		DistanceText: leg.Distance.Text,
		DurationText: leg.Duration.Text,
	}, nil
}

// ExternalDirectionsURL builds the link used when the in-app route is not
// available. A nil origin leaves the origin to the external map.
func ExternalDirectionsURL(origin *domain.Coordinate, destination domain.Coordinate, withTravelMode bool) string {
	q := make([]string, 0, 4)
	q = append(q, "api=1")
	if origin != nil {
		q = append(q, "origin="+latLng(*origin))
	}
	q = append(q, "destination="+latLng(destination))
	if withTravelMode {
		q = append(q, "travelmode=driving")
	}
	return externalDirectionsURL + "?" + strings.Join(q, "&")
}

func latLng(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}
