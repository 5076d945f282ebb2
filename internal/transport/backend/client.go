package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
)

const maxResponseBytes = 4 << 20

// Client talks to the café search backend.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    httpClient,
	}
}

type cafesResponse struct {
	Cafes       []domain.Place     `json:"cafes"`
	Location    string             `json:"location"`
	Coordinates *domain.Coordinate `json:"coordinates"`
	Error       string             `json:"error"`
}

type nearbyRequest struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Radius int     `json:"radius"`
}

func (c *Client) SearchByLocation(ctx context.Context, location string, radiusMeters int) (*domain.SearchResult, error) {
	q := url.Values{}
	q.Set("location", location)
	q.Set("radius", strconv.Itoa(radiusMeters))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cafes?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return c.doSearch(req)
}

func (c *Client) SearchNearby(ctx context.Context, at domain.Coordinate, radiusMeters int) (*domain.SearchResult, error) {
	body, err := json.Marshal(nearbyRequest{Lat: at.Lat, Lng: at.Lng, Radius: radiusMeters})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cafes/nearby", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doSearch(req)
}

func (c *Client) ClientConfig(ctx context.Context) (*domain.ClientConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/config", nil)
	if err != nil {
		return nil, err
	}
	data, err := c.do(req)
	if err != nil {
		return nil, err
	}
	var cfg domain.ClientConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &domain.BackendError{Kind: domain.ErrBackendMalformed, Message: "Failed to load configuration"}
	}
	return &cfg, nil
}

func (c *Client) doSearch(req *http.Request) (*domain.SearchResult, error) {
	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var payload cafesResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &domain.BackendError{Kind: domain.ErrBackendMalformed, Status: http.StatusOK}
	}
	if strings.TrimSpace(payload.Error) != "" {
		return nil, &domain.BackendError{Kind: domain.ErrBackendPayload, Status: http.StatusOK, Message: payload.Error}
	}

	places := payload.Cafes
	if places == nil {
		places = []domain.Place{}
	}
	return &domain.SearchResult{
		Places:      places,
		Location:    payload.Location,
		Coordinates: payload.Coordinates,
	}, nil
}

// do performs req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.BackendError{Kind: domain.ErrBackendTransport, Message: "request timed out"}
		}
		return nil, &domain.BackendError{Kind: domain.ErrBackendTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.BackendError{Kind: domain.ErrBackendTransport, Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &payload)
		return nil, &domain.BackendError{Kind: domain.ErrBackendStatus, Status: resp.StatusCode, Message: payload.Error}
	}
	return data, nil
}

var _ ports.CafeBackend = (*Client)(nil)
