package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/service"
)

var errInvalidInput = errors.New("invalid input")

// actionRequest is the JSON body accepted by the action API. The HTML forms
// post the same fields url-encoded.
type actionRequest struct {
	Location string                 `json:"location"`
	Radius   int                    `json:"radius"`
	Lat      *float64               `json:"lat"`
	Lng      *float64               `json:"lng"`
	GeoError string                 `json:"geo_error"`
	PlaceID  string                 `json:"place_id"`
	Filters  *domain.FilterCriteria `json:"filters"`
}

func (r actionRequest) command(action domain.Action) (service.Command, error) {
	cmd := service.Command{
		Action:  action,
		Query:   strings.TrimSpace(r.Location),
		Radius:  r.Radius,
		PlaceID: strings.TrimSpace(r.PlaceID),
	}
	if r.Radius < 0 {
		return cmd, fmt.Errorf("%w: radius must not be negative", errInvalidInput)
	}

	if action == domain.ActionNearMe {
		at, err := coordinate(r.Lat, r.Lng)
		if err != nil {
			return cmd, err
		}
		cmd.Locator = newRequestGeolocator(at, r.GeoError)
	}
	if action == domain.ActionApplyFilters {
		criteria := domain.DefaultFilterCriteria()
		if r.Filters != nil {
			criteria = *r.Filters
		}
		cmd.Criteria = &criteria
	}
	return cmd, nil
}

func coordinate(lat, lng *float64) (*domain.Coordinate, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, fmt.Errorf("%w: lat and lng must be sent together", errInvalidInput)
	}
	if *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", errInvalidInput)
	}
	return &domain.Coordinate{Lat: *lat, Lng: *lng}, nil
}

// parseActionForm reads an url-encoded action form.
func parseActionForm(c echo.Context) (actionRequest, error) {
	form, err := c.FormParams()
	if err != nil {
		return actionRequest{}, fmt.Errorf("%w: %v", errInvalidInput, err)
	}

	req := actionRequest{
		Location: form.Get("location"),
		GeoError: form.Get("geo_error"),
		PlaceID:  form.Get("place_id"),
	}
	if raw := strings.TrimSpace(form.Get("radius")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%w: radius must be an integer", errInvalidInput)
		}
		req.Radius = v
	}
	if req.Lat, err = optionalFloat(form, "lat"); err != nil {
		return req, err
	}
	if req.Lng, err = optionalFloat(form, "lng"); err != nil {
		return req, err
	}
	if _, ok := form[string(domain.FacetRating)]; ok || hasAnyFacet(form) {
		criteria, err := parseFilterForm(form)
		if err != nil {
			return req, err
		}
		req.Filters = &criteria
	}
	return req, nil
}

func optionalFloat(form url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", errInvalidInput, key)
	}
	return &v, nil
}

func hasAnyFacet(form url.Values) bool {
	for _, key := range []string{"distance", string(domain.FacetPrice), string(domain.FacetAmbience), string(domain.FacetDiet), string(domain.FacetExperience)} {
		if _, ok := form[key]; ok {
			return true
		}
	}
	return false
}

// parseFilterForm reads the filter panel. Unchecked boxes are simply absent
// from the form, so every submission describes the complete selection.
func parseFilterForm(form url.Values) (domain.FilterCriteria, error) {
	criteria := domain.DefaultFilterCriteria()
	criteria.SetRating(form.Get(string(domain.FacetRating)))

	if raw := strings.TrimSpace(form.Get("distance")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return criteria, fmt.Errorf("%w: distance must be a positive integer", errInvalidInput)
		}
		criteria.DistanceKm = v
	}

	for _, facet := range []domain.FilterFacet{domain.FacetPrice, domain.FacetAmbience, domain.FacetDiet, domain.FacetExperience} {
		for _, value := range form[string(facet)] {
			criteria.Select(facet, value, true)
		}
	}
	criteria.Normalize()
	return criteria, nil
}

// safeReturnPath keeps redirects on this site.
func safeReturnPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return u.Path
}

func withQuery(path string, key, value string) string {
	if value == "" {
		return path
	}
	return path + "?" + url.Values{key: []string{value}}.Encode()
}
