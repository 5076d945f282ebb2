package domain

import (
	"errors"
	"fmt"
)

var (
	ErrBackendTransport = errors.New("backend unreachable")
	ErrBackendStatus    = errors.New("server error")
	ErrBackendMalformed = errors.New("malformed backend response")
	ErrBackendPayload   = errors.New("backend reported an error")

	ErrGeolocationUnsupported = errors.New("geolocation is not supported by this browser")
	ErrGeolocationDenied      = errors.New("geolocation permission denied")
	ErrGeolocationTimeout     = errors.New("geolocation timed out")
	ErrGeolocationUnavailable = errors.New("position unavailable")

	ErrRouteFailed   = errors.New("route calculation failed")
	ErrMapsDisabled  = errors.New("map is not available")
	ErrPlaceNotFound = errors.New("place not found")

	ErrFavoriteRecordRequired = errors.New("place record required to add favorite")
	ErrUnknownAction          = errors.New("unknown action")
)

// BackendError describes a failed call to the search backend. Kind is one of
// the ErrBackend* sentinels.
type BackendError struct {
	Kind    error
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	switch {
	case e.Kind == ErrBackendStatus && e.Message != "":
		return fmt.Sprintf("Server error: %d (%s)", e.Status, e.Message)
	case e.Kind == ErrBackendStatus:
		return fmt.Sprintf("Server error: %d", e.Status)
	case e.Message != "":
		return e.Message
	default:
		return e.Kind.Error()
	}
}

func (e *BackendError) Unwrap() error {
	return e.Kind
}

// IsGeolocationError reports whether err came from acquiring the device
// position rather than from the backend.
func IsGeolocationError(err error) bool {
	return errors.Is(err, ErrGeolocationUnsupported) ||
		errors.Is(err, ErrGeolocationDenied) ||
		errors.Is(err, ErrGeolocationTimeout) ||
		errors.Is(err, ErrGeolocationUnavailable)
}

// UserMessage turns an error into the line shown under a failure panel.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var be *BackendError
	if errors.As(err, &be) {
		return be.Error()
	}
	return err.Error()
}
