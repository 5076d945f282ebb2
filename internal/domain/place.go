package domain

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type OpenStatus string

const (
	OpenStatusUnknown OpenStatus = "unknown"
	OpenStatusOpen    OpenStatus = "open"
	OpenStatusClosed  OpenStatus = "closed"
)

// DefaultPriceTier applies to places the backend reports without a price level.
const DefaultPriceTier = 2

// Place is one venue as returned by the search backend. The JSON shape is the
// backend's and is also the shape persisted for favorite records.
type Place struct {
	ID          string   `json:"place_id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Rating      *float64 `json:"rating"`
	RatingCount *int     `json:"user_ratings_total"`
	PriceLevel  *int     `json:"price_level"`
	IsOpen      *bool    `json:"is_open"`
	Hours       []string `json:"hours,omitempty"`
	PhotoURL    *string  `json:"photo_url"`
}

func (p Place) Location() Coordinate {
	return Coordinate{Lat: p.Lat, Lng: p.Lng}
}

func (p Place) PriceTier() int {
	if p.PriceLevel == nil || *p.PriceLevel <= 0 {
		return DefaultPriceTier
	}
	return *p.PriceLevel
}

func (p Place) RatingValue() (float64, bool) {
	if p.Rating == nil {
		return 0, false
	}
	return *p.Rating, true
}

func (p Place) OpenStatus() OpenStatus {
	switch {
	case p.IsOpen == nil:
		return OpenStatusUnknown
	case *p.IsOpen:
		return OpenStatusOpen
	default:
		return OpenStatusClosed
	}
}

type SearchResult struct {
	Places      []Place     `json:"cafes"`
	Location    string      `json:"location,omitempty"`
	Coordinates *Coordinate `json:"coordinates,omitempty"`
}

type ClientConfig struct {
	MapsAPIKey string `json:"googleMapsApiKey"`
}

// FindPlace returns the place with the given id, if any.
func FindPlace(places []Place, id string) (Place, bool) {
	for _, p := range places {
		if p.ID == id {
			return p, true
		}
	}
	return Place{}, false
}
