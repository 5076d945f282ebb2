package domain

type RouteSummary struct {
	Origin          Coordinate `json:"origin"`
	Destination     Coordinate `json:"destination"`
	DestinationName string     `json:"destination_name"`
	DistanceText    string     `json:"distance"`
	DurationText    string     `json:"duration"`
}
