package mapview

import "github.com/njprem/NoirBrew_Web/internal/domain"

type Styler struct {
	Color      string `json:"color,omitempty"`
	Visibility string `json:"visibility,omitempty"`
}

type StyleRule struct {
	FeatureType string   `json:"featureType,omitempty"`
	ElementType string   `json:"elementType,omitempty"`
	Stylers     []Styler `json:"stylers"`
}

func colorRule(feature, element, color string) StyleRule {
	return StyleRule{FeatureType: feature, ElementType: element, Stylers: []Styler{{Color: color}}}
}

var darkStyles = []StyleRule{
	colorRule("", "geometry", "#1a1512"),
	colorRule("", "labels.text.stroke", "#1a1512"),
	colorRule("", "labels.text.fill", "#9e8c7b"),
	colorRule("administrative.locality", "labels.text.fill", "#d88a3b"),
	colorRule("poi", "labels.text.fill", "#9e8c7b"),
	colorRule("poi.park", "geometry", "#263c3f"),
	colorRule("poi.park", "labels.text.fill", "#6b9a76"),
	colorRule("road", "geometry", "#2d2520"),
	colorRule("road", "geometry.stroke", "#212a37"),
	colorRule("road", "labels.text.fill", "#9ca5b3"),
	colorRule("road.highway", "geometry", "#3d3026"),
	colorRule("road.highway", "geometry.stroke", "#1f2835"),
	colorRule("road.highway", "labels.text.fill", "#d88a3b"),
	colorRule("transit", "geometry", "#2f3948"),
	colorRule("transit.station", "labels.text.fill", "#d88a3b"),
	colorRule("water", "geometry", "#17263c"),
	colorRule("water", "labels.text.fill", "#515c6d"),
	colorRule("water", "labels.text.stroke", "#17263c"),
}

var lightStyles = []StyleRule{
	{FeatureType: "poi.business", Stylers: []Styler{{Visibility: "off"}}},
	colorRule("poi.park", "labels.text.fill", "#447530"),
}

// StylesFor returns the widget style rules for theme.
func StylesFor(theme domain.Theme) []StyleRule {
	if theme == domain.ThemeLight {
		return append([]StyleRule(nil), lightStyles...)
	}
	return append([]StyleRule(nil), darkStyles...)
}
