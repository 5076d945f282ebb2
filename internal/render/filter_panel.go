package render

import (
	"strconv"

	"github.com/njprem/NoirBrew_Web/internal/domain"
)

type filterOption struct {
	Label  string
	Value  string
	Active bool
}

type filterGroup struct {
	Facet   domain.FilterFacet
	Title   string
	Single  bool
	Options []filterOption
}

type filterPanel struct {
	Groups     []filterGroup
	DistanceKm int
}

var filterChoices = []struct {
	facet   domain.FilterFacet
	title   string
	single  bool
	options [][2]string
}{
	{domain.FacetRating, "Rating", true, [][2]string{{"Any", domain.RatingAny}, {"3.5+", "3.5"}, {"4.0+", "4.0"}, {"4.5+", "4.5"}}},
	{domain.FacetPrice, "Price", false, [][2]string{{"₹", "1"}, {"₹₹", "2"}, {"₹₹₹", "3"}, {"₹₹₹₹", "4"}}},
	{domain.FacetAmbience, "Ambience", false, [][2]string{{"Indoor", "indoor"}, {"Outdoor", "outdoor"}, {"Open Air", "open-air"}}},
	{domain.FacetDiet, "Diet", false, [][2]string{{"Veg", "veg"}, {"Non-Veg", "non-veg"}, {"Vegan", "vegan"}}},
	{domain.FacetExperience, "Experience", false, [][2]string{{"Fine Dining", "fine-dining"}, {"Casual", "casual"}, {"Work Friendly", "work-friendly"}}},
}

func newFilterPanel(c domain.FilterCriteria) filterPanel {
	panel := filterPanel{DistanceKm: c.DistanceKm}
	for _, choice := range filterChoices {
		g := filterGroup{Facet: choice.facet, Title: choice.title, Single: choice.single}
		for _, opt := range choice.options {
			g.Options = append(g.Options, filterOption{
				Label:  opt[0],
				Value:  opt[1],
				Active: isSelected(c, choice.facet, opt[1]),
			})
		}
		panel.Groups = append(panel.Groups, g)
	}
	return panel
}

func isSelected(c domain.FilterCriteria, facet domain.FilterFacet, value string) bool {
	switch facet {
	case domain.FacetRating:
		if value == domain.RatingAny {
			_, set := c.MinRating()
			return !set
		}
		want, err := strconv.ParseFloat(value, 64)
		got, set := c.MinRating()
		return err == nil && set && want == got
	case domain.FacetPrice:
		return contains(c.Price, value)
	case domain.FacetAmbience:
		return contains(c.Ambience, value)
	case domain.FacetDiet:
		return contains(c.Diet, value)
	case domain.FacetExperience:
		return contains(c.Experience, value)
	}
	return false
}
