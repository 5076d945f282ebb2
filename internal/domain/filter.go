package domain

import (
	"strconv"
	"strings"
)

const (
	RatingAny             = "any"
	DefaultFilterDistance = 10
)

type FilterFacet string

const (
	FacetRating     FilterFacet = "rating"
	FacetPrice      FilterFacet = "price"
	FacetAmbience   FilterFacet = "ambience"
	FacetDiet       FilterFacet = "diet"
	FacetExperience FilterFacet = "experience"
)

// FilterCriteria is the state of the filter panel. Distance, Ambience, Diet
// and Experience are collected but not applied to results.
type FilterCriteria struct {
	Rating     string   `json:"rating"`
	Price      []string `json:"price"`
	DistanceKm int      `json:"distance"`
	Ambience   []string `json:"ambience"`
	Diet       []string `json:"diet"`
	Experience []string `json:"experience"`
}

func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{
		Rating:     RatingAny,
		Price:      []string{},
		DistanceKm: DefaultFilterDistance,
		Ambience:   []string{},
		Diet:       []string{},
		Experience: []string{},
	}
}

// MinRating returns the rating threshold, or false when rating is "any" or
// not a number.
func (f FilterCriteria) MinRating() (float64, bool) {
	raw := strings.TrimSpace(f.Rating)
	if raw == "" || raw == RatingAny {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (f *FilterCriteria) SetRating(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = RatingAny
	}
	f.Rating = value
}

// Select adds or removes value from a multi-select facet. Rating is single
// select and replaces the previous choice.
func (f *FilterCriteria) Select(facet FilterFacet, value string, on bool) {
	if facet == FacetRating {
		if on {
			f.SetRating(value)
		}
		return
	}
	set := f.facet(facet)
	if set == nil {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if on {
		*set = addUnique(*set, value)
	} else {
		*set = removeValue(*set, value)
	}
}

// Normalize collapses duplicate tags and restores defaults for empty fields.
func (f *FilterCriteria) Normalize() {
	f.SetRating(f.Rating)
	if f.DistanceKm <= 0 {
		f.DistanceKm = DefaultFilterDistance
	}
	for _, facet := range []FilterFacet{FacetPrice, FacetAmbience, FacetDiet, FacetExperience} {
		set := f.facet(facet)
		out := make([]string, 0, len(*set))
		for _, v := range *set {
			if v = strings.TrimSpace(v); v != "" {
				out = addUnique(out, v)
			}
		}
		*set = out
	}
}

func (f *FilterCriteria) facet(facet FilterFacet) *[]string {
	switch facet {
	case FacetPrice:
		return &f.Price
	case FacetAmbience:
		return &f.Ambience
	case FacetDiet:
		return &f.Diet
	case FacetExperience:
		return &f.Experience
	default:
		return nil
	}
}

func addUnique(values []string, value string) []string {
	for _, v := range values {
		if v == value {
			return values
		}
	}
	return append(values, value)
}

func removeValue(values []string, value string) []string {
	out := values[:0]
	for _, v := range values {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}
