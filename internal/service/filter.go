package service

import (
	"sort"
	"strconv"

	"github.com/njprem/NoirBrew_Web/internal/domain"
)

// ApplyFilters returns the places matching criteria, in input order.
//
// Only the rating and price facets narrow the result. Distance, ambience,
// diet and experience are carried in the criteria but not applied; the
// decorative tags shown on cards are not real attributes to filter on.
func ApplyFilters(places []domain.Place, criteria domain.FilterCriteria) []domain.Place {
	minRating, byRating := criteria.MinRating()

	var prices map[string]struct{}
	if len(criteria.Price) > 0 {
		prices = make(map[string]struct{}, len(criteria.Price))
		for _, p := range criteria.Price {
			prices[p] = struct{}{}
		}
	}

	out := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if byRating {
			rating, ok := p.RatingValue()
			if !ok || rating < minRating {
				continue
			}
		}
		if prices != nil {
			if _, ok := prices[strconv.Itoa(p.PriceTier())]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// SortByRatingDescending returns a copy of places ordered by rating, highest
// first. Unrated places count as 0 and ties keep input order.
func SortByRatingDescending(places []domain.Place) []domain.Place {
	out := append(make([]domain.Place, 0, len(places)), places...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, _ := out[i].RatingValue()
		rj, _ := out[j].RatingValue()
		return ri > rj
	})
	return out
}
