package render

import (
	"math/rand/v2"
	"strings"

	"github.com/njprem/NoirBrew_Web/internal/domain"
)

// Tag is a label shown on a card.
type Tag struct {
	Label string
	Class string
}

// Picker chooses an index in [0, n).
type Picker interface {
	Pick(n int) int
}

type randomPicker struct{}

func (randomPicker) Pick(n int) int {
	return rand.IntN(n)
}

var (
	ambienceTags = []string{"Indoor", "Outdoor", "Open Air"}
	dietTags     = []string{"Veg", "Non-Veg", "Vegan"}
)

const maxTags = 4

// CardTags derives the tags for a card: a tier tag from the rating, then one
// ambience and one diet tag. The ambience and diet tags are decoration picked
// at random on every render; they are not attributes of the place and may
// change between renders of the same card.
func CardTags(p domain.Place, picker Picker) []Tag {
	tags := make([]Tag, 0, maxTags)
	if rating, ok := p.RatingValue(); ok {
		switch {
		case rating >= 4.5:
			tags = append(tags, Tag{Label: "Fine Dining", Class: "fine-dining"})
		case rating >= 3.5:
			tags = append(tags, Tag{Label: "Casual", Class: "casual"})
		}
	}

	ambience := ambienceTags[picker.Pick(len(ambienceTags))]
	tags = append(tags, Tag{Label: ambience, Class: tagClass(ambience)})
	diet := dietTags[picker.Pick(len(dietTags))]
	tags = append(tags, Tag{Label: diet, Class: tagClass(diet)})

	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

func tagClass(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "-")
}
