package render

import "fmt"

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// ResultsCount renders the results header, e.g. "3 spots found".
func ResultsCount(n int) string {
	return plural(n, "spot") + " found"
}

// SavedCount renders the favorites header, e.g. "1 saved spot".
func SavedCount(n int) string {
	return plural(n, "saved spot")
}

func ApplyButtonText(n int) string {
	return "Show " + plural(n, "cafe")
}
