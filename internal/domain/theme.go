package domain

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme returns fallback for anything other than "light" or "dark".
func ParseTheme(raw string, fallback Theme) Theme {
	switch Theme(raw) {
	case ThemeDark, ThemeLight:
		return Theme(raw)
	default:
		return fallback
	}
}

func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewMap  ViewMode = "map"
)
