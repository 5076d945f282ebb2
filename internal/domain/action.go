package domain

import "fmt"

// Action identifies one user command. Buttons post an Action value rather
// than their label text.
type Action string

const (
	ActionSearch         Action = "search"
	ActionNearMe         Action = "near_me"
	ActionTopRated       Action = "top_rated"
	ActionMapView        Action = "map_view"
	ActionListView       Action = "list_view"
	ActionApplyFilters   Action = "apply_filters"
	ActionResetFilters   Action = "reset_filters"
	ActionToggleFavorite Action = "toggle_favorite"
	ActionToggleTheme    Action = "toggle_theme"
	ActionDirections     Action = "directions"
	ActionClearRoute     Action = "clear_route"
)

var knownActions = map[Action]struct{}{
	ActionSearch:         {},
	ActionNearMe:         {},
	ActionTopRated:       {},
	ActionMapView:        {},
	ActionListView:       {},
	ActionApplyFilters:   {},
	ActionResetFilters:   {},
	ActionToggleFavorite: {},
	ActionToggleTheme:    {},
	ActionDirections:     {},
	ActionClearRoute:     {},
}

func ParseAction(raw string) (Action, error) {
	a := Action(raw)
	if _, ok := knownActions[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
	}
	return a, nil
}
