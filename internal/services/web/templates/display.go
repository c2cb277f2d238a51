package templates

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/demofront/internal/display"
)

// PanelID is the DOM id of the element that holds the display state.
const PanelID = "display-panel"

// panelMessage returns the localized placeholder while loading and the
// fetched message afterwards.
func panelMessage(loc Localizer, state display.State) string {
	if state.Phase == display.PhaseLoading {
		return T(loc, "display.loading")
	}
	return state.Message
}

func badgeAttrs(badge display.Badge) templ.Attributes {
	color := strings.TrimSpace(badge.Color)
	if color == "" {
		return nil
	}
	return templ.Attributes{"style": "background: " + color}
}
