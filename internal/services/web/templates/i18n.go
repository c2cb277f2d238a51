package templates

import (
	"fmt"

	"golang.org/x/text/message"
)

// Localizer translates the static strings of the display page.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T translates key, falling back to the key itself when no localizer is set.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	keyString, ok := key.(string)
	if !ok {
		return ""
	}
	if len(args) == 0 {
		return keyString
	}
	return fmt.Sprintf(keyString, args...)
}
