// Package routepath stores canonical HTTP paths for the web service.
package routepath

import "net/url"

const (
	Root           = "/"
	RootPattern    = "/{$}"
	DisplayPrefix  = "/display/"
	DisplayPattern = DisplayPrefix + "{id}"
	Health         = "/healthz"
	Metrics        = "/metrics"
	StaticPrefix   = "/static/"
	APIPrefix      = "/api/"
)

// Display returns the fragment path for one mounted display.
func Display(id string) string {
	return DisplayPrefix + url.PathEscape(id)
}
