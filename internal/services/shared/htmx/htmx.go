// Package htmx renders pages that double as htmx partial targets.
package htmx

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// RequestHeaderKey is the HTMX request header used to detect partial updates.
const RequestHeaderKey = "HX-Request"

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeaderKey), "true")
}

// LoadTrigger returns the attributes that make an element replace itself with
// the response of a GET to path as soon as it is loaded.
func LoadTrigger(path string) templ.Attributes {
	return templ.Attributes{
		"hx-get":     path,
		"hx-trigger": "load",
		"hx-swap":    "outerHTML",
	}
}

// RenderPage renders fragment for HTMX requests and full otherwise.
//
// If one of them is nil the other is used for both paths. The component is
// rendered to a buffer first so a render failure becomes a clean 500.
func RenderPage(w http.ResponseWriter, r *http.Request, fragment templ.Component, full templ.Component, statusCode int) {
	if w == nil {
		return
	}
	target := full
	if IsHTMXRequest(r) && fragment != nil {
		target = fragment
	}
	if target == nil {
		target = fragment
	}
	if target == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}

	ctx := context.Background()
	if r != nil {
		ctx = r.Context()
	}
	var buf bytes.Buffer
	if err := target.Render(ctx, &buf); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Vary", RequestHeaderKey)
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
}
