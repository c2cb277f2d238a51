// Package web serves the display page to browsers.
//
// A page request mounts a display and answers immediately with the Loading
// placeholder. The placeholder pulls the settled state from a second route
// keyed by the mount id, so the first render never waits on the backend.
package web
