// Package timeouts holds the durations shared by the demofront servers.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// MountTTL bounds how long the web service keeps a mounted display waiting
// for the browser to collect its settled fragment.
const MountTTL = 30 * time.Second
