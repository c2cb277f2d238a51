package web

import (
	"errors"
	"sync"
	"time"

	"github.com/louisbranch/demofront/internal/display"
	"github.com/louisbranch/demofront/internal/platform/id"
)

var (
	errRegistryClosed = errors.New("mount registry closed")
	errRegistryFull   = errors.New("mount registry full")
)

// mountRegistry keeps displays mounted by a page render until the browser
// collects their settled fragment. Entries left uncollected past ttl are
// unmounted. At most limit entries are pending at once.
type mountRegistry struct {
	ttl   time.Duration
	limit int
	newID func() (string, error)

	mu      sync.Mutex
	closed  bool
	entries map[string]*mountEntry
}

type mountEntry struct {
	component *display.Component
	timer     *time.Timer
}

func newMountRegistry(ttl time.Duration, limit int) *mountRegistry {
	return &mountRegistry{
		ttl:     ttl,
		limit:   limit,
		newID:   id.NewID,
		entries: make(map[string]*mountEntry),
	}
}

func (r *mountRegistry) add(c *display.Component) (string, error) {
	mountID, err := r.newID()
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", errRegistryClosed
	}
	if len(r.entries) >= r.limit {
		return "", errRegistryFull
	}
	r.entries[mountID] = &mountEntry{
		component: c,
		timer:     time.AfterFunc(r.ttl, func() { r.expire(mountID) }),
	}
	return mountID, nil
}

// take removes and returns the display registered under mountID.
func (r *mountRegistry) take(mountID string) (*display.Component, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[mountID]
	if !ok {
		return nil, false
	}
	delete(r.entries, mountID)
	entry.timer.Stop()
	return entry.component, true
}

func (r *mountRegistry) expire(mountID string) {
	r.mu.Lock()
	entry, ok := r.entries[mountID]
	if ok {
		delete(r.entries, mountID)
	}
	r.mu.Unlock()
	if ok {
		entry.component.Unmount()
	}
}

func (r *mountRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// close unmounts every pending display and rejects further adds.
func (r *mountRegistry) close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*mountEntry)
	r.closed = true
	r.mu.Unlock()
	for _, entry := range entries {
		entry.timer.Stop()
		entry.component.Unmount()
	}
}
