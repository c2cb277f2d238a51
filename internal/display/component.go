package display

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/louisbranch/demofront/internal/display"

// ErrUnmounted is returned by Wait when the component was unmounted before
// the fetch settled.
var ErrUnmounted = errors.New("display unmounted before fetch settled")

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Options configures a Component.
type Options struct {
	// Endpoint is the fixed address fetched on mount. It may be absolute or a
	// path relative to BaseURL.
	Endpoint string
	// BaseURL resolves relative endpoints. Ignored for absolute ones.
	BaseURL string
	Client  Doer
	Logger  *zap.Logger
	Metrics *Metrics
	Tracer  trace.Tracer
}

// Component fetches and holds the message for one mount.
type Component struct {
	endpoint string
	target   string
	client   Doer
	logger   *zap.Logger
	metrics  *Metrics
	tracer   trace.Tracer

	mountOnce sync.Once
	done      chan struct{}

	mu        sync.Mutex
	state     State
	cancel    context.CancelFunc
	unmounted bool
}

// New validates opts and returns an unmounted Component in the Loading state.
func New(opts Options) (*Component, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	target, err := resolveEndpoint(endpoint, opts.BaseURL)
	if err != nil {
		return nil, err
	}

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Component{
		endpoint: endpoint,
		target:   target,
		client:   client,
		logger:   logger,
		metrics:  opts.Metrics,
		tracer:   tracer,
		done:     make(chan struct{}),
		state:    InitialState(),
	}, nil
}

func resolveEndpoint(endpoint, base string) (string, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	base = strings.TrimSpace(base)
	if base == "" {
		return "", fmt.Errorf("relative endpoint %q requires a base URL", endpoint)
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base URL %q: %w", base, err)
	}
	if !baseURL.IsAbs() {
		return "", fmt.Errorf("base URL %q must be absolute", base)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// Endpoint returns the configured endpoint as given.
func (c *Component) Endpoint() string {
	return c.endpoint
}

// Target returns the absolute URL the fetch is sent to.
func (c *Component) Target() string {
	return c.target
}

// Mount starts the fetch. Only the first call has any effect; the call returns
// before the fetch completes.
func (c *Component) Mount(ctx context.Context) {
	c.mountOnce.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		fetchCtx, cancel := context.WithCancel(ctx)
		c.mu.Lock()
		c.cancel = cancel
		c.mu.Unlock()
		c.metrics.mountStarted()
		go c.run(fetchCtx)
	})
}

// Unmount abandons the component. An in-flight fetch is cancelled and its
// result, should it still arrive, is discarded. Unmounting a component that was
// never mounted prevents any later Mount from fetching.
func (c *Component) Unmount() {
	c.mountOnce.Do(func() {
		close(c.done)
	})
	c.mu.Lock()
	c.unmounted = true
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// State returns the current snapshot. It never blocks on the fetch.
func (c *Component) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the fetch has settled or been abandoned.
func (c *Component) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the fetch settles or ctx ends.
func (c *Component) Wait(ctx context.Context) (State, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-c.done:
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}
	state := c.State()
	if !state.Phase.Terminal() {
		return state, ErrUnmounted
	}
	return state, nil
}

func (c *Component) run(ctx context.Context) {
	defer close(c.done)
	defer c.metrics.mountFinished()

	start := time.Now()
	message, err := c.fetch(ctx)
	elapsed := time.Since(start)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	if c.unmounted {
		c.mu.Unlock()
		c.metrics.observe(outcomeAbandoned, elapsed)
		c.logger.Debug("display fetch abandoned", zap.String("endpoint", c.endpoint))
		return
	}
	if err != nil {
		c.state = erroredState()
	} else {
		c.state = loadedState(message)
	}
	c.mu.Unlock()

	if err != nil {
		c.metrics.observe(outcomeError, elapsed)
		c.logger.Error("display fetch failed",
			zap.String("endpoint", c.endpoint),
			zap.String("target", c.target),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return
	}
	c.metrics.observe(outcomeSuccess, elapsed)
}
