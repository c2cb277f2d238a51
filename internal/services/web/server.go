package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/demofront/internal/display"
	"github.com/louisbranch/demofront/internal/platform/timeouts"
	"github.com/louisbranch/demofront/internal/services/web/routepath"
	"github.com/louisbranch/demofront/internal/services/web/static"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const defaultMaxPendingMounts = 1024

// Config defines the inputs for the web service.
type Config struct {
	HTTPAddr string
	Variant  display.Variant
	// Endpoint overrides Variant.Endpoint when non-empty.
	Endpoint string
	// OriginURL resolves relative endpoints. Defaults to the listen address.
	OriginURL string
	// APIUpstreamURL enables the /api/ reverse proxy when non-empty.
	APIUpstreamURL string
	APIStripPrefix bool
	MountTTL       time.Duration
	// MaxPendingMounts caps displays waiting for collection. Page requests
	// past the cap get 503.
	MaxPendingMounts int
	Client           display.Doer
	Logger           *zap.Logger
	// Registry receives the service collectors; a private registry is used
	// when nil.
	Registry *prometheus.Registry
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	handler    *handler
	logger     *zap.Logger
}

// NewServer builds the HTTP server for cfg.
func NewServer(cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	cfg.HTTPAddr = httpAddr
	h, err := newHandler(cfg)
	if err != nil {
		return nil, err
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           h,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		handler: h,
		logger:  h.logger,
	}, nil
}

// NewHandler creates the HTTP handler for the display page.
func NewHandler(cfg Config) (http.Handler, error) {
	return newHandler(cfg)
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Info("web listening",
		zap.String("addr", s.httpAddr),
		zap.String("variant", s.handler.variant.Name),
		zap.String("endpoint", s.handler.endpoint))
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close unmounts every display still waiting for its fragment request.
func (s *Server) Close() {
	if s == nil || s.handler == nil {
		return
	}
	s.handler.mounts.close()
	_ = s.logger.Sync()
}

func newHandler(cfg Config) (*handler, error) {
	variant := cfg.Variant
	if strings.TrimSpace(variant.Name) == "" {
		return nil, errors.New("variant is required")
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = variant.Endpoint
	}
	originURL := strings.TrimSpace(cfg.OriginURL)
	if originURL == "" {
		originURL = defaultOriginURL(cfg.HTTPAddr)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	mountTTL := cfg.MountTTL
	if mountTTL <= 0 {
		mountTTL = timeouts.MountTTL
	}
	maxPending := cfg.MaxPendingMounts
	if maxPending <= 0 {
		maxPending = defaultMaxPendingMounts
	}

	// Fail at startup rather than on the first page view.
	if _, err := display.New(display.Options{Endpoint: endpoint, BaseURL: originURL}); err != nil {
		return nil, fmt.Errorf("configure display: %w", err)
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("register runtime collectors: %w", err)
		}
	}
	metrics, err := display.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	h := &handler{
		variant:   variant,
		endpoint:  endpoint,
		originURL: originURL,
		client:    client,
		logger:    logger,
		metrics:   metrics,
		mounts:    newMountRegistry(mountTTL, maxPending),
		mux:       http.NewServeMux(),
	}

	h.mux.Handle("GET "+routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(static.FS))))
	h.mux.Handle("GET "+routepath.Metrics, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	h.mux.HandleFunc("GET "+routepath.Health, h.handleHealth)
	h.mux.HandleFunc("GET "+routepath.RootPattern, h.handleIndex)
	h.mux.HandleFunc("GET "+routepath.DisplayPattern, h.handleDisplay)

	if upstream := strings.TrimSpace(cfg.APIUpstreamURL); upstream != "" {
		proxy, err := newAPIProxy(upstream, cfg.APIStripPrefix, logger)
		if err != nil {
			return nil, err
		}
		h.mux.Handle(routepath.APIPrefix, proxy)
	}
	return h, nil
}

// defaultOriginURL derives the service's own origin from its listen address so
// relative endpoints reach the /api/ proxy mounted on the same server.
func defaultOriginURL(httpAddr string) string {
	host, port, err := net.SplitHostPort(strings.TrimSpace(httpAddr))
	if err != nil {
		return "http://" + strings.TrimSpace(httpAddr)
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
