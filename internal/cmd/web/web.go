// Package web parses web command flags and composes the display page server.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/louisbranch/demofront/internal/display"
	entrypoint "github.com/louisbranch/demofront/internal/platform/cmd"
	"github.com/louisbranch/demofront/internal/platform/logging"
	"github.com/louisbranch/demofront/internal/platform/timeouts"
	"github.com/louisbranch/demofront/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr       string        `env:"DEMOFRONT_WEB_HTTP_ADDR"     envDefault:"localhost:3000"`
	Variant        string        `env:"DEMOFRONT_VARIANT"           envDefault:"compose-fullstack"`
	Endpoint       string        `env:"DEMOFRONT_ENDPOINT"`
	OriginURL      string        `env:"DEMOFRONT_ORIGIN_URL"`
	APIUpstreamURL string        `env:"DEMOFRONT_API_UPSTREAM_URL"`
	APIStripPrefix bool          `env:"DEMOFRONT_API_STRIP_PREFIX"`
	MountTTL       time.Duration `env:"DEMOFRONT_MOUNT_TTL"         envDefault:"30s"`
	MaxPending     int           `env:"DEMOFRONT_MAX_PENDING_MOUNTS" envDefault:"1024"`
	LogLevel       string        `env:"DEMOFRONT_LOG_LEVEL"         envDefault:"info"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.Variant, "variant", cfg.Variant, "display variant (ci-pipeline, compose-fullstack)")
	fs.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "backend endpoint, overrides the variant default")
	fs.StringVar(&cfg.OriginURL, "origin-url", cfg.OriginURL, "base URL for relative endpoints")
	fs.StringVar(&cfg.APIUpstreamURL, "api-upstream-url", cfg.APIUpstreamURL, "backend URL proxied under /api/")
	fs.BoolVar(&cfg.APIStripPrefix, "api-strip-prefix", cfg.APIStripPrefix, "strip /api before proxying")
	fs.DurationVar(&cfg.MountTTL, "mount-ttl", cfg.MountTTL, "how long an uncollected display stays mounted")
	fs.IntVar(&cfg.MaxPending, "max-pending-mounts", cfg.MaxPending, "cap on displays waiting for collection")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "diagnostic log level")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.MountTTL <= 0 {
		cfg.MountTTL = timeouts.MountTTL
	}
	return cfg, nil
}

// Run starts the display page server.
func Run(ctx context.Context, cfg Config) error {
	variant, err := display.LookupVariant(cfg.Variant)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Service: entrypoint.ServiceWeb})
	if err != nil {
		return err
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(web.Config{
			HTTPAddr:         cfg.HTTPAddr,
			Variant:          variant,
			Endpoint:         cfg.Endpoint,
			OriginURL:        cfg.OriginURL,
			APIUpstreamURL:   cfg.APIUpstreamURL,
			APIStripPrefix:   cfg.APIStripPrefix,
			MountTTL:         cfg.MountTTL,
			MaxPendingMounts: cfg.MaxPending,
			Logger:           logger,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
