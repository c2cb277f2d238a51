// Package tui parses terminal front-end flags and runs the bubbletea program.
package tui

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/louisbranch/demofront/internal/display"
	entrypoint "github.com/louisbranch/demofront/internal/platform/cmd"
	"github.com/louisbranch/demofront/internal/platform/logging"
	tuisvc "github.com/louisbranch/demofront/internal/services/tui"
	"go.uber.org/zap"
)

// Config holds the terminal front-end configuration.
type Config struct {
	Variant   string `env:"DEMOFRONT_VARIANT"    envDefault:"compose-fullstack"`
	Endpoint  string `env:"DEMOFRONT_ENDPOINT"`
	OriginURL string `env:"DEMOFRONT_ORIGIN_URL" envDefault:"http://localhost:3000"`
	LogLevel  string `env:"DEMOFRONT_LOG_LEVEL"  envDefault:"info"`
	// LogFile receives diagnostics since the terminal belongs to the UI.
	LogFile string `env:"DEMOFRONT_LOG_FILE" envDefault:"demofront-tui.log"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Variant, "variant", cfg.Variant, "display variant (ci-pipeline, compose-fullstack)")
	fs.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "backend endpoint, overrides the variant default")
	fs.StringVar(&cfg.OriginURL, "origin-url", cfg.OriginURL, "base URL for relative endpoints")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "diagnostic log level")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "diagnostic log file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run shows the display in the terminal until the user quits or ctx ends.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Output: cfg.LogFile, Service: entrypoint.ServiceTUI})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	model, component, err := newModel(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer component.Unmount()

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTUI, func(ctx context.Context) error {
		return runProgram(ctx, model, nil, nil)
	})
}

// newModel builds the display for cfg and the model rendering it.
func newModel(cfg Config, logger *zap.Logger, client display.Doer) (tuisvc.Model, *display.Component, error) {
	variant, err := display.LookupVariant(cfg.Variant)
	if err != nil {
		return tuisvc.Model{}, nil, err
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = variant.Endpoint
	}
	component, err := display.New(display.Options{
		Endpoint: endpoint,
		BaseURL:  cfg.OriginURL,
		Client:   client,
		Logger:   logger,
	})
	if err != nil {
		return tuisvc.Model{}, nil, fmt.Errorf("configure display: %w", err)
	}
	return tuisvc.New(variant, component), component, nil
}

// runProgram runs model in the alternate screen. Nil input and output use the
// process terminal.
func runProgram(ctx context.Context, model tea.Model, in io.Reader, out io.Writer) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if in != nil || out != nil {
		opts = append(opts, tea.WithInput(in), tea.WithOutput(out))
	} else {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
