package app

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/km-arc/go-plant/framework/config"
	"github.com/km-arc/go-plant/framework/plant"
)

// Application bundles a configured Plant with its logger and blueprint
// providers. It embeds the Plant so fixtures can be defined and built on
// it directly.
type Application struct {
	*plant.Plant
	Config    *config.Config
	Logger    hclog.Logger
	Providers *ProviderRegistry
}

// New loads configuration from envFiles (default ".env") and the
// environment, and creates the application.
//
//	fixtures, err := app.New()
//	fixtures.Register(PeopleBlueprints{})
//	if err := fixtures.Boot(); err != nil { ... }
//	person := plant.MustCreate[Person](fixtures.Plant)
func New(envFiles ...string) (*Application, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, os.Stderr)
}

// NewWithConfig creates the application from an explicit config, logging
// to out.
func NewWithConfig(cfg *config.Config, out io.Writer) (*Application, error) {
	logger, err := newLogger(cfg, out)
	if err != nil {
		return nil, err
	}
	p := plant.New(
		plant.WithLogger(logger),
		plant.WithCopyLiterals(cfg.CopyLiterals),
	)
	return &Application{
		Plant:     p,
		Config:    cfg,
		Logger:    logger,
		Providers: NewProviderRegistry(p),
	}, nil
}

// Register adds blueprint providers. Providers registered after Boot are
// set up immediately.
func (a *Application) Register(providers ...plant.Provider) error {
	return a.Providers.Register(providers...)
}

// Boot sets up every registered provider once.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

func newLogger(cfg *config.Config, out io.Writer) (hclog.Logger, error) {
	level := hclog.LevelFromString(cfg.LogLevel)
	if level == hclog.NoLevel {
		return nil, fmt.Errorf("app: unknown log level %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("app: unknown log format %q", cfg.LogFormat)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       cfg.Name,
		Level:      level,
		JSONFormat: cfg.JSONLogs(),
		Output:     out,
	}), nil
}
