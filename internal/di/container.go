// Package di wires the engine's components in dependency order:
// configuration drives the logger, both open the history store, and
// the detector, strategy registry, and resolver stack on top.
package di

import (
	"fmt"

	"gridline-schedule-engine/internal/config"
	"gridline-schedule-engine/internal/detect"
	"gridline-schedule-engine/internal/history"
	"gridline-schedule-engine/internal/logging"
	"gridline-schedule-engine/internal/resolve"
	"gridline-schedule-engine/internal/strategy"
)

// Container holds the wired engine components. Fields are exported so
// commands can reach whichever layer they need.
type Container struct {
	Config   *config.Config
	Logger   logging.Logger
	History  history.Store
	Registry *strategy.Registry
	Detector *detect.Detector
	Resolver *resolve.Resolver
}

// NewContainer wires a container from the given configuration. A nil
// config loads from the environment.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		loaded, err := config.LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	c := &Container{Config: cfg}
	c.Logger = logging.NewWithFormat(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)

	store, err := history.Open(cfg, c.Logger)
	if err != nil {
		return nil, err
	}
	c.History = store

	opts := cfg.ResolverOptions()
	c.Registry = strategy.NewRegistry(cfg.Engine.PolicyWindowDays)
	c.Detector = detect.NewDetector(c.Logger, detect.WithOptions(opts))
	c.Resolver = resolve.NewResolver(c.Detector, c.Registry, c.History, c.Logger, resolve.WithOptions(opts))

	return c, nil
}

// Close releases backend resources. Safe to call on a partially built
// container.
func (c *Container) Close() error {
	if c.History != nil {
		if err := c.History.Close(); err != nil {
			return fmt.Errorf("failed to close history store: %w", err)
		}
	}
	return nil
}
