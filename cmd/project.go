package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/chriserin/stepmatch/internal/catalog"
	"github.com/chriserin/stepmatch/internal/config"
	"github.com/chriserin/stepmatch/internal/db"
	"github.com/chriserin/stepmatch/internal/match"
	"github.com/chriserin/stepmatch/internal/registry"
)

func requireInit() error {
	if _, err := os.Stat(config.Dir); os.IsNotExist(err) {
		return fmt.Errorf("run `stepmatch init` first")
	}
	return nil
}

func loadConfig() (config.Config, error) {
	if err := requireInit(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(".")
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func openDB() (*sql.DB, error) {
	if err := requireInit(); err != nil {
		return nil, err
	}
	sqlDB, err := db.Open(config.DBPath("."))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return sqlDB, nil
}

// loadService builds the resolver over the catalog named by cfg.
func loadService(cfg config.Config) (*match.Service, *registry.Registry, error) {
	c, err := catalog.Load(cfg.Bindings)
	if err != nil {
		return nil, nil, fmt.Errorf("loading bindings: %w", err)
	}
	reg := registry.New()
	if err := c.Build(reg); err != nil {
		return nil, nil, fmt.Errorf("building registry: %w", err)
	}
	slog.Debug("bindings loaded", "path", cfg.Bindings, "count", len(reg.Bindings()))
	return match.NewService(reg, match.WithLogger(slog.Default())), reg, nil
}
