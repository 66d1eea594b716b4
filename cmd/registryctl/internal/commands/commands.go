package commands

import (
	"github.com/alecthomas/kong"

	"github.com/jhoicas/taxpayer-registry/pkg/config"
	"github.com/jhoicas/taxpayer-registry/pkg/logger"
)

// CLI is the command tree of registryctl.
type CLI struct {
	Debug       bool             `help:"Enable debug logging."`
	Version     kong.VersionFlag `help:"Print the version and exit."`
	DatabaseURL string           `help:"PostgreSQL connection string; defaults to the application config." env:"DATABASE_URL"`

	Migrate   MigrateCmd   `cmd:"" help:"Manage the database schema."`
	Bootstrap BootstrapCmd `cmd:"" help:"Register an organization together with its admin user."`
}

type Globals struct {
	Debug       bool
	Version     string
	DatabaseURL string
}

func newLogger(g *Globals) *logger.Logger {
	level := "info"
	if g.Debug {
		level = "debug"
	}
	return logger.New(logger.Config{Env: "development", Level: level})
}

// loadConfig reads the application config; --database-url wins over it.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if g.DatabaseURL != "" {
		cfg.DB.DatabaseURL = g.DatabaseURL
	}
	return cfg, nil
}
