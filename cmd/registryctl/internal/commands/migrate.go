package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jhoicas/taxpayer-registry/internal/infrastructure/migrate"
	"github.com/jhoicas/taxpayer-registry/internal/infrastructure/postgres"
)

type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" help:"Apply every pending migration."`
	Down   MigrateDownCmd   `cmd:"" help:"Roll back the latest migration."`
	Status MigrateStatusCmd `cmd:"" help:"List applied and pending migrations."`
}

type MigrateUpCmd struct{}

func (c *MigrateUpCmd) Run(ctx context.Context, g *Globals) error {
	return withManager(ctx, g, func(m *migrate.Manager) error {
		log := newLogger(g)
		applied, err := m.Up(ctx)
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("applied")
		}
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			log.Info().Msg("schema is up to date")
		}
		return nil
	})
}

type MigrateDownCmd struct{}

func (c *MigrateDownCmd) Run(ctx context.Context, g *Globals) error {
	return withManager(ctx, g, func(m *migrate.Manager) error {
		name, err := m.Down(ctx)
		if errors.Is(err, migrate.ErrNothingToRollback) {
			newLogger(g).Info().Msg("nothing to roll back")
			return nil
		}
		if err != nil {
			return err
		}
		newLogger(g).Info().Str("migration", name).Msg("rolled back")
		return nil
	})
}

type MigrateStatusCmd struct{}

func (c *MigrateStatusCmd) Run(ctx context.Context, g *Globals) error {
	return withManager(ctx, g, func(m *migrate.Manager) error {
		applied, err := m.Status(ctx)
		if err != nil {
			return err
		}
		pending, err := m.Pending(ctx)
		if err != nil {
			return err
		}
		for _, name := range applied {
			fmt.Printf("applied  %s\n", name)
		}
		for _, name := range pending {
			fmt.Printf("pending  %s\n", name)
		}
		return nil
	})
}

func withManager(ctx context.Context, g *Globals, fn func(m *migrate.Manager) error) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	db, err := sql.Open("pgx", cfg.DB.ConnectionString())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return fn(migrate.NewManager(db, postgres.Migrations()))
}
