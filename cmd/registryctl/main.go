package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/jhoicas/taxpayer-registry/cmd/registryctl/internal/commands"
)

var version = "dev"

func main() {
	ctx := context.Background()
	var cli commands.CLI
	cmd := kong.Parse(&cli,
		kong.Name("registryctl"),
		kong.Description("Operational tasks for the taxpayer registry."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version, DatabaseURL: cli.DatabaseURL})
	cmd.FatalIfErrorf(err)
}
