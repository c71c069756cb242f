package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/shibukawa/snapdomain"
	"github.com/shibukawa/snapdomain/export"
)

// ExportCmd represents the export command
type ExportCmd struct {
	InputFlags

	// Database connection options
	Env string `help:"Environment name from configuration (default: export.default_environment)"`
	DSN string `help:"Database connection URL (postgres://, mysql://, sqlite://)" name:"dsn"`

	Table     string `help:"Result table name (default: the environment's table)"`
	BatchSize int    `help:"Rows per INSERT statement (0 uses export.batch_size, at most 6000)"`
	Max       int    `help:"Maximum number of results per document (0 uses the document or configured limit)"`
}

// Run executes the export command
func (cmd *ExportCmd) Run(ctx *Context) error {
	config, err := snapdomain.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	databaseURL, table, err := cmd.resolveDatabase(config)
	if err != nil {
		return fmt.Errorf("failed to resolve database connection: %w", err)
	}

	sources, err := cmd.loadSources(ctx, config)
	if err != nil {
		return err
	}

	domains, _, err := expandSources(ctx, sources, cmd.Max, cmd.parallelism(config), config)
	if err != nil {
		return err
	}

	batchSize := cmd.BatchSize
	if batchSize <= 0 {
		batchSize = config.Export.BatchSize
	}

	if ctx.Verbose {
		color.Blue("Exporting %d domains to table %s (batch size %d)", len(domains), table, batchSize)
	}

	run := export.NewRun(sourceNames(sources), domains)

	if err := export.Export(context.Background(), databaseURL, table, batchSize, run); err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}

	if !ctx.Quiet {
		color.Green("Exported %d domains to %s (run %s)", len(domains), table, run.ID)
	}

	return nil
}

// resolveDatabase determines the connection URL and table.
// Priority: --dsn > --env > export.default_environment.
func (cmd *ExportCmd) resolveDatabase(config *snapdomain.Config) (string, string, error) {
	if cmd.DSN != "" && cmd.Env != "" {
		return "", "", ErrDBAndEnvExclusive
	}

	table := cmd.Table

	if cmd.DSN != "" {
		if table == "" {
			table = snapdomain.DefaultTable
		}

		return cmd.DSN, table, nil
	}

	db, err := config.Database(cmd.Env)
	if errors.Is(err, snapdomain.ErrNoEnvironment) {
		return "", "", ErrMissingDBOrEnv
	}

	if err != nil {
		return "", "", err
	}

	databaseURL, err := export.ResolveURL(db.Driver, db.Connection)
	if err != nil {
		return "", "", err
	}

	if table == "" {
		table = db.Table
	}

	return databaseURL, table, nil
}
