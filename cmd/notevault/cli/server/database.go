package server

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mwantia/notevault/internal/agent"
	"github.com/mwantia/notevault/pkg/db/migrations"
	"github.com/spf13/cobra"

	config "github.com/mwantia/notevault/internal/config/server"
)

func NewDatabaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the metadata database schema",
		Long: `Manage the metadata database schema.

The schema moves through three generations: inline single-file records,
file assets referenced by records, and soft-deletable file assets.`,
	}

	cmd.AddCommand(newDatabaseMigrateCommand())
	cmd.AddCommand(newDatabaseStatusCommand())
	cmd.AddCommand(newDatabaseRollbackCommand())

	return cmd
}

func newDatabaseMigrateCommand() *cobra.Command {
	var version int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema generations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *migrations.Migrator) error {
				if version <= 0 {
					version = m.Latest()
				}
				if err := m.MigrateTo(ctx, version); err != nil {
					return err
				}

				current, err := m.Current(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schema is at generation %d\n", current)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&version, "to", 0, "stop at this generation, must not be below the applied one (default is the latest)")

	return cmd
}

func newDatabaseStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied schema generations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *migrations.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tAPPLIED\tDESCRIPTION")
				for _, status := range statuses {
					fmt.Fprintf(w, "%d\t%t\t%s\n", status.Version, status.Applied, status.Description)
				}
				return w.Flush()
			})
		},
	}
}

func newDatabaseRollbackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Revert the most recently applied schema generation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *migrations.Migrator) error {
				if err := m.Rollback(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Rolled back one generation")
				return nil
			})
		},
	}
}

func withMigrator(ctx context.Context, fn func(context.Context, *migrations.Migrator) error) error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load server configuration: %w", err)
	}

	a := agent.NewAgent(cfg)
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}()

	database, err := a.OpenDatabase(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, database.Migrator())
}
