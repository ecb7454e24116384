// Command migrate runs schema operations for the backend.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"postboard/internal/config"
	"postboard/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// opener loads configuration and connects without applying any schema.
type opener func() (*config.Config, *gorm.DB, error)

func openDefault() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(openDefault).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Database schema operations",
		SilenceUsage: true,
	}

	// withDB runs fn against a freshly opened connection.
	withDB := func(fn func(ctx context.Context, out io.Writer, cfg *config.Config, db *gorm.DB) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()
			return fn(cmd.Context(), cmd.OutOrStdout(), cfg, db)
		}
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending SQL migrations",
		Args:  cobra.NoArgs,
		RunE: withDB(func(ctx context.Context, out io.Writer, _ *config.Config, db *gorm.DB) error {
			if err := database.RunMigrations(ctx, db); err != nil {
				return fmt.Errorf("sql migrations failed: %w", err)
			}
			fmt.Fprintln(out, "sql migrations applied")
			return nil
		}),
	}

	auto := &cobra.Command{
		Use:   "auto",
		Short: "Reconcile the schema with GORM AutoMigrate",
		Args:  cobra.NoArgs,
		RunE: withDB(func(ctx context.Context, out io.Writer, cfg *config.Config, db *gorm.DB) error {
			cfg.DBSchemaMode = database.SchemaModeAuto
			if err := database.ApplySchema(ctx, db, cfg); err != nil {
				return fmt.Errorf("auto schema apply failed: %w", err)
			}
			fmt.Fprintln(out, "automigrations applied")
			return nil
		}),
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: withDB(func(ctx context.Context, out io.Writer, cfg *config.Config, db *gorm.DB) error {
			s, err := database.GetSchemaStatus(ctx, db, cfg)
			if err != nil {
				return fmt.Errorf("schema status failed: %w", err)
			}
			fmt.Fprintf(out, "mode=%s env=%s dialect=%s run_sql=%t run_auto=%t applied=%d pending=%d\n",
				s.Mode, s.Environment, s.Dialect, s.WillRunSQL, s.WillRunAutoMigrate,
				len(s.AppliedVersions), len(s.PendingMigrations))
			for _, m := range s.PendingMigrations {
				fmt.Fprintf(out, "pending: %s\n", m.String())
			}
			return nil
		}),
	}

	down := &cobra.Command{
		Use:   "down <version>",
		Short: "Roll back one applied migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return withDB(func(ctx context.Context, out io.Writer, _ *config.Config, db *gorm.DB) error {
				if err := database.RollbackMigration(ctx, db, version); err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
				fmt.Fprintf(out, "rolled back migration %d\n", version)
				return nil
			})(cmd, args)
		},
	}

	root.AddCommand(up, auto, status, down)
	return root
}
