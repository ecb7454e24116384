// Command main runs the database seeder for Postboard.
package main

import (
	"context"
	"fmt"
	"os"

	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/middleware"
	"postboard/internal/seed"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type opener func(ctx context.Context) (*gorm.DB, error)

// openDefault connects and applies the configured schema so seeding works on
// a fresh database.
func openDefault(ctx context.Context) (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd(openDefault).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(open opener) *cobra.Command {
	var (
		fixturesPath string
		fakeUsers    int
		skipFixtures bool
	)

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Populate the database with fixture and fake data",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			db, err := open(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			s := seed.NewSeeder(db, middleware.Logger)

			if !skipFixtures {
				f, err := loadFixtures(fixturesPath)
				if err != nil {
					return err
				}
				res, err := s.Apply(ctx, f)
				if err != nil {
					return fmt.Errorf("fixture seeding failed: %w", err)
				}
				fmt.Fprintf(out, "fixtures: %d users, %d posts created\n", res.UsersCreated, res.PostsCreated)
			}

			if fakeUsers > 0 {
				res, err := s.Fake(ctx, fakeUsers)
				if err != nil {
					return fmt.Errorf("fake seeding failed: %w", err)
				}
				fmt.Fprintf(out, "fake: %d users, %d posts created\n", res.UsersCreated, res.PostsCreated)
			}

			fmt.Fprintln(out, "Database seeded successfully!")
			return nil
		},
	}

	cmd.Flags().StringVar(&fixturesPath, "fixtures", "", "YAML fixtures file (defaults to the built-in fixtures)")
	cmd.Flags().IntVar(&fakeUsers, "fake", 0, "Number of random users to create")
	cmd.Flags().BoolVar(&skipFixtures, "skip-fixtures", false, "Only create fake data")
	return cmd
}

func loadFixtures(path string) (*seed.Fixtures, error) {
	if path == "" {
		return seed.DefaultFixtures()
	}
	return seed.LoadFixtures(path)
}
