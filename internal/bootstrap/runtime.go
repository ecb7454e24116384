package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"postboard/internal/cache"
	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/middleware"
	"postboard/internal/observability"
	"postboard/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedFixtures bool
}

// InitRuntime connects to DB and Redis, applies the schema for the configured
// mode and optionally seeds the built-in fixtures.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	observability.SetLogger(middleware.Logger)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("schema apply failed: %w", err)
	}

	if opts.SeedFixtures {
		if err := seedFixtures(ctx, db); err != nil {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("failed to seed fixtures: %w", err)
		}
	}

	// May result in nil client if unreachable
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	return db, r, nil
}

func seedFixtures(ctx context.Context, db *gorm.DB) error {
	f, err := seed.DefaultFixtures()
	if err != nil {
		return err
	}
	res, err := seed.NewSeeder(db, middleware.Logger).Apply(ctx, f)
	if err != nil {
		return err
	}
	middleware.Logger.Info("built-in fixtures ensured",
		slog.Int("users_created", res.UsersCreated),
		slog.Int("posts_created", res.PostsCreated),
	)
	return nil
}
