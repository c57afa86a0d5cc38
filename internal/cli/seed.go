package cli

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"questboard/internal/config"
	"questboard/internal/domain"
	"questboard/internal/infra/memory"
	"questboard/internal/infra/postgres"
	redisinfra "questboard/internal/infra/redis"
)

// NewSeedCmd writes the demo classroom to Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store the demo roster and quests in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg)
		},
	}
}

func runSeed(ctx context.Context, cfg config.Config) error {
	if err := runMigrations(ctx, cfg); err != nil {
		return err
	}
	db, err := openBunDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	seed := memory.DemoSeed()
	catalog := domain.DefaultCatalog(cfg.Game.AssetBaseURL)
	for i := range seed.Students {
		if seed.Students[i].CurrentBodySprite == "" {
			seed.Students[i].CurrentBodySprite = catalog.DefaultSprite
		}
	}
	if err := postgres.NewSeedWriter(db).WriteSeed(ctx, seed); err != nil {
		return err
	}
	log.Printf("seeded %d students and %d quests", len(seed.Students), len(seed.Quests))

	// Drop the cached copy so the next start reads the new rows.
	if cfg.Redis.Addr != "" {
		client := newRedisClient(cfg)
		defer client.Close()
		cache := redisinfra.NewSeedCache(client, nil, time.Minute)
		if err := cache.Invalidate(ctx); err != nil {
			log.Printf("seed cache invalidate failed: %v", err)
		}
	}
	return nil
}

func newRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
