package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"questboard/internal/app"
	"questboard/internal/config"
	"questboard/internal/domain"
	"questboard/internal/infra/memory"
	"questboard/internal/infra/postgres"
	redisinfra "questboard/internal/infra/redis"
	transport "questboard/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = newRedisClient(cfg)
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	seed, err := loadSeed(ctx, cfg, redisClient, pool)
	if err != nil {
		return err
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, config.TTLDuration(cfg.Session.TTL, 24*time.Hour))
	} else {
		store = memory.NewSessionStore()
	}

	service := app.NewGameService(seed, domain.DefaultCatalog(cfg.Game.AssetBaseURL), store, app.WithLocation(loc))
	handler := transport.NewHandler(service)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     handler.Routes(),
		ReadTimeout: 15 * time.Second,
		// WriteTimeout stays unset for long-lived websocket connections.
	}

	go func() {
		log.Printf("starting questboard on :%s with %d students and %d quests", finalPort, len(seed.Students), len(seed.Quests))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// loadSeed picks the starting classroom: Postgres when configured (cached in
// Redis when that is configured too), otherwise the built-in demo class.
func loadSeed(ctx context.Context, cfg config.Config, client *redis.Client, pool *pgxpool.Pool) (domain.Seed, error) {
	demo := memory.NewStaticSeedLoader(memory.DemoSeed())
	if pool == nil {
		return demo.LoadSeed(ctx)
	}

	var loader app.SeedLoader = postgres.NewSeedLoader(pool)
	if client != nil {
		loader = redisinfra.NewSeedCache(client, loader, config.TTLDuration(cfg.Redis.SeedTTL, 10*time.Minute))
	}
	seed, err := loader.LoadSeed(ctx)
	if err != nil {
		return domain.Seed{}, err
	}
	if len(seed.Students) == 0 {
		log.Printf("no students in postgres, run `questboard seed`; using the demo class")
		return demo.LoadSeed(ctx)
	}
	return seed, nil
}
