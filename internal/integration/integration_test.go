package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"questboard/internal/app"
	"questboard/internal/domain"
	"questboard/internal/infra/memory"
	"questboard/internal/infra/postgres"
	pgmigrations "questboard/internal/infra/postgres/migrations"
	infraredis "questboard/internal/infra/redis"
)

func TestClassroomEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	catalog := domain.DefaultCatalog("https://assets.test/")
	seedClassroom(t, ctx, pgURL, memory.DemoSeed())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	cache := infraredis.NewSeedCache(redisClient, postgres.NewSeedLoader(pool), 5*time.Minute)
	seed, err := cache.LoadSeed(ctx)
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	if len(seed.Students) != 5 || len(seed.Quests) != 3 {
		t.Fatalf("expected 5 students and 3 quests, got %d and %d", len(seed.Students), len(seed.Quests))
	}
	if seed.Students[0].HeroName != "Sir Lancelot" {
		t.Fatalf("expected roster order to survive, got %s first", seed.Students[0].HeroName)
	}
	if seed.Students[1].FinalGPA != nil {
		t.Fatalf("expected no final grade for Lady Arwen, got %v", *seed.Students[1].FinalGPA)
	}

	// Second load is served from Redis and must keep the quiz answer.
	cached, err := cache.LoadSeed(ctx)
	if err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if cached.Quests[2].CorrectAnswer != "piano" {
		t.Fatalf("expected cached quiz answer, got %q", cached.Quests[2].CorrectAnswer)
	}

	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewGameService(cached, catalog, sessions)

	session, err := service.Login(ctx, domain.RoleStudent, "3")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := service.AttemptQuiz(session.StudentID, "103", "Piano"); err != nil {
		t.Fatalf("attempt quiz: %v", err)
	}
	sub, err := service.SubmitQuest(session.StudentID, "102", "poster.png")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.ApproveSubmission(sub.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	me, err := service.CurrentUser(ctx, session.Token)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if me.XP != 920 || me.Gold != 605 {
		t.Fatalf("expected 920 xp and 605 gold, got %d and %d", me.XP, me.Gold)
	}

	lb, err := service.Leaderboard(domain.CategoryWealthy)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if lb.Entries[0].StudentID != "5" || lb.Entries[1].StudentID != "3" {
		t.Fatalf("unexpected wealthy order: %+v", lb.Entries)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quest", "POSTGRES_PASSWORD": "questpass", "POSTGRES_DB": "questboard"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quest:questpass@%s:%s/questboard?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedClassroom(t *testing.T, ctx context.Context, dsn string, seed domain.Seed) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := postgres.NewSeedWriter(db).WriteSeed(ctx, seed); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	// Writing twice upserts instead of failing.
	if err := postgres.NewSeedWriter(db).WriteSeed(ctx, seed); err != nil {
		t.Fatalf("rewrite seed: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
