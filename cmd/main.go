package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jonboulle/clockwork"

	"github.com/shenikar/geo_event_pump/internal/config"
	"github.com/shenikar/geo_event_pump/internal/generator"
	"github.com/shenikar/geo_event_pump/internal/service"
	"github.com/shenikar/geo_event_pump/internal/sink"
	"github.com/shenikar/geo_event_pump/pkg/logger"
	"github.com/shenikar/geo_event_pump/pkg/postgres"
	redisclient "github.com/shenikar/geo_event_pump/pkg/redis"
	"github.com/sirupsen/logrus"
)

func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		cfg.MigrationsPath,
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// newSink подключается к выбранному журналу событий. cleanup закрывает соединения.
func newSink(ctx context.Context, cfg *config.Config, log *logrus.Logger) (service.AppendSink, func(), error) {
	switch cfg.SinkType {
	case config.SinkRedis:
		redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.MaxInFlight)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Successfully connected to Redis")
		return sink.NewRedisStreamSink(redisClient), func() { _ = redisClient.Close() }, nil

	case config.SinkPostgres:
		if err := runMigrations(cfg, log); err != nil {
			return nil, nil, err
		}
		dbpool, err := postgres.NewPostgresDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Successfully connected to PostgreSQL")
		return sink.NewPostgresSink(dbpool), dbpool.Close, nil

	default:
		log.Infof("Using EventStore at %s", cfg.EventStoreURL)
		return sink.NewEventStoreSink(cfg.EventStoreURL, cfg.EventStoreUser, cfg.EventStorePassword, cfg.EventStoreTimeout, cfg.MaxInFlight), func() {}, nil
	}
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Прерывание по сигналу отменяет все незавершенные добавления
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting...")

	appendSink, cleanup, err := newSink(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to %s sink: %v", cfg.SinkType, err)
	}
	defer cleanup()

	gen := generator.New(rand.New(rand.NewSource(cfg.GeneratorSeed)))
	pump := service.NewPumpService(appendSink, gen, clockwork.NewRealClock(), log, cfg)

	log.Infof("sending %d locations to the event store", cfg.BatchSize)
	report, err := pump.Run(ctx, cfg.BatchSize)
	if err != nil {
		cleanup()
		log.Fatalf("Failed to send locations: %v", err)
	}

	log.Infof("finished sending %d locations, at rate of %f tps", report.Count, report.Rate())
}
