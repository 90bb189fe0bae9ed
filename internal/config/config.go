package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	SinkEventStore = "eventstore"
	SinkRedis      = "redis"
	SinkPostgres   = "postgres"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Generator Config
	BatchSize     int   `env:"BATCH_SIZE" envDefault:"100000" validate:"gte=0"`
	GeneratorSeed int64 `env:"GENERATOR_SEED"`

	// Pump Config
	MaxInFlight int    `env:"MAX_IN_FLIGHT" envDefault:"0" validate:"gte=0"`
	SinkType    string `env:"SINK_TYPE" envDefault:"eventstore" validate:"oneof=eventstore redis postgres"`

	// EventStore Config
	EventStoreURL      string        `env:"EVENTSTORE_URL" envDefault:"http://172.17.8.101:2113" validate:"required_if=SinkType eventstore"`
	EventStoreUser     string        `env:"EVENTSTORE_USER"`
	EventStorePassword string        `env:"EVENTSTORE_PASSWORD"`
	EventStoreTimeout  time.Duration `env:"EVENTSTORE_TIMEOUT" envDefault:"0s" validate:"gte=0"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379" validate:"required_if=SinkType redis"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Postgres Config
	DatabaseURL    string `env:"DATABASE_URL" validate:"required_if=SinkType postgres"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://migrations"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	env := &envReader{}
	cfg := &Config{
		LogLevel:           env.getEnv("LOG_LEVEL", "info"),
		BatchSize:          env.getEnvAsInt("BATCH_SIZE", 100000),
		GeneratorSeed:      env.getEnvAsInt64("GENERATOR_SEED", time.Now().UnixNano()),
		MaxInFlight:        env.getEnvAsInt("MAX_IN_FLIGHT", 0),
		SinkType:           env.getEnv("SINK_TYPE", SinkEventStore),
		EventStoreURL:      env.getEnv("EVENTSTORE_URL", "http://172.17.8.101:2113"),
		EventStoreUser:     os.Getenv("EVENTSTORE_USER"),
		EventStorePassword: os.Getenv("EVENTSTORE_PASSWORD"),
		EventStoreTimeout:  env.getEnvAsDuration("EVENTSTORE_TIMEOUT", 0),
		RedisAddr:          env.getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            env.getEnvAsInt("REDIS_DB", 0),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MigrationsPath:     env.getEnv("MIGRATIONS_PATH", "file://migrations"),
	}

	// Некорректное значение не подменяется значением по умолчанию
	if err := errors.Join(env.errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения конфигурации по тегам validate
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// envReader читает переменные окружения и копит ошибки разбора
type envReader struct {
	errs []error
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func (r *envReader) getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func (r *envReader) getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s=%q is not an integer: %w", key, value, err))
			return defaultValue
		}
		return intValue
	}
	return defaultValue
}

// getEnvAsInt64 возвращает значение переменной окружения как int64 или значение по умолчанию
func (r *envReader) getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s=%q is not an integer: %w", key, value, err))
			return defaultValue
		}
		return intValue
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func (r *envReader) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		durationValue, err := time.ParseDuration(value)
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s=%q is not a duration: %w", key, value, err))
			return defaultValue
		}
		return durationValue
	}
	return defaultValue
}
