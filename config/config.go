package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR,default=:8080"`
	Env           string `env:"APP_ENV,default=production"`
	Version       string `env:"APP_VERSION,default=v1.0.0"`
	StoreDriver   string `env:"STORE_DRIVER,default=postgres"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL,default=http://localhost:8080"`

	DB        DBConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
}

type DBConfig struct {
	Host         string `env:"DB_HOST,default=localhost"`
	Port         string `env:"DB_PORT,default=5432"`
	Name         string `env:"DB_NAME,default=restoflow"`
	User         string `env:"DB_USER,default=postgres"`
	Password     string `env:"DB_PASSWORD"`
	SSLMode      string `env:"DB_SSLMODE,default=disable"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS,default=25"`
}

type RedisConfig struct {
	Host      string        `env:"REDIS_HOST"`
	Port      string        `env:"REDIS_PORT,default=6379"`
	RatingTTL time.Duration `env:"RATING_CACHE_TTL,default=5m"`
}

type KafkaConfig struct {
	Broker  string `env:"KAFKA_BROKER"`
	Topic   string `env:"KAFKA_TOPIC,default=restoflow.events"`
	GroupID string `env:"KAFKA_GROUP_ID,default=restoflow-aggregator"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS,default=0"`
	Burst int     `env:"RATE_LIMIT_BURST,default=20"`
}

// Load reads an optional .env file and decodes the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.RateLimit.RPS < 0 {
		return Config{}, errors.New("RATE_LIMIT_RPS must not be negative")
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return cfg, nil
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c KafkaConfig) Enabled() bool {
	return c.Broker != ""
}

func NewLogger(cfg Config) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func MustInitPostgres(cfg DBConfig, logger *zap.SugaredLogger) *sqlx.DB {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Fatalw("failed to open database", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		logger.Fatalw("failed to ping database", "host", cfg.Host, "error", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg RedisConfig, logger *zap.SugaredLogger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Host + ":" + cfg.Port,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatalw("failed to connect to redis", "addr", client.Options().Addr, "error", err)
	}

	return client
}

func NewKafkaReader(cfg KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Broker},
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
}

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Broker),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}
