package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"regnet/internal/registry/models"
)

// Ledger backends selectable with REGNET_LEDGER_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	Ledger          LedgerConfig
	Postgres        PostgresConfig
	Redis           RedisConfig
	Kafka           KafkaConfig
	Auth            AuthConfig
	Relay           RelayConfig
	Vouchers        models.VoucherTable
	LogLevel        string
}

// LedgerConfig selects and tunes the ledger backend.
type LedgerConfig struct {
	Backend     string
	MaxAttempts int
	TxTimeout   time.Duration
	RedisPrefix string
}

type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// AuthConfig covers the caller identity tokens asserted by the ledger host.
type AuthConfig struct {
	JWTSigningKey string
	Issuer        string
	Audience      string
	TokenTTL      time.Duration
	AdminToken    string
}

// RelayConfig tunes the outbox relay used with the postgres backend.
type RelayConfig struct {
	Interval  time.Duration
	BatchSize int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:            getenv("REGNET_ADDR", ":8080"),
		ShutdownTimeout: 15 * time.Second,
		LogLevel:        getenv("REGNET_LOG_LEVEL", "info"),
		Ledger: LedgerConfig{
			Backend:     strings.ToLower(getenv("REGNET_LEDGER_BACKEND", BackendMemory)),
			MaxAttempts: 5,
			TxTimeout:   10 * time.Second,
			RedisPrefix: getenv("REGNET_REDIS_PREFIX", "regnet:"),
		},
		Postgres: PostgresConfig{
			DSN:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: 20,
			MaxIdleConns: 5,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     20,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:    getenv("KAFKA_TOPIC", "regnet.events"),
			ClientID: getenv("KAFKA_CLIENT_ID", "regnet"),
		},
		Auth: AuthConfig{
			// Use a default for development - should be overridden in production
			JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:        getenv("JWT_ISSUER", "regnet"),
			Audience:      getenv("JWT_AUDIENCE", "regnet-ledger"),
			TokenTTL:      time.Hour,
			AdminToken:    os.Getenv("ADMIN_API_TOKEN"),
		},
		Relay: RelayConfig{
			Interval:  time.Second,
			BatchSize: 100,
		},
		Vouchers: models.DefaultVouchers(),
	}

	var err error
	if cfg.Ledger.MaxAttempts, err = intEnv("REGNET_TX_MAX_ATTEMPTS", cfg.Ledger.MaxAttempts); err != nil {
		return Server{}, err
	}
	if cfg.Ledger.TxTimeout, err = durationEnv("REGNET_TX_TIMEOUT", cfg.Ledger.TxTimeout); err != nil {
		return Server{}, err
	}
	if cfg.Auth.TokenTTL, err = durationEnv("JWT_TOKEN_TTL", cfg.Auth.TokenTTL); err != nil {
		return Server{}, err
	}
	if cfg.Relay.Interval, err = durationEnv("OUTBOX_RELAY_INTERVAL", cfg.Relay.Interval); err != nil {
		return Server{}, err
	}
	if cfg.Relay.BatchSize, err = intEnv("OUTBOX_RELAY_BATCH_SIZE", cfg.Relay.BatchSize); err != nil {
		return Server{}, err
	}
	if raw := os.Getenv("REGNET_VOUCHERS"); raw != "" {
		if cfg.Vouchers, err = ParseVouchers(raw); err != nil {
			return Server{}, err
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks cross-field requirements.
func (c Server) Validate() error {
	switch c.Ledger.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres ledger backend")
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis ledger backend")
		}
	default:
		return fmt.Errorf("unknown ledger backend %q", c.Ledger.Backend)
	}
	if c.Ledger.MaxAttempts < 1 {
		return fmt.Errorf("REGNET_TX_MAX_ATTEMPTS must be at least 1")
	}
	if len(c.Vouchers) == 0 {
		return fmt.Errorf("voucher table is empty")
	}
	return nil
}

// ParseVouchers reads "code=amount,code=amount".
func ParseVouchers(raw string) (models.VoucherTable, error) {
	table := models.VoucherTable{}
	for _, entry := range splitList(raw) {
		code, amount, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(code) == "" {
			return nil, fmt.Errorf("invalid voucher entry %q", entry)
		}
		n, err := strconv.ParseUint(strings.TrimSpace(amount), 10, 64)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid voucher amount in %q", entry)
		}
		table[strings.TrimSpace(code)] = n
	}
	return table, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
