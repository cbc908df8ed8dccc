package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	eventskafka "regnet/internal/events/kafka"
	"regnet/internal/events/outbox"
	jwttoken "regnet/internal/jwt_token"
	"regnet/internal/ledger"
	"regnet/internal/ledger/memory"
	pgledger "regnet/internal/ledger/postgres"
	redisledger "regnet/internal/ledger/redis"
	"regnet/internal/platform/config"
	"regnet/internal/platform/httpserver"
	"regnet/internal/platform/kafka"
	"regnet/internal/platform/logger"
	"regnet/internal/platform/metrics"
	"regnet/internal/platform/postgres"
	platformredis "regnet/internal/platform/redis"
	"regnet/internal/registry/assets"
	"regnet/internal/registry/users"
	"regnet/internal/revocation"
	httptransport "regnet/internal/transport/http"
	authmw "regnet/pkg/platform/middleware/auth"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/registry.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

type infra struct {
	db       *sql.DB
	redis    *platformredis.Client
	producer *kafka.Producer
	health   map[string]httptransport.HealthCheck
}

func (i *infra) close() {
	if i.producer != nil {
		i.producer.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	deps, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()

	m := metrics.New()
	ledgerOpts := []ledger.Option{
		ledger.WithMaxAttempts(cfg.Ledger.MaxAttempts),
		ledger.WithTimeout(cfg.Ledger.TxTimeout),
		ledger.WithMetrics(ledger.NewMetrics()),
		ledger.WithLogger(log),
	}

	var sink ledger.EventSink
	if deps.producer != nil {
		if err := deps.producer.EnsureTopic(ctx, 3, 1); err != nil {
			return fmt.Errorf("ensure kafka topic: %w", err)
		}
		sink = eventskafka.New(deps.producer, log)
	}

	var (
		l     ledger.Ledger
		relay *outbox.Relay
	)
	switch cfg.Ledger.Backend {
	case config.BackendPostgres:
		pl := pgledger.New(deps.db, ledgerOpts...)
		if err := pl.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure ledger schema: %w", err)
		}
		l = pl
		if sink != nil {
			relay = outbox.New(pl, sink,
				outbox.WithInterval(cfg.Relay.Interval),
				outbox.WithBatchSize(cfg.Relay.BatchSize),
				outbox.WithLogger(log),
				outbox.WithMetrics(m),
			)
		}
	case config.BackendRedis:
		l = redisledger.New(deps.redis.Client, cfg.Ledger.RedisPrefix, append(ledgerOpts, ledger.WithEventSink(sink))...)
	default:
		l = memory.New(append(ledgerOpts, ledger.WithEventSink(sink))...)
	}

	revocations, err := revocationList(ctx, deps)
	if err != nil {
		return err
	}

	userService := users.New(l, users.WithLogger(log), users.WithMetrics(m), users.WithVouchers(cfg.Vouchers))
	assetService := assets.New(l, assets.WithLogger(log), assets.WithMetrics(m))
	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:      log,
		Users:       httptransport.NewUserHandler(userService, log),
		Assets:      httptransport.NewAssetHandler(assetService, log),
		Tokens:      httptransport.NewTokenHandler(jwtService, revocations, cfg.Auth.TokenTTL, log),
		AdminToken:  cfg.Auth.AdminToken,
		Validator:   jwttoken.NewJWTServiceAdapter(jwtService),
		Revocations: revocations,
		Metrics:     promhttp.Handler(),
		Health:      deps.health,
		Timeout:     cfg.Ledger.TxTimeout,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting regnet", "addr", cfg.Addr, "ledger_backend", cfg.Ledger.Backend, "kafka", deps.producer != nil)
		return httpserver.Run(gctx, srv, cfg.ShutdownTimeout)
	})
	if relay != nil {
		g.Go(func() error {
			return relay.Run(gctx)
		})
	}
	return g.Wait()
}

func connect(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	deps := &infra{health: map[string]httptransport.HealthCheck{}}

	if cfg.Ledger.Backend == config.BackendPostgres {
		db, err := postgres.Connect(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		deps.db = db
		deps.health["postgres"] = db.PingContext
	}

	rc, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		deps.close()
		return nil, err
	}
	if rc != nil {
		deps.redis = rc
		deps.health["redis"] = rc.Health
	}

	producer, err := kafka.NewProducer(kafka.Config{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.Topic,
		ClientID: cfg.Kafka.ClientID,
	})
	if err != nil {
		deps.close()
		return nil, err
	}
	if producer != nil {
		deps.producer = producer
		deps.health["kafka"] = producer.Health
	}

	if cfg.Ledger.Backend == config.BackendRedis && deps.redis == nil {
		deps.close()
		return nil, errors.New("redis ledger backend selected but redis is not configured")
	}
	return deps, nil
}

type revocationStore interface {
	authmw.TokenRevocationChecker
	httptransport.TokenRevoker
}

// revocationList prefers the shared stores so every instance sees a revocation.
func revocationList(ctx context.Context, deps *infra) (revocationStore, error) {
	switch {
	case deps.redis != nil:
		return revocation.NewRedisTRL(deps.redis.Client), nil
	case deps.db != nil:
		trl := revocation.NewPostgresTRL(deps.db)
		if err := trl.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return trl, nil
	default:
		return revocation.NewInMemoryTRL(nil), nil
	}
}
