// Command budgetd runs the budgeting API session daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/budgetd/internal/config"
	"github.com/dmitrymomot/budgetd/internal/handler"
	"github.com/dmitrymomot/budgetd/internal/identity"
	"github.com/dmitrymomot/budgetd/internal/jobs"
	"github.com/dmitrymomot/budgetd/internal/migrations"
	"github.com/dmitrymomot/budgetd/middlewares"
	"github.com/dmitrymomot/budgetd/pkg/db"
	"github.com/dmitrymomot/budgetd/pkg/logger"
	"github.com/dmitrymomot/budgetd/pkg/redis"
	"github.com/dmitrymomot/budgetd/pkg/session"
	"github.com/dmitrymomot/budgetd/pkg/token"
)

func main() {
	configPath := flag.String("config", "budgetd.yaml", "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("budgetd exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.NewWithSentry(cfg.Sentry,
		middlewares.RequestIDExtractor,
		middlewares.UserIDExtractor,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		store    session.Store
		verifier handler.CredentialVerifier
		checks   []handler.HealthCheck
		shutdown []func(context.Context) error
		pool     *pgxpool.Pool
	)

	switch cfg.Session.Store {
	case config.StorePostgres:
		pool, err = db.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		shutdown = append(shutdown, db.Shutdown(pool))

		if err := db.Migrate(ctx, pool, migrations.FS, cfg.Database.MigrationsTable, log); err != nil {
			return err
		}
		if err := jobs.MigrateRiver(ctx, pool, log); err != nil {
			return err
		}

		store = session.NewPostgres(pool)
		verifier = identity.NewPostgres(pool)
		checks = append(checks, pool.Ping)

	case config.StoreRedis:
		client, err := redis.Open(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		shutdown = append(shutdown, redis.Shutdown(client))

		store = session.NewRedis(client)
		verifier = identity.NewStatic(cfg.Identity.Users)
		checks = append(checks, redis.Healthcheck(client))

	case config.StoreMemory:
		store = session.NewMemory()
		verifier = identity.NewStatic(cfg.Identity.Users)

	default:
		return fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}

	opts := []session.Option{
		session.WithTTL(cfg.Session.TTL),
		session.WithTokenLength(cfg.Session.TokenLength),
		session.WithLogger(log),
	}
	if !cfg.Session.SlidingExpiration {
		opts = append(opts, session.WithFixedWindow())
	}
	sessions := session.NewManager(store, token.NewCrypto(), opts...)

	// Postgres deployments sweep through a river periodic job so that at
	// most one replica runs it. Other stores sweep with an in-process
	// cron loop.
	if pool != nil {
		sweeper, err := jobs.NewSweeper(pool, sessions, cfg.Sweep.Schedule, log)
		if err != nil {
			return err
		}
		if err := sweeper.Start(ctx); err != nil {
			return err
		}
		shutdown = append(shutdown, sweeper.Stop)
	} else {
		sched, err := jobs.ParseSchedule(cfg.Sweep.Schedule)
		if err != nil {
			return err
		}
		go jobs.RunPeriodic(ctx, sched, func(ctx context.Context) error {
			_, err := sessions.SweepExpired(ctx)
			return err
		}, log)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler.Routes(handler.New(sessions, verifier, log), checks...),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "listening", slog.String("addr", cfg.Server.Addr), slog.String("store", cfg.Session.Store))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Warn("server shutdown", slog.Any("error", err))
	}
	for _, fn := range shutdown {
		if err := fn(shutdownCtx); err != nil {
			log.Warn("shutdown hook", slog.Any("error", err))
		}
	}
	return nil
}
