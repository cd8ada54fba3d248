package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"registra/internal/audit"
	authhandler "registra/internal/auth/handler"
	authmetrics "registra/internal/auth/metrics"
	authservice "registra/internal/auth/service"
	authstore "registra/internal/auth/store"
	"registra/internal/auth/store/revocation"
	"registra/internal/jwttoken"
	personhandler "registra/internal/person/handler"
	personmetrics "registra/internal/person/metrics"
	personservice "registra/internal/person/service"
	personstore "registra/internal/person/store"
	"registra/internal/platform/config"
	"registra/internal/platform/httpserver"
	"registra/internal/platform/logger"
	platformmetrics "registra/internal/platform/metrics"
	"registra/internal/platform/middleware"
	platformredis "registra/internal/platform/redis"
	"registra/internal/platform/seed"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal service
// packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence: Postgres when DATABASE_URL is set, in-memory otherwise.
	var (
		people   personservice.Store
		accounts authservice.AccountStore
		seedSink seed.AccountSink
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		personStore := personstore.NewPostgres(db)
		accountStore := authstore.NewPostgres(db)
		if err := personStore.EnsureSchema(ctx); err != nil {
			log.Error("ensure people schema", "error", err)
			os.Exit(1)
		}
		if err := accountStore.EnsureSchema(ctx); err != nil {
			log.Error("ensure accounts schema", "error", err)
			os.Exit(1)
		}
		people = personStore
		accounts = accountStore
		seedSink = accountStore
		log.Info("using postgres stores")
	} else {
		memPeople := personstore.NewInMemory()
		memAccounts := authstore.NewInMemory()
		people = memPeople
		accounts = memAccounts
		seedSink = memAccounts
		log.Info("using in-memory stores")
	}

	// Token revocation: Redis-backed when configured, in-memory otherwise.
	var revocations interface {
		authservice.RevocationList
		middleware.RevocationList
	}
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		revocations = revocation.NewRedisTRL(redisClient.Client)
		log.Info("using redis token revocation list")
	} else {
		revocations = revocation.NewInMemoryTRL()
	}

	// Audit trail: services publish to a queue, a worker drains it into the
	// store so emission never blocks a request.
	auditStore := audit.NewInMemoryStore()
	auditQueue := audit.NewQueue(256)
	auditWorker := audit.NewWorker(auditStore, auditQueue.Inbox())
	publisher := audit.NewPublisher(auditQueue)

	// Token issuing and verification.
	jwtService := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	authn := middleware.RequireAuth(jwttoken.NewJWTServiceAdapter(jwtService), revocations, log)

	// Services.
	personSvc := personservice.New(people,
		personservice.WithMetrics(personmetrics.New()),
		personservice.WithAudit(publisher),
	)
	authSvc := authservice.New(accounts, personSvc, jwtService, cfg.JWT.TokenTTL,
		authservice.WithMetrics(authmetrics.New()),
		authservice.WithAudit(publisher),
		authservice.WithRevocations(revocations),
	)

	if cfg.SeedDemoData {
		if err := seed.Run(ctx, personSvc, seedSink, log); err != nil {
			log.Error("seed demo data", "error", err)
			os.Exit(1)
		}
	}

	// HTTP surface.
	httpMetrics := platformmetrics.New()
	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(httpMetrics.Latency)

	personhandler.New(personSvc, log, authn).Register(router)
	authhandler.New(authSvc, log, authn).Register(router)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil && !redisClient.Healthy(r.Context()) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("redis unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting registra", "addr", cfg.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := auditWorker.Run(gctx); err != nil && gctx.Err() == nil {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
