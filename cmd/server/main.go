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
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/cache"
	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/handler"
	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/service"
	"github.com/Ip-Tec/ContactSync-sub000/internal/contacts/store"
	"github.com/Ip-Tec/ContactSync-sub000/internal/importer"
	"github.com/Ip-Tec/ContactSync-sub000/internal/phone"
	"github.com/Ip-Tec/ContactSync-sub000/internal/platform/config"
	"github.com/Ip-Tec/ContactSync-sub000/internal/platform/httpserver"
	"github.com/Ip-Tec/ContactSync-sub000/internal/platform/logger"
	"github.com/Ip-Tec/ContactSync-sub000/internal/platform/metrics"
	"github.com/Ip-Tec/ContactSync-sub000/internal/platform/middleware"
	platformredis "github.com/Ip-Tec/ContactSync-sub000/internal/platform/redis"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit"
	auditmemory "github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit/store/memory"
	auditpostgres "github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit/store/postgres"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit/publisher"
)

// main wires dependencies and owns the server lifecycle. Without
// DATABASE_URL everything runs on in-memory stores, which is the local
// development mode; Redis is optional in both modes.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var (
		contactStore store.Store
		auditStore   audit.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("opening postgres failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pg := store.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("contact schema bootstrap failed", "error", err)
			os.Exit(1)
		}
		apg := auditpostgres.New(db)
		if err := apg.EnsureSchema(ctx); err != nil {
			log.Error("audit schema bootstrap failed", "error", err)
			os.Exit(1)
		}
		contactStore, auditStore = pg, apg
		log.Info("using postgres storage")
	} else {
		contactStore, auditStore = store.NewInMemory(), auditmemory.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("duplicate-group cache enabled")
	}

	m := metrics.New()
	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(256),
		publisher.WithLogger(log),
	)
	defer auditPublisher.Close()

	phoneOpts := phone.Options{
		CountryCode:         cfg.Phone.CountryCode,
		TailLengths:         cfg.Phone.TailLengths,
		SimilarityThreshold: cfg.Phone.SimilarityThreshold,
	}
	svc := service.New(contactStore, phoneOpts,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditPublisher(auditPublisher),
		service.WithGroupCache(cache.New(redisClient, cfg.Redis.GroupTTL)),
		service.WithWorkers(cfg.SyncWorkers),
	)

	h := handler.New(svc, importer.New(), log,
		handler.WithAuditPublisher(auditPublisher),
		handler.WithDisplayCountryCode(cfg.Phone.DisplayCountryCode),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.JWTSigningKey, log))
		h.Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)
	go func() {
		log.Info("contactsync listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
