package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"shiprestrict/internal/platform/config"
	"shiprestrict/internal/platform/events"
	"shiprestrict/internal/platform/httpserver"
	"shiprestrict/internal/platform/logger"
	"shiprestrict/internal/platform/middleware"
	"shiprestrict/internal/platform/postgres"
	"shiprestrict/internal/platform/redis"
	"shiprestrict/internal/restriction/handler"
	"shiprestrict/internal/restriction/metrics"
	"shiprestrict/internal/restriction/models"
	"shiprestrict/internal/restriction/service/checkout"
	"shiprestrict/internal/restriction/service/orderaudit"
	"shiprestrict/internal/restriction/service/resolver"
	"shiprestrict/internal/restriction/service/settings"
	"shiprestrict/internal/restriction/store/auditlog"
	"shiprestrict/internal/restriction/store/methods"
	"shiprestrict/internal/restriction/store/rules"
	settingsstore "shiprestrict/internal/restriction/store/settings"
)

// main wires storage, cache, messaging and the HTTP surface. Business logic
// lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}

	rdb, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, log)
	if err != nil {
		log.Error("kafka connection failed", "error", err)
		os.Exit(1)
	}

	var (
		ruleStore    rules.Store
		settingStore settingsstore.Store
		methodStore  methods.Store
		logStore     auditlog.Store
	)
	if db != nil {
		ruleStore = rules.NewPostgres(db.DB)
		settingStore = settingsstore.NewPostgres(db.DB)
		methodStore = methods.NewPostgres(db.DB)
		logStore = auditlog.NewPostgres(db.DB)
	} else {
		// Development mode: everything in memory, seeded with a method pair so
		// the per-method flow is exercisable without a database.
		log.Warn("DATABASE_URL not set, running on in-memory stores")
		ruleStore = rules.NewMemory()
		settingStore = settingsstore.NewMemory()
		methodStore = methods.NewMemory(
			models.ShippingMethod{ID: 1, Title: "Standard Shipping", Type: "flat_rate", IsEnabled: true},
			models.ShippingMethod{ID: 2, Title: "Express Shipping", Type: "flat_rate", IsEnabled: true},
		)
		logStore = auditlog.NewMemory()
	}

	m := metrics.New()
	var cache *resolver.Cache
	if rdb != nil {
		cache = resolver.NewCache(rdb.Client, cfg.RuleCacheTTL)
	}

	ruleResolver, err := resolver.New(ruleStore, settingStore,
		resolver.WithLogger(log),
		resolver.WithCache(cache),
	)
	if err != nil {
		log.Error("resolver init failed", "error", err)
		os.Exit(1)
	}

	settingsOpts := []settings.Option{
		settings.WithLogger(log),
		settings.WithCacheInvalidator(ruleResolver),
		settings.WithMetrics(m),
	}
	if db != nil {
		settingsOpts = append(settingsOpts, settings.WithTxRunner(db))
	}
	settingsSvc, err := settings.New(ruleStore, settingStore, methodStore, settingsOpts...)
	if err != nil {
		log.Error("settings service init failed", "error", err)
		os.Exit(1)
	}

	checkoutSvc, err := checkout.New(ruleResolver, methodStore,
		checkout.WithLogger(log),
		checkout.WithMetrics(m),
	)
	if err != nil {
		log.Error("checkout service init failed", "error", err)
		os.Exit(1)
	}

	auditSvc, err := orderaudit.New(ruleResolver, logStore,
		orderaudit.WithLogger(log),
		orderaudit.WithPublisher(publisher),
		orderaudit.WithMetrics(m),
	)
	if err != nil {
		log.Error("audit service init failed", "error", err)
		os.Exit(1)
	}

	h, err := handler.New(settingsSvc, checkoutSvc, auditSvc, logStore, log)
	if err != nil {
		log.Error("handler init failed", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestID)
	router.Use(chimw.Recoverer)
	h.RegisterRoutes(router, middleware.RequireAdmin(cfg.JWTSigningKey, log))
	router.Get("/healthz", healthz(db, rdb))
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting shiprestrict", "addr", cfg.Addr,
		"postgres", db != nil, "redis", rdb != nil, "kafka", publisher != nil)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	publisher.Close()
	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
}

// healthz pings the configured backends concurrently. Unconfigured backends
// are healthy by definition.
func healthz(db *postgres.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)
		if db != nil {
			g.Go(func() error { return db.Health(ctx) })
		}
		if rdb != nil {
			g.Go(func() error { return rdb.Health(ctx) })
		}
		if err := g.Wait(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
