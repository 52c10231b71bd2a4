// Command authgate-server is a small intelligence-platform backend built
// on the authgate core: registration, login, session-gated record CRUD,
// and Prometheus metrics. Configuration comes from AUTHGATE_* environment
// variables; see config.go for the full list.
package main

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/mvickers07/authgate"
	agprom "github.com/mvickers07/authgate/metrics/export/prometheus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := loadConfig()
	if err != nil {
		log.WithError(err).Fatal("configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).Fatal("redis unreachable")
	}

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	authCfg := authgate.DefaultConfig()
	authCfg.Lockout.Threshold = cfg.LockoutThreshold
	authCfg.Lockout.Duration = cfg.LockoutDuration
	authCfg.Session.TTL = cfg.SessionTTL

	svc, err := authgate.New().
		WithConfig(authCfg).
		WithRedis(rdb).
		WithUserDB(db).
		WithLogger(log).
		Build()
	if err != nil {
		log.WithError(err).Fatal("build auth service")
	}

	if cfg.SeedFile != "" {
		if err := seedUsers(context.Background(), svc, cfg.SeedFile, log); err != nil {
			log.WithError(err).Fatal("seed users")
		}
	}

	records := &recordHandlers{db: db, auth: &authHandlers{svc: svc, log: log}, log: log}
	if err := records.migrate(); err != nil {
		log.WithError(err).Fatal("migrate record tables")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(agprom.NewCollector(svc))

	router := mux.NewRouter()
	records.auth.registerRoutes(router)
	records.registerRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
