package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/confirm"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

func main() {

	cfg := config.Load()
	log := logger.New(cfg)
	defer func() { _ = log.Sync() }()

	db := dbpkg.NewDB(cfg, log)

	redisClient, err := cache.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	kv := cache.NewRedisStore(redisClient)

	if err := validators.RegisterBindings(); err != nil {
		log.Fatal("failed to register validators", zap.Error(err))
	}

	m := metrics.New()
	auditLogger := audit.New(db, log, m.AuditFailures)
	auditDispatcher := audit.NewDispatcher(auditLogger, log, m.AuditFailures)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Users:        infraRepo.NewUserGormRepository(db),
		Products:     infraRepo.NewProductGormRepository(db),
		Appointments: infraRepo.NewAppointmentGormRepository(db),
		Logs:         infraRepo.NewActivityGormRepository(db),
		Tx:           dbpkg.NewTransactor(db),
		Audit:        auditLogger,
		Events:       auditDispatcher,
		Sessions:     session.NewManager(cfg.JWTSecret, kv),
		Tokens:       confirm.NewTokens(kv, cfg.CancelTokenTTL),
		Metrics:      m,
		Log:          log,
		Now:          timezone.Clock(cfg.ClinicTimezone),
		LoginPerMin:  cfg.LoginRatePerMin,
		HealthChecks: []func() error{
			kv.Ping,
			func() error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Ping()
			},
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}

	auditDispatcher.Close()
}
