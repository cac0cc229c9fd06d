package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/atlasfield/fieldops/internal/audit"
	"github.com/atlasfield/fieldops/internal/config"
	"github.com/atlasfield/fieldops/internal/db"
	adminapi "github.com/atlasfield/fieldops/internal/http/api/admin"
	"github.com/atlasfield/fieldops/internal/logging"
	"github.com/atlasfield/fieldops/internal/quota"
	"github.com/atlasfield/fieldops/internal/tenant"
	"github.com/atlasfield/fieldops/internal/user"
)

// Migrate opens the database and applies the schema.
func Migrate(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// RunServer boots the back office with database-backed components and
// blocks until the context is cancelled.
func RunServer(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	logging.Setup(cfg.Logging)

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	log.Infof("database ready (dialect=%s)", db.DialectName(conn))

	calculator := quota.NewCalculator(conn, cfg.Quota.AverageFileSizeMB)
	reconciler := quota.NewReconciler(conn, calculator, cfg.Quota.ReconcileMaxConcurrency)
	guard := quota.NewGuard(conn)
	services := adminapi.Services{
		Tenants:    tenant.NewService(conn, cfg.Quota.DefaultLimits),
		Users:      user.NewService(conn, guard),
		Store:      quota.NewStore(conn),
		Guard:      guard,
		Reconciler: reconciler,
		Auditor:    audit.NewRecorder(conn),
	}

	var locker *redis.Client
	if addr := strings.TrimSpace(cfg.Redis.Addr); addr != "" {
		locker = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if errPing := locker.Ping(ctx).Err(); errPing != nil {
			log.WithError(errPing).Warn("redis unreachable, reconcile lock disabled")
			locker = nil
		}
	}
	if scheduler := quota.NewScheduler(reconciler, cfg.Quota.ReconcileInterval(), locker); scheduler != nil {
		scheduler.Start(ctx)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	adminapi.RegisterAdminRoutes(engine, conn, cfg.JWT, services)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("fieldops listening on %s", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return fmt.Errorf("shutdown: %w", errShutdown)
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
