package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/floodwatch/floodwatch/internal/api"
	"github.com/floodwatch/floodwatch/internal/auth"
	"github.com/floodwatch/floodwatch/internal/config"
	"github.com/floodwatch/floodwatch/internal/logging"
	"github.com/floodwatch/floodwatch/internal/observability"
	"github.com/floodwatch/floodwatch/internal/repository"
	"github.com/floodwatch/floodwatch/internal/zones"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	clock := clockwork.NewRealClock()

	db, err := repository.NewSQLiteDB(cfg.DB.Path, clock)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	registry, err := zones.Load()
	if err != nil {
		logging.Fatalf("Failed to load zone registry: %v", err)
	}

	if err := seedShelters(db); err != nil {
		logging.Fatalf("Failed to seed shelters: %v", err)
	}

	authMgr := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, db, clock)
	metrics := observability.NewMetrics()

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
	}))
	router.Use(api.RateLimitMiddleware(cfg.HTTP.RateLimitRPS))

	handler := api.NewHandler(db, db, db, authMgr, registry, metrics, clock)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

// seedShelters loads the embedded shelter directory into an empty database.
func seedShelters(db *repository.SQLiteDB) error {
	ctx := context.Background()

	n, err := db.CountShelters(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	shelters, err := zones.Shelters()
	if err != nil {
		return err
	}
	for i := range shelters {
		if err := db.AddShelter(ctx, &shelters[i]); err != nil {
			return err
		}
	}

	slog.Info("seeded shelter directory", "count", len(shelters))
	return nil
}
