package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"pomflow/internal/config"
	"pomflow/internal/db"
	"pomflow/internal/handler"
	"pomflow/internal/repository"
	"pomflow/internal/router"
	"pomflow/internal/service"
)

func main() {
	cfg := config.Load()
	if cfg.DefaultSecret() {
		log.Printf("JWT_SECRET is not set; tokens are signed with the built-in development secret")
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	migrations, err := db.Migrations(cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("load migrations: %v", err)
	}
	if err := db.RunMigrations(database, migrations); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	taskRepo := repository.NewTaskRepository(database)
	historyRepo := repository.NewHistoryRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)
	sessionRepo := repository.NewSessionRepository(database)

	authService := service.NewAuthService(userRepo, settingsRepo, sessionRepo, cfg.JWTSecret, cfg.TokenTTL)
	syncService := service.NewSyncService(taskRepo, historyRepo, settingsRepo, sessionRepo)

	authHandler := handler.NewAuthHandler(authService)
	syncHandler := handler.NewSyncHandler(syncService)

	engine := router.New(authService, authHandler, syncHandler, cfg.CORSOrigins)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("sync server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("run server: %v", err)
	}
	log.Printf("server stopped")
}
