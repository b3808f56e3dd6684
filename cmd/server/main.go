package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "registration-service/internal/api/http"
	"registration-service/internal/config"
	"registration-service/internal/lock"
	"registration-service/internal/logger"
	"registration-service/internal/repository"
	"registration-service/internal/repository/memory"
	"registration-service/internal/repository/postgres"
	"registration-service/internal/security"
	"registration-service/internal/service"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Registration Service...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "storage", cfg.Storage.Type)

	// Initialize Repositories
	var (
		requests repository.RegistrationRequestRepository
		accounts repository.AccountRepository
		pinger   repository.Pinger
	)
	switch cfg.Storage.Type {
	case config.StorageTypeMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		mem := memory.NewStore()
		requests, accounts, pinger = mem.Requests, mem.Accounts, mem
	default:
		logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
		logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Test database connection
		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		pg := postgres.NewStore(db)
		if cfg.Database.Migrate {
			if err := pg.Migrate(context.Background()); err != nil {
				logger.Error("Failed to migrate database", "error", err)
				log.Fatalf("Failed to migrate database: %v", err)
			}
			logger.Info("Database schema up to date")
		}
		requests, accounts, pinger = pg.Requests, pg.Accounts, pg
	}

	// Initialize review lock
	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Error("Failed to ping redis", "addr", cfg.Redis.Addr, "error", err)
			log.Fatalf("Failed to ping redis: %v", err)
		}
		locker = lock.NewRedisLocker(rdb, "registration", cfg.LockTTL())
		logger.Info("Using redis review lock", "addr", cfg.Redis.Addr, "ttl", cfg.LockTTL())
	} else {
		logger.Info("Using in-process review lock")
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Services
	provisioner := service.NewAccountProvisioner(accounts)
	registrationSvc := service.NewRegistrationService(requests, provisioner, locker, service.RegistrationOptions{
		DefaultRole:  cfg.Registration.DefaultRole,
		StorageQuota: cfg.Registration.StorageQuotaBytes,
	})

	// Set up HTTP server
	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(registrationSvc, tokenManager, pinger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to serve HTTP", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped. Goodbye!")
}
