package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"signpost/internal/auth"
	"signpost/internal/config"
	"signpost/internal/domain/repositories"
	"signpost/internal/handler"
	"signpost/internal/middleware"
	"signpost/internal/repository/memory"
	"signpost/internal/repository/postgres"
	serviceauth "signpost/internal/service/auth"
	siteservice "signpost/internal/service/site"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, logCloser, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.Storage,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	var (
		siteRepo  repositories.SiteRepository
		txManager repositories.TransactionManager
		pinger    handler.Pinger
	)
	switch cfg.Storage {
	case config.StorageMemory:
		repo := memory.NewSiteRepository()
		siteRepo, txManager, pinger = repo, memory.NewTransactionManager(), repo
		logger.Warn("using in-memory storage; sites are lost on restart")
	default:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		logger.Info("database connected", "sites_table", tables.Sites)

		siteRepo = postgres.NewSiteRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		})
		txManager = postgres.NewTransactionManager(pool, logger)
		pinger = pool
	}

	siteService := siteservice.NewSiteService(siteRepo, txManager, logger)

	mux := handler.NewRouter(handler.Handlers{
		Health:  handler.NewHealthHandler(pinger, logger),
		Site:    handler.NewSiteHandler(siteService, serviceauth.NewOwnerBasedAuthorizer(siteRepo), logger),
		Sidebar: handler.NewSidebarHandler(siteService, logger),
	})

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	if cfg.AuthRequired() {
		jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		h = middleware.Auth(jwtVerifier, middleware.WritesOnly("/api/validate"), logger)(h)
	} else {
		logger.Warn("DEV MODE: authentication disabled, write routes are open (set JWKS_URL to enable)")
	}
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Location", "Content-Disposition"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}
