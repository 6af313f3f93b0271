package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"bulkybook/internal/book"
	"bulkybook/internal/category"
	"bulkybook/internal/httpx"
	"bulkybook/internal/platform/assetstore"
	"bulkybook/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	loadEnvFiles()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		bookRepository     book.Repository
		categoryRepository category.Repository
		ready              = func(context.Context) error { return nil }
	)
	switch cfg.storeDriver {
	case storeDriverMemory:
		log.Println("using in-memory store")
		bookRepository = store.NewMemoryBooks()
		categoryRepository = store.NewMemoryCategories()
	default:
		dbPool := mustOpenDB(cfg.databaseDSN)
		defer dbPool.Close()
		bookRepository = store.NewBookPG(dbPool, cfg.dbTimeout)
		categoryRepository = store.NewCategoryPG(dbPool, cfg.dbTimeout)
		ready = dbPool.Ping
	}

	categoryResolver := category.NewResolver(categoryRepository)
	assetClient := assetstore.NewClient(cfg.assets)
	bookService := book.NewService(bookRepository, categoryResolver, assetClient)
	bookHandler := book.NewHTTPHandler(bookService)

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.rateLimitRPS, cfg.rateLimitBurst)

	handler := httpx.Chain(newRouter(bookHandler, ready),
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(cfg.allowedOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.maxUploadBytes),
		rateLimiter.Middleware,
	)

	httpServer := &http.Server{
		Addr:         cfg.serverAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting server on %s", cfg.serverAddress)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

func newRouter(bookHandler *book.HTTPHandler, ready func(context.Context) error) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /books", bookHandler.Create)

	return router
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database (%s): %v", redactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool
}
