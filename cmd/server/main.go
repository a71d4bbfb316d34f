// Package main runs the whale alert service: an HTTP receiver for blockchain
// webhook batches that normalizes swap and transfer events, classifies them
// against a SOL threshold and a tracked-wallet list, and dispatches formatted
// alerts to the configured webhook channels.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"whalecaster/internal/classify"
	"whalecaster/internal/config"
	"whalecaster/internal/dispatch"
	"whalecaster/internal/httpapi"
	"whalecaster/internal/market"
	"whalecaster/internal/normalize"
	"whalecaster/internal/pipeline"
	"whalecaster/internal/route"
	"whalecaster/internal/storage"
	chstore "whalecaster/internal/storage/clickhouse"
	"whalecaster/internal/storage/memory"
	pgstore "whalecaster/internal/storage/postgres"
	redisstore "whalecaster/internal/storage/redis"
	"whalecaster/internal/stream"
	"whalecaster/internal/watchlist"
)

func main() {
	cfg := config.Load()

	// Flags override env.
	httpAddr := flag.String("http-addr", cfg.HTTPAddr, "HTTP listen address")
	whaleURL := flag.String("whale-webhook", cfg.WhaleWebhookURL, "Whale channel webhook URL")
	watchURL := flag.String("watch-webhook", cfg.WatchWebhookURL, "Watch channel webhook URL")
	thresholdSOL := flag.Float64("threshold-sol", cfg.ThresholdSOL, "Whale threshold in SOL")
	watchlistPath := flag.String("watchlist", cfg.WatchlistPath, "Tracked wallet list file")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.ClickHouseDSN, "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", cfg.UseMemory, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if *whaleURL == "" && *watchURL == "" {
		logger.Println("WARNING: no webhook URLs configured, events will be classified but never dispatched")
	}
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	list, invalid, err := watchlist.LoadFile(*watchlistPath)
	if err != nil {
		logger.Fatalf("Failed to load watchlist: %v", err)
	}
	for _, line := range invalid {
		logger.Printf("Skipping invalid watchlist entry: %q", line)
	}
	logger.Printf("Tracking %d wallets, whale threshold %.2f SOL", list.Len(), *thresholdSOL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alertLog, cleanup, err := createAlertLog(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	dedup := createDedupStore(cfg, logger)

	hub := stream.NewHub()

	pipe := pipeline.New(pipeline.Options{
		Normalizer: normalize.New(),
		Engine:     classify.NewEngine(*thresholdSOL, list),
		Channels:   route.Channels{WhaleURL: *whaleURL, WatchURL: *watchURL},
		Dispatcher: dispatch.New(dispatch.Options{}),
		Market:     &market.StaticProvider{},
		AlertLog:   alertLog,
		Dedup:      dedup,
		Hub:        hub,
	})

	api := httpapi.New(httpapi.Options{Processor: pipe, Stream: hub})

	srv := &http.Server{
		Addr:              *httpAddr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
		cancel()

		// Wait for second signal for immediate shutdown.
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	logger.Printf("Starting HTTP server on %s", *httpAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}

	close(done)
	logger.Println("Shutdown complete")
}

// createAlertLog selects the alert log backend. The ClickHouse history store
// mirrors dispatched alerts for analytics; the Postgres store is the source
// of truth that reads go through.
func createAlertLog(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (storage.AlertLogStore, func(), error) {
	if useMemory {
		return memory.NewAlertLogStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	chConn, err := chstore.NewConn(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	store := &teeAlertLog{
		primary: pgstore.NewAlertLogStore(pool),
		mirror:  chstore.NewAlertHistoryStore(chConn),
	}
	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return store, cleanup, nil
}

// createDedupStore picks Redis when configured, otherwise the in-process
// TTL store.
func createDedupStore(cfg config.Config, logger *log.Logger) storage.DedupStore {
	if cfg.RedisURL == "" {
		return memory.NewDedupStore(cfg.DedupMaxKeys, cfg.DedupTTL)
	}
	cli := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	logger.Printf("Using Redis dedup store at %s", cfg.RedisURL)
	return redisstore.NewDedupStore(cli, cfg.DedupTTL, nil)
}
