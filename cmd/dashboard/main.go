package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"StrikeBand/internal/api"
	"StrikeBand/internal/catalog"
	"StrikeBand/internal/collector"
	"StrikeBand/internal/config"
	"StrikeBand/internal/notifier"
	"StrikeBand/internal/scheduler"

	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	if err := setupLogger(cfg.Log.File); err != nil {
		log.Printf("[WARN] file logging disabled: %v", err)
	}
	log.Println("[INFO] StrikeBand starting...")

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("[FATAL] load symbol catalog: %v", err)
	}
	log.Printf("[INFO] loaded %d symbols from %s", len(cat.Symbols), cfg.Catalog.Path)

	// Init fetchers
	var chain collector.ChainFetcher
	var history collector.HistoryFetcher
	if cfg.Mock {
		mock := &collector.MockFetcher{Spot: 1000, Step: *cfg.Band.Increment}
		chain, history = mock, mock
	} else {
		chain = collector.NewNSEFetcher(cfg.Chain.BaseURL, cfg.Proxy)
		switch cfg.History.Provider {
		case "alpaca":
			history = collector.NewAlpacaFetcher(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret)
		default:
			history = collector.NewYahooFetcher(cfg.History.SymbolSuffix, cfg.Proxy)
		}
	}
	log.Printf("[INFO] chain source: %s, history source: %s", chain.Name(), history.Name())

	col := collector.NewCollector(chain, history, cat, collector.Options{
		Pct:          *cfg.Band.Pct,
		Increment:    *cfg.Band.Increment,
		Simulate:     cfg.Band.Simulate,
		LookbackDays: cfg.History.DefaultLookbackDays,
	})

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telegram.BotToken != "" {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched := scheduler.NewScheduler(ctx, col, tn, cfg.Schedule.Watch)
		if cfg.Schedule.DigestCron != "" {
			if err := sched.RegisterDigest(cfg.Schedule.DigestCron); err != nil {
				log.Fatalf("[FATAL] register digest: %v", err)
			}
			sched.Start()
			defer sched.Stop()
		}

		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewServer(col),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[INFO] dashboard listening on http://%s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] StrikeBand stopped")
}

func setupLogger(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}))
	return nil
}
