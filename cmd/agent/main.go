package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Suharaz/MerkleAI/internal/broker"
	"github.com/Suharaz/MerkleAI/internal/config"
	"github.com/Suharaz/MerkleAI/internal/evaluator"
	"github.com/Suharaz/MerkleAI/internal/leaderboard"
	"github.com/Suharaz/MerkleAI/internal/market"
	"github.com/Suharaz/MerkleAI/internal/monitoring"
	"github.com/Suharaz/MerkleAI/internal/notifications"
	"github.com/Suharaz/MerkleAI/internal/scheduler"
	"github.com/Suharaz/MerkleAI/internal/snapshot"
	"github.com/Suharaz/MerkleAI/internal/strategy"
	"github.com/Suharaz/MerkleAI/internal/users"
)

func main() {
	cfg := config.Load()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting trading agent in %s mode", cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthChecker := monitoring.NewHealthChecker()

	var notifier notifications.Notifier
	if cfg.Notifications.TelegramToken != "" {
		notifier = notifications.NewTelegramNotifier(cfg.Notifications.TelegramToken)
	} else {
		log.Println("Telegram notifications disabled (no token configured)")
		notifier = &notifications.LogNotifier{Printf: log.Printf}
	}

	persistence, err := buildPersistence(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot persistence: %v", err)
	}
	store := snapshot.NewStore(persistence)

	tokens := cfg.Market.Tokens
	if len(tokens) == 0 {
		tokens = market.DefaultTokens
	}
	refresher := market.NewRefreshPipeline(market.NewBybitSource(), store, tokens)

	userStore, err := users.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("Failed to connect to user store: %v", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := userStore.Close(closeCtx); err != nil {
			log.Printf("Error closing user store: %v", err)
		}
	}()

	generator := buildGenerator(cfg)
	brokers := broker.NewBybitFactory(cfg.Venue.Testnet)

	eval := evaluator.New(userStore, store, generator, brokers, notifier)
	board := leaderboard.NewService(userStore, brokers, cfg.Leaderboard.ExportPath)

	go setupMonitoringServers(cfg, healthChecker)

	sched := scheduler.New(refresher, eval, board, healthChecker)
	sched.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	sched.Stop()
	cancel()

	log.Println("Agent stopped successfully")
}

// buildPersistence selects the durable snapshot tier: Redis when an address
// is configured, the local file cache otherwise.
func buildPersistence(ctx context.Context, cfg *config.Config) (snapshot.Persistence, error) {
	if cfg.Redis.Addr != "" {
		log.Printf("Using Redis snapshot persistence at %s", cfg.Redis.Addr)
		return snapshot.NewRedisPersistence(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}
	log.Printf("Using file snapshot persistence in %s", cfg.Market.SnapshotDir)
	return snapshot.NewFilePersistence(cfg.Market.SnapshotDir)
}

func buildGenerator(cfg *config.Config) strategy.Generator {
	var openai, grok *strategy.ChatClient
	if cfg.Models.OpenAIKey != "" {
		openai = strategy.NewOpenAIClient(cfg.Models.OpenAIKey)
	}
	if cfg.Models.GrokKey != "" {
		grok = strategy.NewGrokClient(cfg.Models.GrokKey)
	}
	if openai == nil && grok == nil {
		log.Println("Warning: no model API keys configured, strategy generation will fail")
	}
	return strategy.NewLLMGenerator(openai, grok)
}

func setupMonitoringServers(cfg *config.Config, healthChecker *monitoring.HealthChecker) {
	healthMux := http.NewServeMux()
	healthMux.Handle("/health", healthChecker)

	go func() {
		log.Printf("Starting health server on port %d", cfg.Monitoring.HealthPort)
		if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Monitoring.HealthPort), healthMux); err != nil {
			log.Printf("Health server error: %v", err)
		}
	}()

	go func() {
		log.Printf("Starting Prometheus server on port %d", cfg.Monitoring.PrometheusPort)
		if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort), monitoring.NewMetricsHandler()); err != nil {
			log.Printf("Prometheus server error: %v", err)
		}
	}()
}
