package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dropgate-systems/dropgate/internal/auth"
	"github.com/dropgate-systems/dropgate/internal/blobstore"
	"github.com/dropgate-systems/dropgate/internal/config"
	"github.com/dropgate-systems/dropgate/internal/dlq"
	"github.com/dropgate-systems/dropgate/internal/handlers"
	"github.com/dropgate-systems/dropgate/internal/identity"
	"github.com/dropgate-systems/dropgate/internal/logging"
	"github.com/dropgate-systems/dropgate/internal/relay"
	"github.com/dropgate-systems/dropgate/internal/server"

	natsclient "github.com/dropgate-systems/dropgate/internal/messaging/nats"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("relay"))
	logging.SetDefault(logger)

	slog.Info("Starting relay service",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}
	slog.Info("Backends configured",
		slog.String("nats_url", cfg.NATS.URL),
		slog.String("redis_url", cfg.Redis.URL),
		slog.String("queue_subject", cfg.Queue.Subject),
	)

	// Initialize blob existence probe
	var prober blobstore.Prober
	if cfg.Probe.Enabled {
		prober = blobstore.NewHTTPProber(identity.Default(), cfg.Probe.Timeout)
		log.Printf("Blob existence probe enabled (timeout: %s)", cfg.Probe.Timeout)
	} else {
		log.Println("Blob existence probe disabled")
	}

	// Initialize lease manager
	leases, err := blobstore.NewRedisLeaseManager(cfg.Redis.URL, cfg.Lease.TTL, prober)
	if err != nil {
		log.Fatalf("Failed to connect to Redis for leases: %v", err)
	}
	defer leases.Close()
	log.Printf("Lease manager ready (ttl: %s)", cfg.Lease.TTL)

	// Initialize JetStream publisher and provision the relay stream
	jsClient, err := natsclient.NewJetStreamClient(natsclient.Config{
		URL: cfg.NATS.URL,
	})
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	streamCtx, streamCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := jsClient.CreateOrUpdateStream(streamCtx, natsclient.RelayStreamFor(cfg.Queue.Subject)); err != nil {
		streamCancel()
		log.Fatalf("Failed to provision relay stream: %v", err)
	}
	streamCancel()

	// Initialize Dead Letter Queue
	var dlqWriter dlq.Writer
	switch cfg.DLQ.Backend {
	case "jetstream", "":
		// JetStream backend (default, supports multiple instances)
		jsDLQ, err := dlq.NewJetStreamQueue(context.Background(), jsClient)
		if err != nil {
			log.Fatalf("Failed to initialize JetStream DLQ: %v", err)
		}
		dlqWriter = jsDLQ
		log.Printf("Dead Letter Queue enabled (backend: jetstream, nats: %s)", cfg.NATS.URL)
	case "file":
		// File backend (single instance only, for development)
		fileDLQ, err := dlq.NewQueue(cfg.DLQ.BasePath)
		if err != nil {
			log.Fatalf("Failed to initialize file DLQ: %v", err)
		}
		dlqWriter = fileDLQ
		log.Printf("Dead Letter Queue enabled (backend: file, path: %s)", cfg.DLQ.BasePath)
		log.Println("WARNING: File-based DLQ does not support multiple relay instances")
	default:
		log.Fatalf("Unknown DLQ backend: %s (supported: jetstream, file)", cfg.DLQ.Backend)
	}

	// Initialize relay service
	relayService := relay.NewService(leases, jsClient, logger)
	relayService.SetDLQ(dlqWriter)
	relayService.SetSubject(cfg.Queue.Subject)

	// Initialize webhook auth
	var verifier *auth.Verifier
	if cfg.Auth.Enabled {
		if cfg.Auth.Secret == "" {
			log.Fatal("Webhook auth enabled but no secret configured")
		}
		verifier = auth.NewVerifier(cfg.Auth.Secret)
		log.Println("Webhook bearer auth enabled")
	} else {
		log.Println("Webhook bearer auth disabled")
	}

	// Initialize HTTP handlers
	handler := handlers.NewEventHandler(relayService, logger)
	handler.SetReadiness(jsClient)
	router := server.NewRouter(handler, verifier)

	// Create server with config values
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Relay service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Drain lets in-flight publishes complete before the connection closes.
	if err := jsClient.Drain(); err != nil {
		log.Printf("WARNING: NATS drain failed: %v", err)
	}

	log.Println("Server stopped")
}
