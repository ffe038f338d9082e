// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iapprendre/catalog-platform/internal/catalog"
	"github.com/iapprendre/catalog-platform/internal/chat"
	"github.com/iapprendre/catalog-platform/internal/config"
	"github.com/iapprendre/catalog-platform/internal/events"
	"github.com/iapprendre/catalog-platform/internal/handler"
	"github.com/iapprendre/catalog-platform/internal/llm"
	"github.com/iapprendre/catalog-platform/internal/middleware"
	"github.com/iapprendre/catalog-platform/internal/service"
	"github.com/iapprendre/catalog-platform/pkg/logger"
	"github.com/iapprendre/catalog-platform/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Infow("starting API server")

	// Initialize tracing if enabled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "catalog-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warnw("failed to initialize tracing", "error", err)
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Load the static catalog
	cat, err := catalog.Load()
	if err != nil {
		log.Errorw("failed to load catalog", "error", err)
		os.Exit(1)
	}
	log.Infow("catalog loaded", "tools", len(cat.Tools))

	// Connect to NATS if configured (optional event fan-out)
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.Connect(events.Config{
			URL:   cfg.NATSURL,
			Token: cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warnw("failed to connect to NATS, event fan-out disabled", "error", err)
		} else {
			defer publisher.Close()
		}
	}

	// Pick the response strategy
	responder := buildResponder(cfg, log)

	// Initialize services
	catalogSvc := service.NewCatalogService(cat)
	var updatePublisher service.UpdatePublisher
	if publisher != nil {
		updatePublisher = publisher
	}
	sessionSvc := service.NewSessionService(responder, updatePublisher, cfg.SessionTTL, log)
	sessionSvc.StartReaper(ctx)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(publisher)
	toolsHandler := handler.NewToolsHandler(catalogSvc, log)
	chatHandler := handler.NewChatHandler(sessionSvc, log)
	streamHandler := handler.NewStreamHandler(sessionSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		// Catalog
		r.Get("/tools", toolsHandler.List)
		r.Get("/categories", toolsHandler.Categories)
		r.Get("/stats", toolsHandler.Stats)

		// Chat sessions
		r.Route("/chat", func(r chi.Router) {
			r.Post("/", chatHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", chatHandler.Delete)
				r.Get("/messages", chatHandler.Transcript)
				r.Post("/messages", chatHandler.Send)
				r.Get("/stream", streamHandler.Stream)
			})
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server listening", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Infow("server stopped")
}

// buildResponder selects the response strategy from configuration. The rule
// table is the default; a remote backend is used only when its key is set.
func buildResponder(cfg *config.Config, log *logger.Logger) chat.Responder {
	switch cfg.ChatBackend {
	case "anthropic":
		client, err := llm.NewClient(llm.ProviderAnthropic, cfg.AnthropicAPIKey)
		if err == nil {
			return chat.NewRemoteResponder(client, cfg.ChatRemoteTimeout, log)
		}
		log.Warnw("failed to create Anthropic client, falling back to rules", "error", err)
	case "openai":
		client, err := llm.NewClient(llm.ProviderOpenAI, cfg.OpenAIAPIKey)
		if err == nil {
			return chat.NewRemoteResponder(client, cfg.ChatRemoteTimeout, log)
		}
		log.Warnw("failed to create OpenAI client, falling back to rules", "error", err)
	}

	return chat.NewRuleResponder(chat.DefaultRules(), chat.DefaultFallback, cfg.ChatTypingDelay)
}
