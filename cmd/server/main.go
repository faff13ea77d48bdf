package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/flashstudy/internal/api"
	"github.com/vytor/flashstudy/internal/config"
	"github.com/vytor/flashstudy/internal/db"
	"github.com/vytor/flashstudy/internal/generate"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/repository/sqlite"
	"github.com/vytor/flashstudy/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("flashstudy server starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("openai_model=%s", cfg.OpenAIModel)
	log.Debug("openai_configured=%t", cfg.OpenAIKey != "")
	log.Debug("http_timeout=%s", cfg.HTTPTimeout)
	if cfg.UsingDefaultSecret() {
		log.Warn("SESSION_SECRET is not set, using the development secret")
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Load templates
	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}
	log.Debug("templates loaded successfully")

	// Initialize repositories and services
	setRepo := sqlite.NewSetRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)

	generator := generate.NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	fetcher := generate.NewReadabilityFetcher(cfg.HTTPTimeout)

	srv := &api.Server{
		DB:                database,
		SetService:        services.NewSetService(setRepo),
		StudyService:      services.NewStudyService(setRepo, progressRepo),
		GenerationService: services.NewGenerationService(setRepo, generator, fetcher),
		Sessions:          api.NewSessionStore([]byte(cfg.SessionSecret), cfg.SecureCookies),
		Templates:         tmpl,
		SecureCookies:     cfg.SecureCookies,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("flashstudy server stopped")
	log.Info("===========================================")
}
