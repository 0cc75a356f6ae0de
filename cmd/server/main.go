// Copyright SkillScore Extraction Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/skillscore/extraction-gw/pkg/adapters/http"
	"github.com/skillscore/extraction-gw/pkg/auth"
	authoidc "github.com/skillscore/extraction-gw/pkg/auth/oidc"
	authstatic "github.com/skillscore/extraction-gw/pkg/auth/static"
	"github.com/skillscore/extraction-gw/pkg/core/api"
	"github.com/skillscore/extraction-gw/pkg/core/config"
	"github.com/skillscore/extraction-gw/pkg/core/services"
	"github.com/skillscore/extraction-gw/pkg/filestore"
	"github.com/skillscore/extraction-gw/pkg/filestore/filesystem"
	fsmemory "github.com/skillscore/extraction-gw/pkg/filestore/memory"
	fspostgres "github.com/skillscore/extraction-gw/pkg/filestore/postgres"
	fss3 "github.com/skillscore/extraction-gw/pkg/filestore/s3"
	"github.com/skillscore/extraction-gw/pkg/observability/logging"
	"github.com/skillscore/extraction-gw/pkg/upload"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	port := flag.Int("port", 8080, "HTTP port to listen on")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("SkillScore Extraction Gateway\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		os.Exit(0)
	}

	logger := logging.New(logging.Config{
		Level:  "info",
		Format: "json",
	})
	logger.Info("Starting SkillScore Extraction Gateway",
		"version", Version,
		"build_time", BuildTime)

	cfg, err := config.Load(*configPath)
	if err != nil {
		// If config file doesn't exist, use defaults
		logger.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	if *port != 8080 {
		cfg.Server.Port = *port
	}

	initCtx := context.Background()

	// Document store
	var docStore filestore.DocumentStore
	switch cfg.FileStore.Type {
	case "filesystem":
		fs, fsErr := filesystem.New(cfg.FileStore.BaseDir)
		if fsErr != nil {
			logger.Error("Failed to initialize filesystem document store", "error", fsErr)
			os.Exit(1)
		}
		docStore = fs
		logger.Info("Initialized filesystem document store", "base_dir", cfg.FileStore.BaseDir)
	case "s3":
		s3Store, s3Err := fss3.New(initCtx, fss3.Options{
			Bucket:   cfg.FileStore.S3Bucket,
			Region:   cfg.FileStore.S3Region,
			Prefix:   cfg.FileStore.S3Prefix,
			Endpoint: cfg.FileStore.S3Endpoint,
		})
		if s3Err != nil {
			logger.Error("Failed to initialize S3 document store", "error", s3Err)
			os.Exit(1)
		}
		docStore = s3Store
		logger.Info("Initialized S3 document store", "bucket", cfg.FileStore.S3Bucket)
	case "postgres":
		pgStore, pgErr := fspostgres.New(cfg.FileStore.DSN)
		if pgErr != nil {
			logger.Error("Failed to initialize PostgreSQL document store", "error", pgErr)
			os.Exit(1)
		}
		docStore = pgStore
		logger.Info("Initialized PostgreSQL document store")
	default:
		docStore = fsmemory.New()
		logger.Info("Initialized in-memory document store")
	}
	defer docStore.Close(context.Background())

	// Auth provider
	var authn auth.Provider
	switch cfg.Auth.Mode {
	case "oidc":
		provider, oidcErr := authoidc.New(initCtx, cfg.Auth.Issuer, cfg.Auth.Audience)
		if oidcErr != nil {
			logger.Error("Failed to initialize OIDC provider", "error", oidcErr)
			os.Exit(1)
		}
		authn = provider
		logger.Info("Initialized OIDC authentication", "issuer", cfg.Auth.Issuer)
	case "static":
		authn = authstatic.New(cfg.Auth.Token)
		logger.Info("Initialized static token authentication")
	default:
		logger.Warn("Authentication disabled")
	}

	// Extraction pipeline
	extractionService := services.NewExtractionService(cfg.Extraction, logger.Component("extraction"))
	logger.Info("Initialized extraction service",
		"max_text_length", cfg.Extraction.MaxTextLength,
		"ocr_language", cfg.Extraction.OCRLanguage)

	// Question generation client (optional)
	var questions api.QuestionClient
	if cfg.Generation.Endpoint != "" || cfg.Generation.APIKey != "" {
		questions = api.NewOpenAIClient(cfg.Generation.Endpoint, cfg.Generation.APIKey, cfg.Generation.Model, cfg.Generation.Timeout)
		logger.Info("Initialized question generation client",
			"model", cfg.Generation.Model,
			"timeout", cfg.Generation.Timeout)
	}

	uploads := upload.NewValidator(cfg.Upload)

	handler := httpAdapter.New(extractionService, docStore, questions, cfg.Generation, uploads, authn, logger)
	logger.Info("Initialized HTTP adapter")

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
