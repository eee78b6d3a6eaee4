package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bhaveshbalendra/Inagiffy/internal/config"
	"github.com/bhaveshbalendra/Inagiffy/internal/db"
	"github.com/bhaveshbalendra/Inagiffy/internal/enrich"
	"github.com/bhaveshbalendra/Inagiffy/internal/generation"
	"github.com/bhaveshbalendra/Inagiffy/internal/llm"
	"github.com/bhaveshbalendra/Inagiffy/internal/logger"
	"github.com/bhaveshbalendra/Inagiffy/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for generating and retrieving learning maps.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if servePort > 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	llmConfig := llm.DefaultConfig()
	if cfg.GeminiModel != "" {
		llmConfig = llmConfig.WithModel(cfg.GeminiModel)
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}
	defer func() { _ = client.Close() }()

	log.Info("service configured",
		zap.String("model", client.Model()),
		zap.String("base_path", cfg.BasePath),
		zap.Int("port", cfg.Port),
	)

	generator := generation.New(client, database, enrich.New(log), log)
	return server.New(cfg, generator, database, log).Start()
}
