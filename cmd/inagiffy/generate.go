package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bhaveshbalendra/Inagiffy/internal/config"
	"github.com/bhaveshbalendra/Inagiffy/internal/db"
	"github.com/bhaveshbalendra/Inagiffy/internal/enrich"
	"github.com/bhaveshbalendra/Inagiffy/internal/generation"
	"github.com/bhaveshbalendra/Inagiffy/internal/llm"
	"github.com/bhaveshbalendra/Inagiffy/internal/types"
)

var (
	generateLevel  string
	generateSave   bool
	generateAPIKey string
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a learning map from the command line",
	Long:  `Generate a learning map for a topic without starting the server. The map is printed as JSON; use --save to also persist it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateLevel, "level", "l", "beginner", "Proficiency level (beginner, intermediate, advanced)")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "Persist the generated map (requires DATABASE_URL)")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic := args[0]

	level, err := types.ParseLevel(generateLevel)
	if err != nil {
		return err
	}

	cfg := config.Load()
	if generateAPIKey != "" {
		cfg.GeminiAPIKey = generateAPIKey
	}
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
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

	var store generation.Store
	if generateSave {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required with --save")
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		store = database
	}

	generator := generation.New(client, store, enrich.New(zap.NewNop()), zap.NewNop())

	m, err := generator.Generate(ctx, topic, level, generateSave)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Generated %d branches, %d subtopics for %q (%s)\n",
		len(m.Branches), m.CountSubTopics(), m.Topic, m.Level)
	if m.ID != "" {
		fmt.Fprintf(os.Stderr, "Saved as %s\n", m.ID)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
