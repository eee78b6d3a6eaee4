// Package main provides the entry point for the Inagiffy learning map API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inagiffy",
	Short: "Inagiffy learning map service",
	Long:  "Inagiffy generates hierarchical learning maps for any topic and proficiency level using an AI curriculum designer, served over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
