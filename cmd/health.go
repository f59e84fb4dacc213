/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/longkey1/askdoc/internal/askdoc/config"
	"github.com/spf13/cobra"
)

var healthTimeout time.Duration

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	Long: `Call the backend's /health endpoint and report its status.
Exits with a non-zero status when the backend is unreachable or unhealthy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		closeLog, err := setupLogging(cfg, false)
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}
		defer closeLog()

		ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
		defer cancel()

		client := newClient(cfg)
		status, err := client.Health(ctx)
		if err != nil {
			return fmt.Errorf("backend %s: %w", client.BaseURL(), err)
		}

		fmt.Printf("Backend: %s\n", client.BaseURL())
		fmt.Printf("Status: %s\n", status.Status)
		if status.Message != "" {
			fmt.Printf("Message: %s\n", status.Message)
		}
		if status.Error != "" {
			fmt.Printf("Error: %s\n", status.Error)
		}
		if !status.Healthy() {
			return fmt.Errorf("backend reports status %q", status.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", 10*time.Second, "How long to wait for the backend")
}
