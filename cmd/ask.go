/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/longkey1/askdoc/internal/askdoc/config"
	"github.com/longkey1/askdoc/internal/askdoc/query"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var showSources bool

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Send one question to the backend and print the answer.
This command performs a one-time API call.

If no question is provided as an argument, it reads from stdin.

For a conversation, use 'askdoc chat' instead.`,
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

		var question string
		if len(args) > 0 {
			question = strings.Join(args, " ")
		} else {
			input, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			question = strings.TrimSpace(string(input))
		}

		if strings.TrimSpace(question) == "" {
			return fmt.Errorf("question cannot be empty")
		}

		client := newClient(cfg)
		resp, err := client.Ask(cmd.Context(), question)
		if err != nil {
			log.Error().
				Err(err).
				Str("kind", query.KindOf(err).String()).
				Msg("query failed")
			fmt.Println(cfg.FallbackMessage)
			return fmt.Errorf("query failed: %w", err)
		}

		fmt.Println(resp.Text())

		withSources := cfg.ShowSources
		if cmd.Flags().Changed("sources") {
			withSources = showSources
		}
		if withSources {
			if sources := query.FormatSources(resp.Sources); sources != "" {
				fmt.Println("\n---\nSources:\n" + sources)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolVar(&showSources, "sources", true, "Print the documents the answer was drawn from")
}
