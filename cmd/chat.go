/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/longkey1/askdoc/internal/askdoc/config"
	"github.com/longkey1/askdoc/internal/askdoc/repl"
	"github.com/longkey1/askdoc/internal/askdoc/ui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	plainMode bool
	openPanel bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the AI assistant.

In a terminal, a full-screen panel opens (toggle it with ctrl+t).
When stdout is not a terminal, or with --plain, a line-oriented prompt is used instead.

Only one question is in flight at a time: new questions are not accepted until
the previous answer (or an error notice) has arrived. Nothing is saved when you quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		fullscreen := !plainMode && isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())

		closeLog, err := setupLogging(cfg, fullscreen)
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}
		defer closeLog()

		client := newClient(cfg)
		store := newStore(cfg, client)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if !fullscreen {
			r := repl.New(store, os.Stdin, os.Stdout, os.Stderr,
				repl.WithSpinner(isatty.IsTerminal(os.Stderr.Fd())),
				repl.WithBaseURL(client.BaseURL()),
			)
			if err := r.Run(ctx); err != nil {
				return fmt.Errorf("interactive mode: %w", err)
			}
			return nil
		}

		startOpen := cfg.StartOpen
		if cmd.Flags().Changed("open") {
			startOpen = openPanel
		}

		return ui.Run(ctx, store, ui.Options{
			StartOpen:      startOpen,
			RenderMarkdown: cfg.RenderMarkdown,
			MarkdownStyle:  cfg.MarkdownStyle,
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&plainMode, "plain", false, "Use the line-oriented prompt instead of the full-screen panel")
	chatCmd.Flags().BoolVar(&openPanel, "open", false, "Open the chat panel immediately (overrides start_open)")
}
