/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/longkey1/askdoc/internal/askdoc/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, base_url, greeting, fallback_message, start_open, render_markdown, markdown_style, show_sources, log_level, log_file"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  askdoc config               # Show all configuration
  askdoc config base_url      # Show only the backend base URL
  askdoc config log_file      # Show only the log file`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if len(args) > 0 {
			value, ok := configField(cfg, args[0])
			if !ok {
				return fmt.Errorf("unknown field: %s\nAvailable fields: %s", args[0], configFields)
			}
			fmt.Println(value)
			return nil
		}

		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("BaseURL: %s\n", cfg.BaseURL)
		fmt.Printf("Greeting: %s\n", cfg.Greeting)
		fmt.Printf("FallbackMessage: %s\n", cfg.FallbackMessage)
		fmt.Printf("StartOpen: %v\n", cfg.StartOpen)
		fmt.Printf("RenderMarkdown: %v\n", cfg.RenderMarkdown)
		fmt.Printf("MarkdownStyle: %s\n", cfg.MarkdownStyle)
		fmt.Printf("ShowSources: %v\n", cfg.ShowSources)
		fmt.Printf("LogLevel: %s\n", cfg.LogLevel)
		fmt.Printf("LogFile: %s\n", cfg.LogFile)
		return nil
	},
}

// configField returns the display value of a single field
func configField(cfg *config.Config, field string) (string, bool) {
	switch strings.ToLower(field) {
	case "configfile":
		return viper.ConfigFileUsed(), true
	case "base_url", "baseurl":
		return cfg.BaseURL, true
	case "greeting":
		return cfg.Greeting, true
	case "fallback_message", "fallbackmessage":
		return cfg.FallbackMessage, true
	case "start_open", "startopen":
		return fmt.Sprint(cfg.StartOpen), true
	case "render_markdown", "rendermarkdown":
		return fmt.Sprint(cfg.RenderMarkdown), true
	case "markdown_style", "markdownstyle":
		return cfg.MarkdownStyle, true
	case "show_sources", "showsources":
		return fmt.Sprint(cfg.ShowSources), true
	case "log_level", "loglevel":
		return cfg.LogLevel, true
	case "log_file", "logfile":
		return cfg.LogFile, true
	default:
		return "", false
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
}
