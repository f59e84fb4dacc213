/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"path/filepath"

	"github.com/longkey1/askdoc/internal/askdoc/config"
	"github.com/longkey1/askdoc/internal/askdoc/conversation"
	"github.com/longkey1/askdoc/internal/askdoc/logging"
	"github.com/longkey1/askdoc/internal/askdoc/query"
	"github.com/spf13/viper"
)

// newClient creates the backend client from the configuration
func newClient(cfg *config.Config) *query.Client {
	return query.NewClient(cfg.BaseURL)
}

// newStore creates a conversation bound to the backend
func newStore(cfg *config.Config, client *query.Client) *conversation.Store {
	return conversation.NewStore(client,
		conversation.WithGreeting(cfg.Greeting),
		conversation.WithFallback(cfg.FallbackMessage),
	)
}

// setupLogging installs the diagnostic logger.
// The terminal UI owns the screen, so it logs to a file even when none is configured.
func setupLogging(cfg *config.Config, fullscreen bool) (func() error, error) {
	file := cfg.LogFile
	if file == "" && fullscreen {
		dir, err := config.ConfigDir(viper.GetViper())
		if err != nil {
			return nil, err
		}
		file = filepath.Join(dir, "askdoc.log")
	}
	return logging.Setup(logging.Settings{
		Level:   cfg.LogLevel,
		File:    file,
		Verbose: verbose,
	})
}
