package config

import (
	"fmt"

	"github.com/longkey1/askdoc/internal/askdoc"
	"github.com/longkey1/askdoc/internal/askdoc/conversation"
	"github.com/spf13/viper"
)

// Config holds the configuration for the askdoc client
type Config struct {
	BaseURL         string `toml:"base_url" mapstructure:"base_url"`
	Greeting        string `toml:"greeting" mapstructure:"greeting"`
	FallbackMessage string `toml:"fallback_message" mapstructure:"fallback_message"`
	StartOpen       bool   `toml:"start_open" mapstructure:"start_open"`           // Show the chat panel when the TUI starts
	RenderMarkdown  bool   `toml:"render_markdown" mapstructure:"render_markdown"` // Render bot replies as markdown
	MarkdownStyle   string `toml:"markdown_style" mapstructure:"markdown_style"`   // glamour style: dark, light, notty, ...
	ShowSources     bool   `toml:"show_sources" mapstructure:"show_sources"`
	LogLevel        string `toml:"log_level" mapstructure:"log_level"`
	LogFile         string `toml:"log_file" mapstructure:"log_file"` // Empty: stderr, or <config dir>/askdoc.log in the TUI
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		BaseURL:         "http://localhost:8000",
		Greeting:        conversation.DefaultGreeting,
		FallbackMessage: conversation.DefaultFallback,
		StartOpen:       false,
		RenderMarkdown:  true,
		MarkdownStyle:   "dark",
		ShowSources:     true,
		LogLevel:        "info",
		LogFile:         "",
	}
}

// SetDefaults registers every default value with viper
func SetDefaults(v *viper.Viper) {
	d := NewDefaultConfig()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("greeting", d.Greeting)
	v.SetDefault("fallback_message", d.FallbackMessage)
	v.SetDefault("start_open", d.StartOpen)
	v.SetDefault("render_markdown", d.RenderMarkdown)
	v.SetDefault("markdown_style", d.MarkdownStyle)
	v.SetDefault("show_sources", d.ShowSources)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration from v, expanding environment references
func LoadFrom(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	baseURL, err := expandEnvVar(config.BaseURL)
	if err != nil {
		return nil, err
	}
	config.BaseURL, err = askdoc.ParseBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("base_url is not valid. Set it in config file (base_url) or environment variable (ASKDOC_BASE_URL): %w", err)
	}

	if config.LogFile != "" {
		logFile, err := expandEnvVar(config.LogFile)
		if err != nil {
			return nil, err
		}
		config.LogFile, err = ResolvePath(v, logFile)
		if err != nil {
			return nil, fmt.Errorf("error resolving log file path '%s': %v", logFile, err)
		}
	}

	return config, nil
}
