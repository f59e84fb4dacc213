/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/longkey1/askdoc/internal/askdoc/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Ask questions about the book from your terminal",
	Long: `askdoc is a terminal chat client for the book's question-answering backend.
It sends each question to the backend's /query endpoint and shows the answer.
You can configure the tool using a TOML configuration file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/askdoc/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("base-url", "", "backend base URL (overrides base_url)")
	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("ASKDOC")
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "askdoc")

	config.SetDefaults(viper.GetViper())

	// Bind environment variables
	viper.BindEnv("base_url", "ASKDOC_BASE_URL")
	viper.BindEnv("log_level", "ASKDOC_LOG_LEVEL")
	viper.BindEnv("log_file", "ASKDOC_LOG_FILE")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else {
		// System-wide config first, user config merged on top
		files, err := config.Load(viper.GetViper(), config.SystemDirs, userConfigDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
		if verbose {
			for _, f := range files {
				fmt.Fprintln(os.Stderr, "Loaded config:", f)
			}
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "  ASKDOC_BASE_URL:", viper.GetString("base_url"))
		fmt.Fprintln(os.Stderr, "  ASKDOC_LOG_LEVEL:", viper.GetString("log_level"))
	}
}
