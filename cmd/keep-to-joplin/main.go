// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the keep-to-joplin CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the keep-to-joplin CLI.
var rootCmd = &cobra.Command{
	Use:   "keep-to-joplin",
	Short: "Convert Google Keep Takeout exports to Joplin-importable markdown",
	Long: `keep-to-joplin converts a Google Keep archive exported via Google Takeout
(one JSON record per note) into markdown files with YAML frontmatter that
Joplin can import.

Run "keep-to-joplin convert" for a plain command-line conversion, or
"keep-to-joplin ui" for the same pipeline behind an interactive terminal
surface. Past runs recorded in a manifest can be inspected with
"keep-to-joplin report".`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./keep-to-joplin.yaml or ~/.config/keep-to-joplin/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("keep-to-joplin")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "keep-to-joplin"))
		}
	}

	viper.SetEnvPrefix("KEEP_TO_JOPLIN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
