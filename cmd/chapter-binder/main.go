// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the chapter-binder CLI, which
// compiles per-chapter Questions/Explanations PDF pairs into one combined
// study book per class/subject grouping.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the chapter-binder CLI.
var rootCmd = &cobra.Command{
	Use:   "chapter-binder",
	Short: "Compile chapter PDF pairs into combined study books",
	Long: `chapter-binder scans an input directory for "Class <class> <subject> <year>"
grouping directories, pairs each chapter's Questions PDF with its
Explanations PDF, orders chapters by the numeric index read from each
chapter's first page, and writes one combined PDF per grouping with an
index page in front.

Use scan to inspect what would be bound, bind to produce the books, and
report to list past runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./chapter-binder.yaml or ~/.config/chapter-binder/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("chapter-binder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "chapter-binder"))
		}
	}

	viper.SetEnvPrefix("CHAPTER_BINDER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a string option: an explicitly set flag wins,
// then the viper key (config file or environment), then the flag default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

// intSetting resolves an integer option with the same precedence.
func intSetting(cmd *cobra.Command, flag, key string) int {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
