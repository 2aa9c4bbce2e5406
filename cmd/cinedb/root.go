package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cinedb",
	Short: "A top-rated movie database built from the IMDb ranked list",
	Long: `CineDB crawls the IMDb top-rated movie chart, caches every fetched
page so a crawl is resumable without re-downloading, and loads the
extracted movies and their directors into a local sqlite database.
Reports and a small web front end are served from that database.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cinedb.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().String("cache-file", "imdb_cache.json", "path of the JSON page cache")
	rootCmd.PersistentFlags().String("db-dir", ".", "directory holding the sqlite database")
	rootCmd.PersistentFlags().String("base-url", "https://www.imdb.com", "site root to crawl")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, error")

	// Bind flags to viper
	viper.BindPFlag("cache_file", rootCmd.PersistentFlags().Lookup("cache-file"))
	viper.BindPFlag("db_dir", rootCmd.PersistentFlags().Lookup("db-dir"))
	viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory and current directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cinedb")
		viper.SetConfigName("config")
	}

	// Environment variables
	viper.SetEnvPrefix("CINEDB")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
