package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/huapala/huapala/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "huapala",
		Short: "Huapala archive tools - search songs and review songbook linkages",
		Long: `huapala manages the Huapala Hawaiian song archive.

It searches canonical songs, people and songbook entries with
ʻokina- and kahakō-insensitive matching, and runs the human review of
suggested links between songs and songbook entries. Review decisions are
saved in a local SQLite database and approved links are pushed to the
Huapala API.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/huapala.yaml)")
	rootCmd.PersistentFlags().String("db", "huapala-review.db", "review decisions database file")
	rootCmd.PersistentFlags().String("api-url", util.DefaultAPIURL, "Huapala API base URL")
	rootCmd.PersistentFlags().String("suggestions", "", "suggested linkages JSON file")
	rootCmd.PersistentFlags().String("songs", "", "canonical songs JSON file")
	rootCmd.PersistentFlags().String("people", "", "people JSON file")
	rootCmd.PersistentFlags().String("entries", "", "songbook entries JSON file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	// Bind flags to viper
	for _, key := range []string{"db", "api-url", "suggestions", "songs", "people", "entries", "verbose", "quiet"} {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in common locations
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("huapala")
		viper.SetConfigType("yaml")
	}

	// HUAPALA_API_URL, HUAPALA_SUGGESTIONS, ...
	viper.SetEnvPrefix("HUAPALA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
