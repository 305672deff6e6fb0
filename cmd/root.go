// Package cmd wires the command-line surface: a root command carrying
// the shared configuration, the migrate command with its synthesized
// per-adapter flags, and the adapters listing.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/engdan77/music-meta-manager/adapter"
	"github.com/engdan77/music-meta-manager/adapters/spotify"
	"github.com/engdan77/music-meta-manager/config"
	"github.com/engdan77/music-meta-manager/logger"
	"github.com/engdan77/music-meta-manager/migrate"
)

// Exit codes, one per failure class.
const (
	ExitOK           = 0
	ExitConfig       = 1
	ExitSelection    = 2
	ExitRegistration = 3
	ExitAdapter      = 4
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "musicmeta",
	Short: "musicmeta migrates song metadata between sources",
	Long: `musicmeta copies song metadata between sources and destinations:
iTunes library exports, ID3 tags, JSON and SQLite stores, Spotify
playlists and media server APIs. Pick exactly one reader and one writer
per run; see "musicmeta adapters" for what is available.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = c

		if err := logger.Init(logger.Config{
			Level:      cfg.Log.Level,
			OutputPath: cfg.Log.Path,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}); err != nil {
			return &config.ConfigError{Message: fmt.Sprintf("Failed to initialize logging: %v", err)}
		}

		// Configured Spotify credentials become the environment fallback
		// the spotify-reader consults.
		if cfg.Spotify.ClientID != "" && os.Getenv(spotify.EnvClientID) == "" {
			os.Setenv(spotify.EnvClientID, cfg.Spotify.ClientID)
		}
		if cfg.Spotify.ClientSecret != "" && os.Getenv(spotify.EnvClientSecret) == "" {
			os.Setenv(spotify.EnvClientSecret, cfg.Spotify.ClientSecret)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to configuration file (default: "+config.DefaultPath+")")
}

// Execute runs the CLI and maps the failure class to an exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	logger.Sync()
	return exitCode(err)
}

func exitCode(err error) int {
	var (
		cfgErr *config.ConfigError
		selErr *migrate.SelectionError
		regErr *adapter.RegistrationError
		runErr *migrate.RunError
	)
	switch {
	case errors.As(err, &cfgErr):
		return ExitConfig
	case errors.As(err, &selErr):
		return ExitSelection
	case errors.As(err, &regErr):
		return ExitRegistration
	case errors.As(err, &runErr):
		return ExitAdapter
	}
	return ExitConfig
}
