package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gogpu/roundimg"
	"github.com/gogpu/roundimg/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
	prefsPath  string

	// Loaded in PersistentPreRunE
	logger *zap.Logger
	cfg    *config.Config
	prefs  *config.Preferences
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "roundimg",
	Short: "Export images with rounded corners",
	Long: `roundimg clips images to a rounded rectangle and writes them as
transparent PNG files.

Pixels outside the rounded corners become fully transparent; everything
inside keeps its color and alpha. Radii larger than half the shorter side
are clamped, producing a stadium or circle.`,
	Version:       roundimg.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			roundimg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: slog.LevelDebug})))
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if configPath == "" {
			configPath = config.DefaultPath()
		}
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config %s: %w", configPath, err)
		}

		if prefsPath == "" {
			prefsPath = config.DefaultPreferencesPath()
		}
		if prefs, err = config.LoadPreferences(prefsPath); err != nil {
			return err
		}

		logger.Debug("configuration loaded",
			zap.String("config", configPath),
			zap.String("theme", string(prefs.Theme)),
			zap.Int("radius", cfg.Radius),
			zap.String("filter", cfg.Filter))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", "", "Preferences file (default: user config dir)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(themeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
