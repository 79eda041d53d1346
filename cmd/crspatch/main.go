package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/linksvis/crspatch/internal/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	cfgFile string

	exclude    []string
	targetPath string
	outputDir  string
	useCatalog bool
	logLevel   string
	logFormat  string
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "crspatch",
	Short: "CRS course archive patcher for LINKS: The Challenge of Golf",
	Long: `crspatch rewrites CRS course archives so they remain loadable by the
Memorex VIS release of LINKS: The Challenge of Golf.

It strips configured embedded files from each archive, rebuilds the file
index with corrected offsets, regenerates the archive header and rewrites
the internal working paths in every file sub-header.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("exclude") {
			cfg.Exclude = exclude
		}
		if cmd.Flags().Changed("target-path") {
			cfg.TargetPath = targetPath
		}
		if cmd.Flags().Changed("output") {
			cfg.Output = outputDir
		}
		if cmd.Flags().Changed("catalog") {
			cfg.Catalog = useCatalog
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)

		slog.Debug("Configuration",
			"exclude", cfg.Exclude,
			"target_path", cfg.TargetPath,
			"output", cfg.Output,
			"catalog", cfg.Catalog,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat)

		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is crspatch.yaml in pwd or home)")
	rootCmd.PersistentFlags().StringSliceVarP(&exclude, "exclude", "x", []string{}, "comma-separated embedded file signatures to strip")
	rootCmd.PersistentFlags().StringVarP(&targetPath, "target-path", "t", "", "working path written into file sub-headers")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory (default is patched/ next to the first input)")
	rootCmd.PersistentFlags().BoolVar(&useCatalog, "catalog", false, "record runs in a SQLite catalog")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
}
