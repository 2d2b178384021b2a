package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/waymark-dev/waymark/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦ ╦┌─┐┬ ┬┌┬┐┌─┐┬─┐┬┌─
  ║║║├─┤└┬┘│││├─┤├┬┘├┴┐
  ╚╩╝┴ ┴ ┴ ┴ ┴┴ ┴┴└─┴ ┴
`

func main() {
	var (
		logJSON  bool
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:   "waymark",
		Short: "The route manifest dev server for file-routed web apps",
		Long: `Waymark is a development server for file-routed web apps.

It scans a routes directory, serves the pages it finds, and keeps the
client router's manifests fresh as files change. Features include:

  • File-based routing with dynamic and catch-all segments
  • _devPagesManifest.json, _buildManifest.js and
    _devMiddlewareManifest.json generated per request
  • Hot reload with an in-browser error overlay
  • Prometheus metrics and OpenTelemetry tracing
  • Manifest snapshot export for preview deploys`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger(logJSON, logLevel))
		},
	}

	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log as JSON instead of colored text")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Add commands
	rootCmd.AddCommand(
		initCmd(),
		devCmd(),
		routesCmd(),
		exportCmd(),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// newLogger builds the process logger: tint for terminal output, JSON
// when requested.
func newLogger(json bool, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	if json {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	}

	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      lvl,
		TimeFormat: "15:04:05",
	}))
}

// printBanner prints the Waymark ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
