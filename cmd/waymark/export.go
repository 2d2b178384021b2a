package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/waymark-dev/waymark/internal/config"
	"github.com/waymark-dev/waymark/internal/errors"
	"github.com/waymark-dev/waymark/pkg/export"
	"github.com/waymark-dev/waymark/pkg/manifest"
	"github.com/waymark-dev/waymark/pkg/source"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the route manifests to static files",
		Long: `Generate the three route manifests and write them to the output
directory.

The exported tree keeps the serving paths, so it can sit behind any
static file host:

  dist/_next/static/development/_devPagesManifest.json
  dist/_next/static/development/_buildManifest.js
  dist/_next/static/development/_devMiddlewareManifest.json

Examples:
  waymark export
  waymark export --output=out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from waymark.json)")

	return cmd
}

func runExport(output string) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if output != "" {
		cfg.Export.Output = output
	}

	routesPath := cfg.RoutesPath()
	if _, err := os.Stat(routesPath); os.IsNotExist(err) {
		return errors.New("E100").
			WithDetail(fmt.Sprintf("looked in %s", routesPath)).
			WithSuggestion("Create the routes directory or set paths.routes in waymark.json.")
	}

	routes, err := source.Scan(routesPath, source.ScanOptions{})
	if err != nil {
		return errors.FromError(err, "E101")
	}

	var opts []manifest.Option
	if rewrites := cfg.Rewrites(); rewrites != nil {
		opts = append(opts, manifest.WithRewrites(rewrites))
	}
	manifests := manifest.NewDevManifestSource([]source.Source{routes}, opts...)

	fmt.Println("  Exporting route manifests...")
	fmt.Println()

	files, err := export.Export(context.Background(), manifests, export.NewDirPublisher(cfg.OutputPath()))
	if err != nil {
		return errors.FromError(err, "E180")
	}

	for _, f := range files {
		info("%-52s %s", f.Name, formatBytes(f.Size))
	}
	fmt.Println()
	success("Exported %d manifests to %s/", len(files), cfg.Export.Output)

	return nil
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
