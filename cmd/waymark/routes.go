package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/waymark-dev/waymark/internal/config"
	"github.com/waymark-dev/waymark/internal/errors"
	"github.com/waymark-dev/waymark/pkg/manifest"
	"github.com/waymark-dev/waymark/pkg/source"
)

func routesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the discovered route table",
		Long: `Print the routes discovered from the configured routes directory.

Routes are listed in the order the client router matches them:
literal segments before dynamic [param] segments, dynamic segments
before catch-all [[...param]] segments.

Examples:
  waymark routes
  waymark routes --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the pages manifest JSON instead of a table")

	return cmd
}

func runRoutes(asJSON bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
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
	manifests := manifest.NewDevManifestSource([]source.Source{routes})

	ctx := context.Background()

	if asJSON {
		body, err := manifests.RouteListJSON(ctx)
		if err != nil {
			return errors.FromError(err, "E001")
		}
		fmt.Println(string(body))
		return nil
	}

	list, err := manifests.FindRoutes(ctx)
	if err != nil {
		return errors.FromError(err, "E001")
	}

	if len(list) == 0 {
		warn("No routes found in %s", routesPath)
		return nil
	}

	fmt.Println()
	fmt.Printf("  %d routes in %s\n", len(list), routesPath)
	fmt.Println()
	for _, route := range list {
		kind := "page"
		if route == "/api" || strings.HasPrefix(route, "/api/") {
			kind = "api"
		}
		fmt.Printf("    %-40s %s\n", route, kind)
	}
	fmt.Println()

	return nil
}
