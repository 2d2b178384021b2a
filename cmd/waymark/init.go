package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/waymark-dev/waymark/internal/config"
	"github.com/waymark-dev/waymark/internal/errors"
)

func initCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new Waymark project",
		Long: `Create a waymark.json and a starter route layout.

With no argument the project is created in the current directory.

Examples:
  waymark init
  waymark init my-app
  waymark init my-app --name blog`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (defaults to the directory name)")

	return cmd
}

func runInit(dir, name string) error {
	printBanner()

	projectDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	if name == "" {
		name = filepath.Base(projectDir)
	}
	if !isValidProjectName(name) {
		return errors.New("E147").
			WithDetail("'" + name + "' is not a usable project name").
			WithSuggestion("Use lowercase letters, numbers, and hyphens")
	}

	if config.Exists(projectDir) {
		return errors.New("E140").
			WithDetail("Found waymark.json in " + projectDir).
			WithSuggestion("Remove it or run init in a different directory")
	}

	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return err
	}

	info("Writing waymark.json...")
	cfg := config.New()
	cfg.Name = name
	if err := cfg.SaveTo(filepath.Join(projectDir, config.ConfigFileName)); err != nil {
		return err
	}

	info("Creating starter routes...")
	routesDir := filepath.Join(projectDir, config.DefaultRoutes)
	if err := os.MkdirAll(routesDir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(routesDir, "index.go"), []byte(starterRoute), 0644); err != nil {
		return err
	}

	publicDir := filepath.Join(projectDir, config.DefaultStaticDir)
	if err := os.MkdirAll(publicDir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(publicDir, "app.css"), []byte(starterCSS), 0644); err != nil {
		return err
	}

	fmt.Println()
	success("Created %s", name)
	fmt.Println()
	fmt.Println("  To get started:")
	fmt.Println()
	if dir != "." {
		fmt.Printf("    cd %s\n", dir)
	}
	fmt.Println("    waymark dev")
	fmt.Println()

	return nil
}

func isValidProjectName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == ' ' || r == '/' || r == '\\' {
			return false
		}
		if i == 0 && r >= '0' && r <= '9' {
			return false
		}
	}
	return true
}

const starterRoute = `package routes

// Home renders the landing page. Replace it with your own markup.
func Home() string {
	return "<h1>Hello, Waymark</h1>"
}
`

const starterCSS = `body {
	font-family: sans-serif;
	margin: 0;
}
`
