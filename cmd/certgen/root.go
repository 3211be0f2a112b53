package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-certgen/internal/prompt"
	"github.com/goliatone/go-certgen/pkg/config"
	"github.com/goliatone/go-certgen/pkg/orchestrator"
	"github.com/goliatone/go-certgen/pkg/render"
	"github.com/goliatone/go-certgen/pkg/renderers/bitmap"
	"github.com/goliatone/go-certgen/pkg/renderers/raster"
)

type rootFlags struct {
	configPath string
	verbose    bool
	logJSON    bool
}

// newDriver builds the interactive prompt driver; tests swap it for a
// scripted one.
var newDriver = func() prompt.Driver {
	return prompt.NewSurveyDriver()
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "certgen",
		Short:         "Render personalised certificates from a template and a recipient list",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML configuration file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log every record")
	pf.BoolVar(&flags.logJSON, "log-json", false, "Emit JSON log lines")

	root.AddCommand(
		newGenerateCmd(flags),
		newCompositorsCmd(flags),
		newConfigCmd(flags),
	)
	return root
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildRegistry returns the built-in compositors, with the raster compositor
// extended by any fonts named in the configuration.
func buildRegistry(cfg config.Config) (*render.Registry, error) {
	if len(cfg.Fonts) == 0 {
		return orchestrator.DefaultRegistry()
	}

	names := make([]string, 0, len(cfg.Fonts))
	for name := range cfg.Fonts {
		names = append(names, name)
	}
	sort.Strings(names)

	options := make([]raster.Option, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(cfg.Fonts[name])
		if err != nil {
			return nil, fmt.Errorf("font %q: %w", name, err)
		}
		options = append(options, raster.WithFont(name, data))
	}

	rasterCompositor, err := raster.New(options...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(rasterCompositor); err != nil {
		return nil, err
	}
	if err := registry.Register(bitmap.New()); err != nil {
		return nil, err
	}
	return registry, nil
}

func ensureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Clean(dir), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
