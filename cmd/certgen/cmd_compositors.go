package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-certgen/pkg/renderers/raster"
)

func newCompositorsCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compositors",
		Short: "List the available compositors and their fonts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			registry, err := buildRegistry(cfg)
			if err != nil {
				return err
			}

			names := registry.List()
			fallback := defaultCompositor(names)
			out := cmd.OutOrStdout()
			for _, name := range names {
				marker := ""
				if name == fallback {
					marker = " (default)"
				}
				compositor, err := registry.Get(name)
				if err != nil {
					return err
				}
				if withFonts, ok := compositor.(*raster.Compositor); ok {
					fmt.Fprintf(out, "%s%s\tfonts: %s\n", name, marker, strings.Join(withFonts.Fonts().Names(), ", "))
					continue
				}
				fmt.Fprintf(out, "%s%s\n", name, marker)
			}
			return nil
		},
	}
}
