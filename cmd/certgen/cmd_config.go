package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-certgen/pkg/config"
)

func newConfigCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(root.configPath)
			if err != nil {
				return err
			}
			if cfg.Render == nil {
				spec, err := cfg.Spec()
				if err != nil {
					return err
				}
				cfg.Render = config.FromSpec(spec)
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
