package main

import (
	"storyport/internal/core/translate"
	"storyport/internal/platform/config"
	perr "storyport/internal/platform/errors"

	"github.com/spf13/cobra"
)

func newTablesCmd(cfg config.Conf) *cobra.Command {
	path := cfg.Prefix("CONVERT_").MayString("TABLES", "")

	cmd := &cobra.Command{
		Use:   "tables [--tables file.yaml]",
		Short: "Print the effective translation tables as YAML",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := translate.Default()
			if path != "" {
				loaded, err := translate.LoadFile(path)
				if err != nil {
					return err
				}
				t = loaded
			}
			b, err := t.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return perr.WrapIf(err, perr.ErrorCodeIO, "write tables")
		},
	}
	cmd.Flags().StringVar(&path, "tables", path, "translation tables YAML (default embedded)")
	return cmd
}
