package main

import (
	"context"
	"io"
	"os"

	"storyport/internal/modkit"
	"storyport/internal/platform/config"
	perr "storyport/internal/platform/errors"
	"storyport/internal/platform/logger"
	convertmod "storyport/internal/services/convert/module"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
)

func newConvertCmd(cfg config.Conf) *cobra.Command {
	opts := convertmod.FromConfig(cfg)
	var input, output string

	cmd := &cobra.Command{
		Use:   "convert --input export.xml [--output stories.csv]",
		Short: "Convert one export file",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkInput(input); err != nil {
				return err
			}
			mod, err := convertmod.New(modkit.Deps{Log: logger.Named("convert"), Cfg: cfg}, opts)
			if err != nil {
				return err
			}
			return runConvert(cmd.Context(), mod, input, output, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "export XML file")
	f.StringVarP(&output, "output", "o", "-", `output csv file, "-" for stdout`)
	f.StringVar(&opts.StoryType, "story-type", opts.StoryType, "story type written to every row")
	f.StringVar(&opts.TablesPath, "tables", opts.TablesPath, "translation tables YAML (default embedded)")
	f.IntVar(&opts.Workers, "workers", opts.Workers, "concurrent issue replays")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// checkInput requires an existing regular file
func checkInput(path string) error {
	if path == "" {
		return perr.WithField(perr.InvalidArgf("--input is required"), "input")
	}
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return perr.WithField(perr.NotFoundf("input %s not found", path), "input")
		}
		return perr.Wrapf(err, perr.ErrorCodeIO, "stat input %s", path)
	}
	if !fi.Mode().IsRegular() {
		return perr.WithField(perr.InvalidArgf("input %s is not a regular file", path), "input")
	}
	return nil
}

func runConvert(ctx context.Context, mod *convertmod.Module, input, output string, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	in, err := os.Open(input)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "open input %s", input)
	}
	defer func() { _ = in.Close() }()

	if output == "" || output == "-" {
		_, err := mod.Runner().Convert(ctx, in, stdout)
		return err
	}
	return writeAtomic(output, func(w io.Writer) error {
		_, err := mod.Runner().Convert(ctx, in, w)
		return err
	})
}

// writeAtomic writes through a pending file beside path and replaces path
// only when fn succeeds
func writeAtomic(path string, fn func(io.Writer) error) error {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "create pending output for %s", path)
	}
	defer func() { _ = pf.Cleanup() }()

	if err := fn(pf); err != nil {
		return err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "replace output %s", path)
	}
	return nil
}
