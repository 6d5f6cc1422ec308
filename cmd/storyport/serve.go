package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storyport/internal/platform/config"
	perr "storyport/internal/platform/errors"
	"storyport/internal/platform/logger"
	phttp "storyport/internal/platform/net/http"
	"storyport/internal/services/api"

	"github.com/spf13/cobra"
)

func newServeCmd(cfg config.Conf) *cobra.Command {
	srvOpts := phttp.ServerOptionsFromConfig(cfg)

	cmd := &cobra.Command{
		Use:   "serve [--addr :4000]",
		Short: "Serve POST /v1/convert over HTTP",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, srvOpts)
		},
	}
	cmd.Flags().StringVar(&srvOpts.Addr, "addr", srvOpts.Addr, "listen address")
	return cmd
}

func serve(ctx context.Context, cfg config.Conf, srvOpts phttp.ServerOptions) error {
	l := logger.Named("serve")

	apiOpts := api.OptionsFromConfig(cfg)
	apiOpts.Logger = l

	srv := phttp.NewServer(srvOpts)
	if err := api.Mount(srv.Router(), apiOpts); err != nil {
		return err
	}
	if err := srv.Run(ctx); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "http server on %s", srvOpts.Addr)
	}
	l.Info().Msg("http server stopped")
	return nil
}
