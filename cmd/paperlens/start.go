// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paperlens-dev/paperlens/internal/config"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the paperlens server",
		Long:  "Load configuration, initialize providers and the index, and start the HTTP server.",
		RunE:  runStart,
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")
	_ = viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))

	return cmd
}

func runStart(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	app, err := WireApp(cfg, true)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			slog.Warn("shutdown error", "error", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting paperlens",
		"listen", cfg.Server.Listen,
		"index_backend", cfg.Index.Backend,
		"embedding", app.Embedder.Name(),
		"generation", app.Generator.Name())

	if err := app.Server.Start(ctx); err != nil {
		return plerr.Wrap(err, plerr.CodeServerStartFailure, "running server")
	}

	slog.Info("paperlens stopped")
	return nil
}
