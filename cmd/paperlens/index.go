// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paperlens-dev/paperlens/internal/config"
	"github.com/paperlens-dev/paperlens/internal/document"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <file-id>...",
		Short: "Chunk and embed papers for retrieval",
		Long:  "Run the indexing pipeline locally: extract each paper's text, chunk it, embed the chunks, and replace the stored collection.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runIndex,
	}

	cmd.Flags().Int("chunk-size", 0, "chunk size override (overlap becomes a quarter of it)")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	app, err := WireApp(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	chunkSize, _ := cmd.Flags().GetInt("chunk-size")

	refs := make([]document.FileRef, 0, len(args))
	for _, id := range args {
		refs = append(refs, document.FileRef{FileID: id})
	}

	result, err := app.Pipelines.Index(cmd.Context(), refs, chunkSize)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return plerr.Wrap(err, plerr.CodeCLISetupFailure, "encoding result")
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
