// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paperlens-dev/paperlens/internal/config"
	"github.com/paperlens-dev/paperlens/internal/document"
	"github.com/paperlens-dev/paperlens/internal/prompt"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about indexed or uploaded papers",
		Long:  "Answer a question from the referenced papers. Without a question, print structural summaries instead. With --rag, answer from retrieved chunks rather than full text.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAsk,
	}

	cmd.Flags().StringSlice("files", nil, "file ids of the papers to consult")
	cmd.Flags().Bool("rag", false, "answer from retrieved chunks instead of full text")
	cmd.Flags().Int("top-k", 0, "max snippets to retrieve in --rag mode")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	fileIDs, _ := cmd.Flags().GetStringSlice("files")
	if len(fileIDs) == 0 {
		return plerr.New(plerr.CodeCLIInputInvalid, "at least one --files id is required")
	}

	var query string
	if len(args) == 1 {
		query = args[0]
	}

	app, err := WireApp(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	useRAG, _ := cmd.Flags().GetBool("rag")
	out := cmd.OutOrStdout()

	if useRAG {
		if strings.TrimSpace(query) == "" {
			return plerr.New(plerr.CodeCLIInputInvalid, "--rag requires a question")
		}
		topK, _ := cmd.Flags().GetInt("top-k")

		result, err := app.Pipelines.ChatRAG(cmd.Context(), fileIDs, query, topK)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result.Answer)
		printReferences(out, result.References)
		return nil
	}

	refs := make([]document.FileRef, 0, len(fileIDs))
	for _, id := range fileIDs {
		refs = append(refs, document.FileRef{FileID: id})
	}

	result, err := app.Pipelines.Analyze(cmd.Context(), refs, query)
	if err != nil {
		return err
	}

	if result.Report != "" {
		fmt.Fprintln(out, result.Report)
		return nil
	}
	fmt.Fprintln(out, result.Answer)
	printReferences(out, result.References)
	return nil
}

func printReferences(out io.Writer, refs []prompt.Reference) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintln(out, "\nReferences:")
	for _, r := range refs {
		title := r.Title
		if title == "" {
			title = r.FileID
		}
		fmt.Fprintf(out, "  [%d] %s (%s)\n", r.Num, title, r.PublicURL)
	}
}
