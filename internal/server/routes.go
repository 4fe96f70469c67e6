// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paperlens-dev/paperlens/internal/analysis"
	"github.com/paperlens-dev/paperlens/internal/document"
	"github.com/paperlens-dev/paperlens/internal/job"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

// Dependencies are the pipeline services the routes delegate to.
type Dependencies struct {
	Pipelines *analysis.Service
	Jobs      *job.Executor
}

// RegisterPipelines sets the service dependencies and registers the
// pipeline routes.
func (s *Server) RegisterPipelines(deps *Dependencies) {
	s.deps = deps
	s.registerRoutes()
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "create-job",
		Method:      http.MethodPost,
		Path:        "/jobs",
		Summary:     "Start an analysis pipeline asynchronously",
		Tags:        []string{"jobs"},
	}, s.handleCreateJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-job",
		Method:      http.MethodGet,
		Path:        "/jobs/{job_id}",
		Summary:     "Get job status",
		Tags:        []string{"jobs"},
	}, s.handleGetJob)

	huma.Register(s.api, huma.Operation{
		OperationID: "chat",
		Method:      http.MethodPost,
		Path:        "/chat",
		Summary:     "Answer a question from the papers' full text",
		Tags:        []string{"chat"},
	}, s.handleChat)

	huma.Register(s.api, huma.Operation{
		OperationID: "chat-rag",
		Method:      http.MethodPost,
		Path:        "/chat/rag",
		Summary:     "Answer a question from retrieved chunks",
		Tags:        []string{"chat"},
	}, s.handleChatRAG)

	huma.Register(s.api, huma.Operation{
		OperationID: "index-papers",
		Method:      http.MethodPost,
		Path:        "/index",
		Summary:     "Chunk and embed papers for retrieval",
		Tags:        []string{"index"},
	}, s.handleIndex)
}

// --- Request/Response types for huma ---

// fileList accepts the two shapes clients send: a {file_id: path} object or
// an array of file ids. Anything else coerces to empty.
type fileList []document.FileRef

// Schema keeps huma's body validation out of the way: both accepted shapes
// are documented, neither is enforced, and UnmarshalJSON does the coercion.
func (fileList) Schema(_ huma.Registry) *huma.Schema {
	return &huma.Schema{
		Description: "Papers to process: either an array of file ids or a {file_id: path} object.",
	}
}

func (f *fileList) UnmarshalJSON(raw []byte) error {
	var byID map[string]string
	if err := json.Unmarshal(raw, &byID); err == nil {
		refs := make([]document.FileRef, 0, len(byID))
		for id, path := range byID {
			refs = append(refs, document.FileRef{FileID: id, Path: path})
		}
		sort.Slice(refs, func(i, j int) bool { return refs[i].FileID < refs[j].FileID })
		*f = refs
		return nil
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err == nil {
		refs := make([]document.FileRef, 0, len(ids))
		for _, id := range ids {
			refs = append(refs, document.FileRef{FileID: id})
		}
		*f = refs
		return nil
	}

	*f = nil
	return nil
}

type jobRequest struct {
	Pipeline  string   `json:"pipeline"`
	Files     fileList `json:"files"`
	UserQuery string   `json:"user_query"`
	ChunkSize int      `json:"chunk_size"`
	TopK      int      `json:"top_k"`
}

type createJobInput struct {
	RawBody []byte
}
type createJobOutput struct {
	Status int
	Body   struct {
		JobID string `json:"job_id" doc:"Identifier to poll via GET /jobs/{job_id}"`
	}
}

type getJobInput struct {
	JobID string `path:"job_id"`
}
type getJobOutput struct {
	Body job.Snapshot
}

type chatInput struct {
	Body struct {
		UserQuery string   `json:"user_query,omitempty" doc:"Question to answer; empty returns structural summaries"`
		Files     fileList `json:"files,omitempty" doc:"Papers to consult"`
	}
}
type chatOutput struct {
	Body analysis.AnalyzeResult
}

type chatRAGInput struct {
	Body struct {
		UserQuery string   `json:"user_query,omitempty" doc:"Question to answer"`
		Files     fileList `json:"files,omitempty" doc:"Papers whose chunks to search"`
		TopK      int      `json:"top_k,omitempty" doc:"Max snippets to retrieve"`
	}
}
type chatRAGOutput struct {
	Body analysis.ChatResult
}

type indexInput struct {
	Body struct {
		Files     fileList `json:"files,omitempty" doc:"Papers to index"`
		ChunkSize int      `json:"chunk_size,omitempty" doc:"Chunk size override"`
	}
}
type indexOutput struct {
	Body analysis.IndexResult
}

// --- Handlers ---

// handleCreateJob decodes the body itself so a malformed payload degrades
// to empty defaults instead of rejecting the submission; the resulting job
// then reports whatever the pipeline makes of the empty inputs.
func (s *Server) handleCreateJob(_ context.Context, input *createJobInput) (*createJobOutput, error) {
	var req jobRequest
	if err := json.Unmarshal(input.RawBody, &req); err != nil {
		req = jobRequest{}
	}
	if req.Pipeline == "" {
		req.Pipeline = "analyze"
	}

	run, err := s.pipelineRun(req)
	if err != nil {
		return nil, humaError(err)
	}

	jobID, err := s.deps.Jobs.Submit(req.Pipeline, run)
	if err != nil {
		return nil, humaError(err)
	}

	out := &createJobOutput{Status: http.StatusAccepted}
	out.Body.JobID = jobID
	return out, nil
}

func (s *Server) pipelineRun(req jobRequest) (job.RunFunc, error) {
	switch req.Pipeline {
	case "analyze":
		return func(ctx context.Context) (any, error) {
			return s.deps.Pipelines.Analyze(ctx, req.Files, req.UserQuery)
		}, nil
	case "index":
		return func(ctx context.Context) (any, error) {
			return s.deps.Pipelines.Index(ctx, req.Files, req.ChunkSize)
		}, nil
	case "chat_rag":
		return func(ctx context.Context) (any, error) {
			return s.deps.Pipelines.ChatRAG(ctx, fileIDs(req.Files), req.UserQuery, req.TopK)
		}, nil
	default:
		return nil, plerr.Errorf(plerr.CodeServerRequestInvalid,
			"unknown pipeline %q, want one of [analyze, index, chat_rag]", req.Pipeline)
	}
}

func (s *Server) handleGetJob(_ context.Context, input *getJobInput) (*getJobOutput, error) {
	snap, ok := s.deps.Jobs.Status(input.JobID)
	if !ok {
		return nil, huma.Error404NotFound(fmt.Sprintf("job %q not found", input.JobID))
	}
	return &getJobOutput{Body: snap}, nil
}

func (s *Server) handleChat(ctx context.Context, input *chatInput) (*chatOutput, error) {
	result, err := s.deps.Pipelines.Analyze(ctx, input.Body.Files, input.Body.UserQuery)
	if err != nil {
		return nil, humaError(err)
	}
	return &chatOutput{Body: *result}, nil
}

func (s *Server) handleChatRAG(ctx context.Context, input *chatRAGInput) (*chatRAGOutput, error) {
	result, err := s.deps.Pipelines.ChatRAG(ctx, fileIDs(input.Body.Files), input.Body.UserQuery, input.Body.TopK)
	if err != nil {
		return nil, humaError(err)
	}
	return &chatRAGOutput{Body: *result}, nil
}

func (s *Server) handleIndex(ctx context.Context, input *indexInput) (*indexOutput, error) {
	result, err := s.deps.Pipelines.Index(ctx, input.Body.Files, input.Body.ChunkSize)
	if err != nil {
		return nil, humaError(err)
	}
	return &indexOutput{Body: *result}, nil
}

func fileIDs(refs []document.FileRef) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.FileID)
	}
	return ids
}

// humaError maps an error's code taxonomy onto the HTTP status huma
// reports.
func humaError(err error) error {
	return huma.NewError(plerr.HTTPStatus(err), err.Error())
}
