// ABOUTME: Sync MCP tool handlers
// ABOUTME: Implements run_sync and list_sync_runs tools
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/publish"
)

type SyncHandlers struct {
	db   *sql.DB
	orch *publish.Orchestrator
}

func NewSyncHandlers(database *sql.DB, orch *publish.Orchestrator) *SyncHandlers {
	return &SyncHandlers{db: database, orch: orch}
}

type RunSyncInput struct {
	Slug string `json:"slug" jsonschema:"Company slug to publish to the CMS"`
}

type RunSyncOutput struct {
	RunID     string          `json:"run_id"`
	Status    string          `json:"status"`
	Published int             `json:"published"`
	Failed    int             `json:"failed"`
	Report    json.RawMessage `json:"report"`
}

func (h *SyncHandlers) RunSync(ctx context.Context, request *mcp.CallToolRequest, input RunSyncInput) (*mcp.CallToolResult, RunSyncOutput, error) {
	if input.Slug == "" {
		return nil, RunSyncOutput{}, fmt.Errorf("slug is required")
	}

	company, err := db.FindCompanyBySlug(h.db, input.Slug)
	if err != nil {
		return nil, RunSyncOutput{}, fmt.Errorf("failed to load company: %w", err)
	}
	if company == nil {
		return nil, RunSyncOutput{}, fmt.Errorf("company not found: %s", input.Slug)
	}

	report, err := h.orch.SyncCompany(ctx, company.ID)
	if err != nil {
		return nil, RunSyncOutput{}, err
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, RunSyncOutput{}, fmt.Errorf("failed to encode report: %w", err)
	}

	_, _, failed := report.Totals()
	return nil, RunSyncOutput{
		RunID:     report.RunID,
		Status:    string(report.Status),
		Published: report.Published,
		Failed:    failed,
		Report:    reportJSON,
	}, nil
}

type ListSyncRunsInput struct {
	Slug  string `json:"slug" jsonschema:"Company slug whose runs to list"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of runs (default 10)"`
}

type SyncRunOutput struct {
	RunID      string `json:"run_id"`
	Status     string `json:"status"`
	Attempted  int    `json:"attempted"`
	Succeeded  int    `json:"succeeded"`
	Failed     int    `json:"failed"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
}

type ListSyncRunsOutput struct {
	Runs []SyncRunOutput `json:"runs"`
}

func (h *SyncHandlers) ListSyncRuns(_ context.Context, request *mcp.CallToolRequest, input ListSyncRunsInput) (*mcp.CallToolResult, ListSyncRunsOutput, error) {
	if input.Slug == "" {
		return nil, ListSyncRunsOutput{}, fmt.Errorf("slug is required")
	}
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	company, err := db.FindCompanyBySlug(h.db, input.Slug)
	if err != nil {
		return nil, ListSyncRunsOutput{}, fmt.Errorf("failed to load company: %w", err)
	}
	if company == nil {
		return nil, ListSyncRunsOutput{}, fmt.Errorf("company not found: %s", input.Slug)
	}

	runs, err := db.ListSyncRuns(h.db, company.ID, limit)
	if err != nil {
		return nil, ListSyncRunsOutput{}, fmt.Errorf("failed to list sync runs: %w", err)
	}

	result := make([]SyncRunOutput, len(runs))
	for i, run := range runs {
		result[i] = SyncRunOutput{
			RunID:      run.ID,
			Status:     run.Status,
			Attempted:  run.Attempted,
			Succeeded:  run.Succeeded,
			Failed:     run.Failed,
			StartedAt:  run.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
			FinishedAt: run.FinishedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return nil, ListSyncRunsOutput{Runs: result}, nil
}
