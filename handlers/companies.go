// ABOUTME: Company MCP tool handlers
// ABOUTME: Implements find_companies, get_company, and get_intake tools
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/models"
)

type CompanyHandlers struct {
	db *sql.DB
}

func NewCompanyHandlers(database *sql.DB) *CompanyHandlers {
	return &CompanyHandlers{db: database}
}

type FindCompaniesInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (searches name and city)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type CompanyOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Plan         string `json:"plan,omitempty"`
	Status       string `json:"status"`
	LastSyncedAt string `json:"last_synced_at,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type FindCompaniesOutput struct {
	Companies []CompanyOutput `json:"companies"`
}

func (h *CompanyHandlers) FindCompanies(_ context.Context, request *mcp.CallToolRequest, input FindCompaniesInput) (*mcp.CallToolResult, FindCompaniesOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	companies, err := db.FindCompanies(h.db, input.Query, limit)
	if err != nil {
		return nil, FindCompaniesOutput{}, fmt.Errorf("failed to find companies: %w", err)
	}

	result := make([]CompanyOutput, len(companies))
	for i, company := range companies {
		result[i] = companyToOutput(&company)
	}

	return nil, FindCompaniesOutput{Companies: result}, nil
}

type GetCompanyInput struct {
	Slug string `json:"slug" jsonschema:"Company slug (e.g., acme-dumpsters)"`
}

func (h *CompanyHandlers) GetCompany(_ context.Context, request *mcp.CallToolRequest, input GetCompanyInput) (*mcp.CallToolResult, CompanyOutput, error) {
	company, err := h.lookup(input.Slug)
	if err != nil {
		return nil, CompanyOutput{}, err
	}
	return nil, companyToOutput(company), nil
}

type GetIntakeInput struct {
	Slug string `json:"slug" jsonschema:"Company slug whose intake snapshot to fetch"`
}

type GetIntakeOutput struct {
	CompanyID  string          `json:"company_id"`
	Intake     json.RawMessage `json:"intake"`
	ReceivedAt string          `json:"received_at"`
}

func (h *CompanyHandlers) GetIntake(_ context.Context, request *mcp.CallToolRequest, input GetIntakeInput) (*mcp.CallToolResult, GetIntakeOutput, error) {
	company, err := h.lookup(input.Slug)
	if err != nil {
		return nil, GetIntakeOutput{}, err
	}

	intake, err := db.GetIntake(h.db, company.ID)
	if err != nil {
		return nil, GetIntakeOutput{}, fmt.Errorf("failed to load intake: %w", err)
	}
	if intake == nil {
		return nil, GetIntakeOutput{}, fmt.Errorf("company %s has no intake yet", company.Slug)
	}

	return nil, GetIntakeOutput{
		CompanyID:  company.ID.String(),
		Intake:     json.RawMessage(intake.RawData),
		ReceivedAt: intake.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

func (h *CompanyHandlers) lookup(slug string) (*models.Company, error) {
	if slug == "" {
		return nil, fmt.Errorf("slug is required")
	}
	company, err := db.FindCompanyBySlug(h.db, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("company not found: %s", slug)
	}
	return company, nil
}

func companyToOutput(company *models.Company) CompanyOutput {
	out := CompanyOutput{
		ID:        company.ID.String(),
		Name:      company.Name,
		Slug:      company.Slug,
		Email:     company.Email,
		Phone:     company.Phone,
		City:      company.City,
		State:     company.State,
		Plan:      company.Plan,
		Status:    company.Status,
		CreatedAt: company.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: company.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if company.LastSyncedAt != nil {
		out.LastSyncedAt = company.LastSyncedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return out
}
