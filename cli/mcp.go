// ABOUTME: MCP server subcommand
// ABOUTME: Exposes CRM lookups and the sync pipeline as MCP tools over stdio
package cli

import (
	"context"
	"database/sql"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/outpostdigital/roma/config"
	"github.com/outpostdigital/roma/handlers"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(database *sql.DB, cfg *config.Config, logger *zap.Logger) error {
	log.Println("Starting roma MCP server...")

	orch, err := newOrchestrator(database, cfg, logger)
	if err != nil {
		return err
	}

	companyHandlers := handlers.NewCompanyHandlers(database)
	syncHandlers := handlers.NewSyncHandlers(database, orch)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "roma",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_companies",
		Description: "Search for companies by name or slug",
	}, companyHandlers.FindCompanies)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_company",
		Description: "Get one company with its sync state",
	}, companyHandlers.GetCompany)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_intake",
		Description: "Fetch a company's stored intake content snapshot",
	}, companyHandlers.GetIntake)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_sync",
		Description: "Publish a company's content to the CMS and return the run report",
	}, syncHandlers.RunSync)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_sync_runs",
		Description: "List recent publish runs for a company",
	}, syncHandlers.ListSyncRuns)

	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
