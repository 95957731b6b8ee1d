// ABOUTME: Entry point for the roma CRM and publish pipeline
// ABOUTME: Routes to the dashboard server, CLI commands, TUI, or MCP server based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/outpostdigital/roma/cli"
	"github.com/outpostdigital/roma/config"
	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/notify"
	"github.com/outpostdigital/roma/publish"
	"github.com/outpostdigital/roma/tui"
	"github.com/outpostdigital/roma/web"
	"github.com/outpostdigital/roma/webflow"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/roma/roma.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("roma version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *initOnly {
		log.Printf("Database initialized: %s", cfg.DBPath)
		os.Exit(0)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	switch command {
	case "mcp":
		if err := cli.MCPCommand(database, cfg, logger); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "serve":
		if err := cfg.RequireCMS(); err != nil {
			log.Fatalf("Error: %v", err)
		}
		cms := webflow.NewClient(cfg.WebflowAPIURL, cfg.WebflowToken, logger)
		notifier := notify.NewNotifier(cfg.NotifyWebhookURL, logger)
		orch := publish.NewOrchestrator(database, cms, cfg, notifier, logger)
		server := web.NewServer(database, orch, logger)
		if err := server.Start(cfg.ListenAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}

	case "tui":
		p := tea.NewProgram(tui.NewModel(database), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Fatalf("TUI failed: %v", err)
		}

	case "sync":
		if err := cli.SyncCommand(database, cfg, logger, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "sync-status":
		if err := cli.SyncStatusCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "diag":
		if err := cli.DiagCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "import":
		if err := cli.ImportCommand(database, cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "crm":
		if len(commandArgs) == 0 {
			fmt.Println("Error: crm requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		crmCommand := commandArgs[0]
		crmArgs := commandArgs[1:]

		switch crmCommand {
		// Company commands
		case "add-company":
			if err := cli.AddCompanyCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-companies":
			if err := cli.ListCompaniesCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "set-status":
			if err := cli.SetStatusCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Intake commands
		case "set-intake":
			if err := cli.SetIntakeCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "show-intake":
			if err := cli.ShowIntakeCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Media commands
		case "add-media":
			if err := cli.AddMediaCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list-media":
			if err := cli.ListMediaCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "media-status":
			if err := cli.SetMediaStatusCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		// Review commands
		case "add-review":
			if err := cli.AddReviewCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "review-status":
			if err := cli.SetReviewStatusCommand(database, crmArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		default:
			fmt.Printf("Unknown crm command: %s\n\n", crmCommand)
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`roma v%s - Agency CRM and CMS publish pipeline

USAGE:
  roma [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/roma/roma.db)
  --init                 Initialize database and exit

COMMANDS:
  serve                  Start the JSON dashboard API server
  tui                    Interactive terminal dashboard
  sync                   Publish company content to the CMS
  sync-status            Show recent publish runs for a company
  diag                   Dry-run the field mapping without touching the CMS
  import                 Mirror production Postgres data into the local database
  crm                    CRM management commands
  mcp                    Start MCP server for Claude Desktop

SYNC:
  roma sync --company <slug>     Publish one company
  roma sync --all                Publish every ACTIVE company
  roma sync-status --company <slug>

DIAGNOSTICS:
  roma diag --company <slug>     Show what a sync would send
    --json                         Print full mapped items as JSON

CRM COMMANDS:
  roma crm add-company      Add a new company
    --name <name>             Company name (required)
    --email <email>           Contact email
    --phone <phone>           Contact phone
    --city <city>             City
    --state <state>           State
    --plan <plan>             starter, growth, or pro

  roma crm list-companies   List companies with sync state
    --query <text>            Search by name or slug
    --limit <n>               Max results (default: 50)

  roma crm set-status       Advance the onboarding lifecycle
    --company <slug>          Company slug (required)
    --status <status>         NEW, DISCOVER, or ACTIVE (required)

  roma crm set-intake       Store the intake content snapshot
    --company <slug>          Company slug (required)
    --file <path>             Intake JSON file (default: stdin)

  roma crm show-intake      Print the stored intake snapshot
    --company <slug>          Company slug (required)

  roma crm add-media        Attach a media asset
    --company <slug>          Company slug (required)
    --url <url>               Asset URL (required)
    --category <cat>          logo, photo, or video
    --alt <text>              Alt text
    --priority <n>            Sort priority (higher first)
    --active                  Mark sync-eligible immediately

  roma crm media-status     Move a media item through its lifecycle
    --id <uuid>               Media item ID (required)
    --status <status>         pending, active, or archived (required)

  roma crm add-review       Record a customer review
    --company <slug>          Company slug (required)
    --author <name>           Reviewer name (required)
    --rating <1-5>            Star rating (required)
    --platform <name>         Source platform
    --date <YYYY-MM-DD>       Review date
    --text <text>             Review text
    --active                  Mark sync-eligible immediately

  roma crm review-status    Move a review through its lifecycle
    --id <uuid>               Review ID (required)
    --status <status>         pending, active, or archived (required)

EXAMPLES:
  # Onboard a company and publish it
  roma crm add-company --name "Acme Dumpsters" --city Austin --state TX
  roma crm set-intake --company acme-dumpsters --file intake.json
  roma crm set-status --company acme-dumpsters --status ACTIVE
  roma sync --company acme-dumpsters

  # Check what a sync would send before running it
  roma diag --company acme-dumpsters

  # Run the dashboard
  roma serve

`, version)
}
