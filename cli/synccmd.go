// ABOUTME: Publish sync CLI commands
// ABOUTME: Runs the CMS publish pipeline for one company or every active one
package cli

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/outpostdigital/roma/config"
	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/models"
	"github.com/outpostdigital/roma/notify"
	"github.com/outpostdigital/roma/publish"
	"github.com/outpostdigital/roma/webflow"
)

func newOrchestrator(database *sql.DB, cfg *config.Config, log *zap.Logger) (*publish.Orchestrator, error) {
	if err := cfg.RequireCMS(); err != nil {
		return nil, err
	}
	cms := webflow.NewClient(cfg.WebflowAPIURL, cfg.WebflowToken, log)
	notifier := notify.NewNotifier(cfg.NotifyWebhookURL, log)
	return publish.NewOrchestrator(database, cms, cfg, notifier, log), nil
}

// SyncCommand publishes one company, or every ACTIVE company with --all
func SyncCommand(database *sql.DB, cfg *config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	slug := fs.String("company", "", "Company slug to sync")
	all := fs.Bool("all", false, "Sync every ACTIVE company")
	fs.Parse(args)

	if (*slug != "") == *all {
		return fmt.Errorf("pass either --company or --all")
	}

	orch, err := newOrchestrator(database, cfg, log)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if *slug != "" {
		company, err := findCompany(database, *slug)
		if err != nil {
			return err
		}
		return runOne(ctx, orch, company.ID, company.Slug)
	}

	companies, err := db.FindCompanies(database, "", 1000)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	var failures int
	for _, company := range companies {
		if company.Status != models.StatusActive {
			continue
		}
		if err := runOne(ctx, orch, company.ID, company.Slug); err != nil {
			// No intake yet is routine for --all; anything else counts
			if !errors.Is(err, publish.ErrNothingToSync) {
				failures++
			}
			fmt.Printf("  skipped %s: %v\n", company.Slug, err)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d company(ies) failed to sync", failures)
	}
	return nil
}

func runOne(ctx context.Context, orch *publish.Orchestrator, companyID uuid.UUID, slug string) error {
	report, err := orch.SyncCompany(ctx, companyID)
	if err != nil {
		return err
	}

	attempted, succeeded, failed := report.Totals()
	fmt.Printf("%s: %s (run %s)\n", slug, report.Status, report.RunID)
	fmt.Printf("  items: %d attempted, %d succeeded, %d failed, %d published\n",
		attempted, succeeded, failed, report.Published)
	for _, f := range report.Failures {
		fmt.Printf("  ✗ %s/%s: %s\n", f.Collection, f.Slug, f.Error)
	}
	for _, trunc := range report.Truncations {
		fmt.Printf("  ⚠ truncated %s on %s to %d chars\n",
			trunc.Field, trunc.Slug, trunc.Limit)
	}
	return nil
}

// SyncStatusCommand shows recent publish runs for a company
func SyncStatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("sync-status", flag.ExitOnError)
	slug := fs.String("company", "", "Company slug (required)")
	limit := fs.Int("limit", 10, "Maximum runs to show")
	fs.Parse(args)

	if *slug == "" {
		return fmt.Errorf("--company is required")
	}

	company, err := findCompany(database, *slug)
	if err != nil {
		return err
	}

	runs, err := db.ListSyncRuns(database, company.ID, *limit)
	if err != nil {
		return fmt.Errorf("failed to list sync runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No sync runs for %s\n", company.Slug)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTATUS\tATTEMPTED\tSUCCEEDED\tFAILED\tSTARTED")
	fmt.Fprintln(w, "---\t------\t---------\t---------\t------\t-------")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID, run.Status, run.Attempted, run.Succeeded, run.Failed,
			run.StartedAt.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
	return nil
}
