// ABOUTME: Company CLI commands
// ABOUTME: Human-friendly commands for managing companies and their lifecycle
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/models"
)

// AddCompanyCommand adds a new company
func AddCompanyCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-company", flag.ExitOnError)
	name := fs.String("name", "", "Company name (required)")
	email := fs.String("email", "", "Primary contact email")
	phone := fs.String("phone", "", "Primary contact phone")
	city := fs.String("city", "", "City")
	state := fs.String("state", "", "State")
	plan := fs.String("plan", models.PlanStarter, "Plan: starter, growth, or pro")
	fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	company := &models.Company{
		Name:  *name,
		Email: *email,
		Phone: *phone,
		City:  *city,
		State: *state,
		Plan:  *plan,
	}

	if err := db.CreateCompany(database, company); err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	fmt.Printf("✓ Company created: %s (slug: %s)\n", company.Name, company.Slug)
	if company.City != "" {
		fmt.Printf("  Location: %s, %s\n", company.City, company.State)
	}

	return nil
}

// ListCompaniesCommand lists companies with their sync state
func ListCompaniesCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-companies", flag.ExitOnError)
	query := fs.String("query", "", "Search by name or city")
	limit := fs.Int("limit", 50, "Maximum results")
	fs.Parse(args)

	companies, err := db.FindCompanies(database, *query, *limit)
	if err != nil {
		return fmt.Errorf("failed to find companies: %w", err)
	}

	if len(companies) == 0 {
		fmt.Println("No companies found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSLUG\tSTATUS\tPLAN\tLAST SYNCED")
	fmt.Fprintln(w, "----\t----\t------\t----\t-----------")

	for _, company := range companies {
		lastSynced := "-"
		if company.LastSyncedAt != nil {
			lastSynced = company.LastSyncedAt.Format("2006-01-02 15:04")
		}
		plan := company.Plan
		if plan == "" {
			plan = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			company.Name, company.Slug, company.Status, plan, lastSynced)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d company(ies)\n", len(companies))
	return nil
}

// SetStatusCommand advances a company's onboarding lifecycle
func SetStatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("set-status", flag.ExitOnError)
	slug := fs.String("company", "", "Company slug (required)")
	status := fs.String("status", "", "New status: NEW, DISCOVER, or ACTIVE (required)")
	fs.Parse(args)

	if *slug == "" || *status == "" {
		return fmt.Errorf("--company and --status are required")
	}
	switch *status {
	case models.StatusNew, models.StatusDiscover, models.StatusActive:
	default:
		return fmt.Errorf("invalid status %q (want NEW, DISCOVER, or ACTIVE)", *status)
	}

	company, err := findCompany(database, *slug)
	if err != nil {
		return err
	}

	if err := db.UpdateCompanyStatus(database, company.ID, *status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	fmt.Printf("✓ %s: %s → %s\n", company.Name, company.Status, *status)
	return nil
}

func findCompany(database *sql.DB, slug string) (*models.Company, error) {
	company, err := db.FindCompanyBySlug(database, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("company not found: %s", slug)
	}
	return company, nil
}
