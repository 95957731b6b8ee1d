// ABOUTME: Mapping diagnostics command
// ABOUTME: Runs the field mapper for a company without touching the CMS
package cli

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/mapper"
	"github.com/outpostdigital/roma/roma"
)

// DiagCommand maps a company's intake and prints what a sync would send,
// without making any CMS call. The go-to tool when a field comes out wrong.
func DiagCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("diag", flag.ExitOnError)
	slug := fs.String("company", "", "Company slug (required)")
	asJSON := fs.Bool("json", false, "Print the full mapped items as JSON")
	fs.Parse(args)

	if *slug == "" {
		return fmt.Errorf("--company is required")
	}

	company, err := findCompany(database, *slug)
	if err != nil {
		return err
	}

	intake, err := db.GetIntake(database, company.ID)
	if err != nil {
		return fmt.Errorf("failed to load intake: %w", err)
	}
	if intake == nil {
		return fmt.Errorf("company %s has no intake yet", company.Slug)
	}

	tree, err := roma.Decode(intake.RawData)
	if err != nil {
		return fmt.Errorf("intake is unreadable: %w", err)
	}

	media, err := db.ActiveMediaItems(database, company.ID)
	if err != nil {
		return fmt.Errorf("failed to load media: %w", err)
	}
	reviews, err := db.ActiveReviews(database, company.ID)
	if err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}

	result := mapper.Build(company, tree, media, reviews)

	if *asJSON {
		out, err := json.MarshalIndent(result.Items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode items: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Dry-run mapping for %s\n\n", company.Slug)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLLECTION\tSLUG\tFIELDS")
	fmt.Fprintln(w, "----------\t----\t------")
	for _, item := range result.Items {
		fmt.Fprintf(w, "%s\t%s\t%d\n", item.Collection, item.Slug, len(item.Fields))
	}
	w.Flush()

	if len(result.Failures) > 0 {
		fmt.Printf("\n%d item(s) would fail validation:\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Printf("  ✗ %s/%s: %s\n", f.Collection, f.Slug, f.Err)
		}
	}
	if len(result.Truncations) > 0 {
		fmt.Printf("\n%d field(s) would be truncated:\n", len(result.Truncations))
		for _, trunc := range result.Truncations {
			fmt.Printf("  ⚠ %s on %s (limit %d)\n", trunc.Field, trunc.Slug, trunc.Limit)
		}
	}
	if len(result.Failures) == 0 && len(result.Truncations) == 0 {
		fmt.Println("\nNo validation failures or truncations")
	}

	return nil
}
