// ABOUTME: Intake CLI commands
// ABOUTME: Stores and inspects the AI-enriched content snapshot for a company
package cli

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/roma"
)

// SetIntakeCommand stores the intake snapshot for a company, reading the
// JSON document from a file or stdin.
func SetIntakeCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("set-intake", flag.ExitOnError)
	slug := fs.String("company", "", "Company slug (required)")
	file := fs.String("file", "", "Path to the intake JSON (default: stdin)")
	fs.Parse(args)

	if *slug == "" {
		return fmt.Errorf("--company is required")
	}

	company, err := findCompany(database, *slug)
	if err != nil {
		return err
	}

	var raw []byte
	if *file != "" {
		raw, err = os.ReadFile(*file)
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read intake: %w", err)
	}

	// Reject documents the pipeline would choke on later
	tree, err := roma.Decode(raw)
	if err != nil {
		return fmt.Errorf("intake is not valid: %w", err)
	}

	if err := db.UpsertIntake(database, company.ID, raw); err != nil {
		return fmt.Errorf("failed to store intake: %w", err)
	}

	fmt.Printf("✓ Intake stored for %s (%d bytes, %d sections)\n",
		company.Slug, len(raw), tree.SectionCount())
	return nil
}

// ShowIntakeCommand prints a company's stored intake snapshot
func ShowIntakeCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("show-intake", flag.ExitOnError)
	slug := fs.String("company", "", "Company slug (required)")
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

	var pretty map[string]any
	if err := json.Unmarshal(intake.RawData, &pretty); err != nil {
		// Stored before validation existed; dump as-is
		fmt.Println(string(intake.RawData))
		return nil
	}

	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format intake: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
