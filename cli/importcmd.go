// ABOUTME: Production data import command
// ABOUTME: Mirrors companies and intake content from the production Postgres into the local database
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"time"

	"github.com/outpostdigital/roma/config"
	"github.com/outpostdigital/roma/db"
)

// ImportCommand pulls companies, intakes, media, and reviews from the
// production Postgres (Supabase) into the local database. One-way: local
// edits are never pushed back.
func ImportCommand(database *sql.DB, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dsn := fs.String("dsn", cfg.PostgresDSN, "Postgres connection string (default: ROMA_POSTGRES_DSN)")
	timeout := fs.Duration("timeout", 5*time.Minute, "Import timeout")
	fs.Parse(args)

	if *dsn == "" {
		return fmt.Errorf("no Postgres DSN; pass --dsn or set ROMA_POSTGRES_DSN")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Println("Importing from production...")
	stats, err := db.ImportFromPostgres(ctx, *dsn, database)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("✓ Import complete: %d companies, %d intakes, %d media items, %d reviews\n",
		stats.Companies, stats.Intakes, stats.Media, stats.Reviews)
	return nil
}
