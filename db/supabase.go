// ABOUTME: One-way importer from the hosted Postgres (Supabase) production store
// ABOUTME: Mirrors companies, intakes, media, and reviews into the local working database
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// ImportStats summarizes one mirror pass from the production store.
type ImportStats struct {
	Companies int
	Intakes   int
	Media     int
	Reviews   int
}

// ImportFromPostgres mirrors the production Supabase tables into the local
// database. Rows are upserted by id so repeated imports converge; nothing is
// ever written back to the production store.
func ImportFromPostgres(ctx context.Context, dsn string, local *sql.DB) (*ImportStats, error) {
	remote, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	defer remote.Close()

	if err := remote.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	stats := &ImportStats{}

	if stats.Companies, err = importCompanies(ctx, remote, local); err != nil {
		return stats, err
	}
	if stats.Intakes, err = importIntakes(ctx, remote, local); err != nil {
		return stats, err
	}
	if stats.Media, err = importMedia(ctx, remote, local); err != nil {
		return stats, err
	}
	if stats.Reviews, err = importReviews(ctx, remote, local); err != nil {
		return stats, err
	}

	return stats, nil
}

func importCompanies(ctx context.Context, remote, local *sql.DB) (int, error) {
	rows, err := remote.QueryContext(ctx, `
		SELECT id, name, slug, email, phone, city, state, plan, status, created_at, updated_at
		FROM companies
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to query remote companies: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, name, slug, status string
		var email, phone, city, state, plan sql.NullString
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &name, &slug, &email, &phone, &city, &state, &plan,
			&status, &createdAt, &updatedAt); err != nil {
			return count, err
		}

		_, err := local.ExecContext(ctx, `
			INSERT INTO companies (id, name, slug, email, phone, city, state, plan, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				slug = excluded.slug,
				email = excluded.email,
				phone = excluded.phone,
				city = excluded.city,
				state = excluded.state,
				plan = excluded.plan,
				status = excluded.status,
				updated_at = excluded.updated_at
		`, id, name, slug, email, phone, city, state, plan, status, createdAt, updatedAt)
		if err != nil {
			return count, fmt.Errorf("failed to upsert company %s: %w", id, err)
		}
		count++
	}
	return count, rows.Err()
}

func importIntakes(ctx context.Context, remote, local *sql.DB) (int, error) {
	rows, err := remote.QueryContext(ctx, `
		SELECT id, company_id, roma_data, created_at, updated_at FROM intakes
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to query remote intakes: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, companyID, rawData string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &companyID, &rawData, &createdAt, &updatedAt); err != nil {
			return count, err
		}

		_, err := local.ExecContext(ctx, `
			INSERT INTO intakes (id, company_id, raw_data, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(company_id) DO UPDATE SET
				raw_data = excluded.raw_data,
				updated_at = excluded.updated_at
		`, id, companyID, rawData, createdAt, updatedAt)
		if err != nil {
			return count, fmt.Errorf("failed to upsert intake for company %s: %w", companyID, err)
		}
		count++
	}
	return count, rows.Err()
}

func importMedia(ctx context.Context, remote, local *sql.DB) (int, error) {
	rows, err := remote.QueryContext(ctx, `
		SELECT id, company_id, category, url, alt_text, status, priority, created_at
		FROM media_items
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to query remote media: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, companyID, category, url, status string
		var altText sql.NullString
		var priority int
		var createdAt time.Time
		if err := rows.Scan(&id, &companyID, &category, &url, &altText, &status,
			&priority, &createdAt); err != nil {
			return count, err
		}

		_, err := local.ExecContext(ctx, `
			INSERT INTO media_items (id, company_id, category, url, alt_text, status, priority, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				category = excluded.category,
				url = excluded.url,
				alt_text = excluded.alt_text,
				status = excluded.status,
				priority = excluded.priority
		`, id, companyID, category, url, altText, status, priority, createdAt)
		if err != nil {
			return count, fmt.Errorf("failed to upsert media item %s: %w", id, err)
		}
		count++
	}
	return count, rows.Err()
}

func importReviews(ctx context.Context, remote, local *sql.DB) (int, error) {
	rows, err := remote.QueryContext(ctx, `
		SELECT id, company_id, author, platform, rating, review_date, text, status, created_at
		FROM reviews
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to query remote reviews: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id, companyID, author string
		var platform, text sql.NullString
		var rating sql.NullInt64
		var reviewDate sql.NullTime
		var status string
		var createdAt time.Time
		if err := rows.Scan(&id, &companyID, &author, &platform, &rating, &reviewDate,
			&text, &status, &createdAt); err != nil {
			return count, err
		}

		_, err := local.ExecContext(ctx, `
			INSERT INTO reviews (id, company_id, author, platform, rating, review_date, text, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				author = excluded.author,
				platform = excluded.platform,
				rating = excluded.rating,
				review_date = excluded.review_date,
				text = excluded.text,
				status = excluded.status
		`, id, companyID, author, platform, rating, reviewDate, text, status, createdAt)
		if err != nil {
			return count, fmt.Errorf("failed to upsert review %s: %w", id, err)
		}
		count++
	}
	return count, rows.Err()
}
