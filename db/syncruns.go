// ABOUTME: Database operations for sync_runs and synced_items tables
// ABOUTME: Records publish run reports and remote item ids for idempotent re-sync
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SyncRun is one recorded orchestrator run for a company.
type SyncRun struct {
	ID         string
	CompanyID  uuid.UUID
	Status     string
	Attempted  int
	Succeeded  int
	Failed     int
	Report     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// SyncedItem tracks a remote CMS item created or updated by a sync run.
type SyncedItem struct {
	CompanyID  uuid.UUID
	Collection string
	Slug       string
	ItemID     string
	SyncedAt   time.Time
}

func CreateSyncRun(db *sql.DB, run *SyncRun) error {
	_, err := db.Exec(`
		INSERT INTO sync_runs (id, company_id, status, attempted, succeeded, failed, report, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CompanyID.String(), run.Status, run.Attempted, run.Succeeded,
		run.Failed, run.Report, run.StartedAt, run.FinishedAt)

	if err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}
	return nil
}

// LatestSyncRun returns the most recent run for a company, or nil if the
// company has never been synced.
func LatestSyncRun(db *sql.DB, companyID uuid.UUID) (*SyncRun, error) {
	var run SyncRun
	var report sql.NullString

	err := db.QueryRow(`
		SELECT id, company_id, status, attempted, succeeded, failed, report, started_at, finished_at
		FROM sync_runs
		WHERE company_id = ?
		ORDER BY started_at DESC
		LIMIT 1
	`, companyID.String()).Scan(
		&run.ID,
		&run.CompanyID,
		&run.Status,
		&run.Attempted,
		&run.Succeeded,
		&run.Failed,
		&report,
		&run.StartedAt,
		&run.FinishedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest sync run: %w", err)
	}

	if report.Valid {
		run.Report = report.String
	}
	return &run, nil
}

func ListSyncRuns(db *sql.DB, companyID uuid.UUID, limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, company_id, status, attempted, succeeded, failed, report, started_at, finished_at
		FROM sync_runs
		WHERE company_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, companyID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []SyncRun
	for rows.Next() {
		var run SyncRun
		var report sql.NullString
		if err := rows.Scan(&run.ID, &run.CompanyID, &run.Status, &run.Attempted,
			&run.Succeeded, &run.Failed, &report, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		if report.Valid {
			run.Report = report.String
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RecordSyncedItem upserts the remote item id for a (company, collection,
// slug) key after a successful upsert.
func RecordSyncedItem(db *sql.DB, item *SyncedItem) error {
	_, err := db.Exec(`
		INSERT INTO synced_items (company_id, collection, slug, item_id, synced_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(company_id, collection, slug) DO UPDATE SET
			item_id = excluded.item_id,
			synced_at = excluded.synced_at
	`, item.CompanyID.String(), item.Collection, item.Slug, item.ItemID, item.SyncedAt)

	if err != nil {
		return fmt.Errorf("failed to record synced item: %w", err)
	}
	return nil
}

func ListSyncedItems(db *sql.DB, companyID uuid.UUID) ([]SyncedItem, error) {
	rows, err := db.Query(`
		SELECT company_id, collection, slug, item_id, synced_at
		FROM synced_items
		WHERE company_id = ?
		ORDER BY collection, slug
	`, companyID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query synced items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []SyncedItem
	for rows.Next() {
		var item SyncedItem
		if err := rows.Scan(&item.CompanyID, &item.Collection, &item.Slug,
			&item.ItemID, &item.SyncedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
