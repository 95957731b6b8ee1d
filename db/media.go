// ABOUTME: Media item database operations
// ABOUTME: Handles per-company media rows and active-item queries for sync
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/outpostdigital/roma/models"
)

func CreateMediaItem(db *sql.DB, item *models.MediaItem) error {
	item.ID = uuid.New()
	if item.Status == "" {
		item.Status = models.ItemStatusPending
	}
	item.CreatedAt = time.Now()

	_, err := db.Exec(`
		INSERT INTO media_items (id, company_id, category, url, alt_text, status, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID.String(), item.CompanyID.String(), item.Category, item.URL,
		item.AltText, item.Status, item.Priority, item.CreatedAt)

	return err
}

func UpdateMediaStatus(db *sql.DB, id uuid.UUID, status string) error {
	_, err := db.Exec(`UPDATE media_items SET status = ? WHERE id = ?`, status, id.String())
	return err
}

// ActiveMediaItems returns sync-eligible media for a company, ordered by
// priority then creation time. Pending and archived items never appear.
func ActiveMediaItems(db *sql.DB, companyID uuid.UUID) ([]models.MediaItem, error) {
	rows, err := db.Query(`
		SELECT id, company_id, category, url, alt_text, status, priority, created_at
		FROM media_items
		WHERE company_id = ? AND status = ?
		ORDER BY priority DESC, created_at ASC
	`, companyID.String(), models.ItemStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMediaItems(rows)
}

func ListMediaItems(db *sql.DB, companyID uuid.UUID) ([]models.MediaItem, error) {
	rows, err := db.Query(`
		SELECT id, company_id, category, url, alt_text, status, priority, created_at
		FROM media_items
		WHERE company_id = ?
		ORDER BY priority DESC, created_at ASC
	`, companyID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMediaItems(rows)
}

func scanMediaItems(rows *sql.Rows) ([]models.MediaItem, error) {
	var items []models.MediaItem
	for rows.Next() {
		var m models.MediaItem
		var altText sql.NullString
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.Category, &m.URL, &altText,
			&m.Status, &m.Priority, &m.CreatedAt); err != nil {
			return nil, err
		}
		if altText.Valid {
			m.AltText = altText.String
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
