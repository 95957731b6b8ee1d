// ABOUTME: Company database operations
// ABOUTME: Handles CRUD operations, lookups, and sync write-back
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/outpostdigital/roma/models"
)

func CreateCompany(db *sql.DB, company *models.Company) error {
	company.ID = uuid.New()
	if company.Slug == "" {
		company.Slug = models.Slugify(company.Name)
	}
	if company.Status == "" {
		company.Status = models.StatusNew
	}
	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO companies (id, name, slug, email, phone, city, state, plan, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, company.ID.String(), company.Name, company.Slug, company.Email, company.Phone,
		company.City, company.State, company.Plan, company.Status, company.CreatedAt, company.UpdatedAt)

	return err
}

func GetCompany(db *sql.DB, id uuid.UUID) (*models.Company, error) {
	company := &models.Company{}
	var profileItemID sql.NullString
	var lastSyncedAt sql.NullTime

	err := db.QueryRow(`
		SELECT id, name, slug, email, phone, city, state, plan, status, profile_item_id, last_synced_at, created_at, updated_at
		FROM companies WHERE id = ?
	`, id.String()).Scan(
		&company.ID,
		&company.Name,
		&company.Slug,
		&company.Email,
		&company.Phone,
		&company.City,
		&company.State,
		&company.Plan,
		&company.Status,
		&profileItemID,
		&lastSyncedAt,
		&company.CreatedAt,
		&company.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if profileItemID.Valid {
		company.ProfileItemID = profileItemID.String
	}
	if lastSyncedAt.Valid {
		company.LastSyncedAt = &lastSyncedAt.Time
	}

	return company, nil
}

func FindCompanies(db *sql.DB, query string, limit int) ([]models.Company, error) {
	if limit <= 0 {
		limit = 50
	}

	searchPattern := "%" + strings.ToLower(query) + "%"
	rows, err := db.Query(`
		SELECT id, name, slug, email, phone, city, state, plan, status, profile_item_id, last_synced_at, created_at, updated_at
		FROM companies
		WHERE LOWER(name) LIKE ? OR LOWER(slug) LIKE ?
		ORDER BY created_at DESC
		LIMIT ?
	`, searchPattern, searchPattern, limit)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCompanies(rows)
}

func FindCompanyBySlug(db *sql.DB, slug string) (*models.Company, error) {
	var id string
	err := db.QueryRow(`SELECT id FROM companies WHERE slug = ?`, slug).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	companyID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid company id %q: %w", id, err)
	}
	return GetCompany(db, companyID)
}

func UpdateCompanyStatus(db *sql.DB, id uuid.UUID, status string) error {
	_, err := db.Exec(`
		UPDATE companies SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now(), id.String())
	return err
}

// MarkCompanySynced records a successful publish: last-synced timestamp and
// the remote profile item id. Never called on failed runs.
func MarkCompanySynced(db *sql.DB, id uuid.UUID, profileItemID string, syncedAt time.Time) error {
	_, err := db.Exec(`
		UPDATE companies
		SET profile_item_id = ?, last_synced_at = ?, updated_at = ?
		WHERE id = ?
	`, profileItemID, syncedAt, time.Now(), id.String())
	if err != nil {
		return fmt.Errorf("failed to mark company synced: %w", err)
	}
	return nil
}

func scanCompanies(rows *sql.Rows) ([]models.Company, error) {
	var companies []models.Company
	for rows.Next() {
		var c models.Company
		var profileItemID sql.NullString
		var lastSyncedAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Email, &c.Phone, &c.City, &c.State,
			&c.Plan, &c.Status, &profileItemID, &lastSyncedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if profileItemID.Valid {
			c.ProfileItemID = profileItemID.String
		}
		if lastSyncedAt.Valid {
			c.LastSyncedAt = &lastSyncedAt.Time
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
