// ABOUTME: Intake database operations
// ABOUTME: Stores and fetches the per-company roma content document
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/outpostdigital/roma/models"
)

// UpsertIntake stores the intake document for a company, replacing any
// previous version. One intake per company.
func UpsertIntake(db *sql.DB, companyID uuid.UUID, rawData []byte) error {
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO intakes (id, company_id, raw_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(company_id) DO UPDATE SET
			raw_data = excluded.raw_data,
			updated_at = excluded.updated_at
	`, uuid.New().String(), companyID.String(), string(rawData), now, now)
	return err
}

// GetIntake fetches a company's intake. Absence is a valid "no intake yet"
// state and returns (nil, nil).
func GetIntake(db *sql.DB, companyID uuid.UUID) (*models.Intake, error) {
	intake := &models.Intake{}
	var rawData string

	err := db.QueryRow(`
		SELECT id, company_id, raw_data, created_at, updated_at
		FROM intakes WHERE company_id = ?
	`, companyID.String()).Scan(
		&intake.ID,
		&intake.CompanyID,
		&rawData,
		&intake.CreatedAt,
		&intake.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	intake.RawData = []byte(rawData)
	return intake, nil
}
