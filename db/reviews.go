// ABOUTME: Review database operations
// ABOUTME: Handles per-company review rows and active-review queries for sync
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/outpostdigital/roma/models"
)

func CreateReview(db *sql.DB, review *models.Review) error {
	review.ID = uuid.New()
	if review.Status == "" {
		review.Status = models.ItemStatusPending
	}
	review.CreatedAt = time.Now()

	_, err := db.Exec(`
		INSERT INTO reviews (id, company_id, author, platform, rating, review_date, text, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, review.ID.String(), review.CompanyID.String(), review.Author, review.Platform,
		review.Rating, review.ReviewDate, review.Text, review.Status, review.CreatedAt)

	return err
}

func UpdateReviewStatus(db *sql.DB, id uuid.UUID, status string) error {
	_, err := db.Exec(`UPDATE reviews SET status = ? WHERE id = ?`, status, id.String())
	return err
}

// ActiveReviews returns sync-eligible reviews for a company, oldest first so
// sub-item indexes stay stable across runs when nothing changes.
func ActiveReviews(db *sql.DB, companyID uuid.UUID) ([]models.Review, error) {
	rows, err := db.Query(`
		SELECT id, company_id, author, platform, rating, review_date, text, status, created_at
		FROM reviews
		WHERE company_id = ? AND status = ?
		ORDER BY created_at ASC
	`, companyID.String(), models.ItemStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReviews(rows)
}

func ListReviews(db *sql.DB, companyID uuid.UUID) ([]models.Review, error) {
	rows, err := db.Query(`
		SELECT id, company_id, author, platform, rating, review_date, text, status, created_at
		FROM reviews
		WHERE company_id = ?
		ORDER BY created_at ASC
	`, companyID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReviews(rows)
}

func scanReviews(rows *sql.Rows) ([]models.Review, error) {
	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		var platform, text sql.NullString
		var rating sql.NullInt64
		var reviewDate sql.NullTime
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.Author, &platform, &rating,
			&reviewDate, &text, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		if platform.Valid {
			r.Platform = platform.String
		}
		if rating.Valid {
			r.Rating = int(rating.Int64)
		}
		if reviewDate.Valid {
			r.ReviewDate = &reviewDate.Time
		}
		if text.Valid {
			r.Text = text.String
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
