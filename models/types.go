// ABOUTME: Data models for agency CRM entities
// ABOUTME: Defines Company, Intake, MediaItem, and Review structs
package models

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	City          string     `json:"city,omitempty"`
	State         string     `json:"state,omitempty"`
	Plan          string     `json:"plan,omitempty"`
	Status        string     `json:"status"`
	ProfileItemID string     `json:"profile_item_id,omitempty"`
	LastSyncedAt  *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Intake holds the AI-enriched content tree ("roma data") for one company.
// RawData is the stored JSON document; decode it with the roma package.
type Intake struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	RawData   []byte    `json:"raw_data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MediaItem struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Category  string    `json:"category"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text,omitempty"`
	Status    string    `json:"status"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID         uuid.UUID  `json:"id"`
	CompanyID  uuid.UUID  `json:"company_id"`
	Author     string     `json:"author"`
	Platform   string     `json:"platform,omitempty"`
	Rating     int        `json:"rating"`
	ReviewDate *time.Time `json:"review_date,omitempty"`
	Text       string     `json:"text"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Company onboarding lifecycle. Advanced by onboarding flows, never by the
// sync pipeline.
const (
	StatusNew      = "NEW"
	StatusDiscover = "DISCOVER"
	StatusActive   = "ACTIVE"
)

// Media/review lifecycle. Only active items are eligible for publishing.
const (
	ItemStatusPending  = "pending"
	ItemStatusActive   = "active"
	ItemStatusArchived = "archived"
)

const (
	MediaCategoryLogo  = "logo"
	MediaCategoryPhoto = "photo"
	MediaCategoryVideo = "video"
)

const (
	PlanStarter = "starter"
	PlanGrowth  = "growth"
	PlanPro     = "pro"
)

// IsSyncEligible reports whether a media item may be published.
func (m *MediaItem) IsSyncEligible() bool {
	return m.Status == ItemStatusActive
}

// IsSyncEligible reports whether a review may be published.
func (r *Review) IsSyncEligible() bool {
	return r.Status == ItemStatusActive
}
