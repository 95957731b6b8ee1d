// ABOUTME: Structured result report for one company publish run
// ABOUTME: Tracks per-collection counts and individual failures for manual retry
package publish

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/outpostdigital/roma/mapper"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// CollectionStats counts upsert outcomes for one destination collection.
type CollectionStats struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// ItemFailure carries enough detail to retry one item manually.
type ItemFailure struct {
	Collection string `json:"collection"`
	Slug       string `json:"slug"`
	Error      string `json:"error"`
}

// Report is the single source of truth for a run's outcome.
type Report struct {
	RunID       string                      `json:"run_id"`
	CompanyID   uuid.UUID                   `json:"company_id"`
	Status      Status                      `json:"status"`
	Collections map[string]*CollectionStats `json:"collections"`
	Failures    []ItemFailure               `json:"failures,omitempty"`
	Truncations []mapper.Truncation         `json:"truncations,omitempty"`
	Published   int                         `json:"published"`
	StartedAt   time.Time                   `json:"started_at"`
	FinishedAt  time.Time                   `json:"finished_at"`
}

func newReport(runID string, companyID uuid.UUID) *Report {
	return &Report{
		RunID:       runID,
		CompanyID:   companyID,
		Collections: make(map[string]*CollectionStats),
		StartedAt:   time.Now(),
	}
}

func (r *Report) stats(collection string) *CollectionStats {
	s, ok := r.Collections[collection]
	if !ok {
		s = &CollectionStats{}
		r.Collections[collection] = s
	}
	return s
}

func (r *Report) recordAttempt(collection string) {
	r.stats(collection).Attempted++
}

func (r *Report) recordSuccess(collection string) {
	r.stats(collection).Succeeded++
}

func (r *Report) recordFailure(collection, slug string, err error) {
	r.stats(collection).Failed++
	r.Failures = append(r.Failures, ItemFailure{
		Collection: collection,
		Slug:       slug,
		Error:      err.Error(),
	})
}

// ParseReport decodes a report stored with a sync run row.
func ParseReport(raw []byte) (*Report, error) {
	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Totals sums counts across every collection.
func (r *Report) Totals() (attempted, succeeded, failed int) {
	for _, s := range r.Collections {
		attempted += s.Attempted
		succeeded += s.Succeeded
		failed += s.Failed
	}
	return attempted, succeeded, failed
}
