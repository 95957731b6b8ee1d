// ABOUTME: End-to-end publish orchestration for one company
// ABOUTME: Loads the intake snapshot, maps it, upserts and publishes CMS items, and records the outcome
package publish

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/outpostdigital/roma/config"
	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/mapper"
	"github.com/outpostdigital/roma/models"
	"github.com/outpostdigital/roma/notify"
	"github.com/outpostdigital/roma/roma"
	"github.com/outpostdigital/roma/webflow"
)

// ErrCompanyNotFound is returned when the company id does not exist.
var ErrCompanyNotFound = errors.New("company not found")

// ErrNothingToSync is returned when a company has no intake yet. The run
// makes zero CMS calls in that case.
var ErrNothingToSync = errors.New("nothing to sync: company has no intake")

type Orchestrator struct {
	db          *sql.DB
	cms         *webflow.Client
	collections config.Collections
	notifier    *notify.Notifier
	siteBaseURL string
	log         *zap.Logger

	workers     int
	maxAttempts int
	baseBackoff time.Duration
}

func NewOrchestrator(database *sql.DB, cms *webflow.Client, cfg *config.Config, notifier *notify.Notifier, log *zap.Logger) *Orchestrator {
	workers := cfg.SyncWorkers
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		db:          database,
		cms:         cms,
		collections: cfg.Collections,
		notifier:    notifier,
		siteBaseURL: cfg.SiteBaseURL,
		log:         log,
		workers:     workers,
		maxAttempts: 3,
		baseBackoff: 500 * time.Millisecond,
	}
}

// SyncCompany runs one company's publish end-to-end and returns the report.
// The error return is reserved for runs that could not be attempted at all
// (unknown company, no intake, storage failure); a run that reached the CMS
// and failed reports that through Report.Status.
//
// Re-invoking for the same company is always safe: slugs are deterministic,
// so a second run updates the same remote items instead of duplicating them.
// Concurrent runs for the same company are not serialized here; single-flight
// is the caller's responsibility.
func (o *Orchestrator) SyncCompany(ctx context.Context, companyID uuid.UUID) (*Report, error) {
	company, err := db.GetCompany(o.db, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, companyID)
	}

	intake, err := db.GetIntake(o.db, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load intake: %w", err)
	}
	if intake == nil {
		return nil, fmt.Errorf("%w (company %s)", ErrNothingToSync, company.Slug)
	}

	tree, err := roma.Decode(intake.RawData)
	if err != nil {
		return nil, fmt.Errorf("intake for %s is unreadable: %w", company.Slug, err)
	}

	media, err := db.ActiveMediaItems(o.db, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load media: %w", err)
	}
	reviews, err := db.ActiveReviews(o.db, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	runID := ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)).String()
	report := newReport(runID, companyID)

	o.log.Info("starting publish run",
		zap.String("run_id", runID),
		zap.String("company", company.Slug))

	mapped := mapper.Build(company, tree, media, reviews)
	report.Truncations = mapped.Truncations
	for _, f := range mapped.Failures {
		report.recordAttempt(f.Collection)
		report.recordFailure(f.Collection, f.Slug, f.Err)
	}

	profile, subItems := splitProfile(mapped.Items)
	if profile == nil {
		report.Status = StatusFailed
		o.finishRun(ctx, company, report, nil, "")
		return report, nil
	}

	// Profile first: every sub-item is meaningless without it, so a profile
	// failure aborts the run.
	report.recordAttempt(profile.Collection)
	profileItem, err := o.upsertWithRetry(ctx, *profile)
	if err != nil {
		report.recordFailure(profile.Collection, profile.Slug, err)
		report.Status = StatusFailed
		o.log.Error("profile upsert failed, aborting run",
			zap.String("run_id", runID),
			zap.String("slug", profile.Slug),
			zap.Error(err))
		o.finishRun(ctx, company, report, nil, "")
		return report, nil
	}
	report.recordSuccess(profile.Collection)

	succeeded := o.upsertSubItems(ctx, report, subItems)
	succeeded = append(succeeded, syncedEntry{
		collection: profile.Collection,
		slug:       profile.Slug,
		itemID:     profileItem.ID,
	})

	o.publishItems(ctx, report, succeeded)

	// Upserts alone are drafts; nothing is live until a publish call lands.
	// A run where no item published is a failed run: no write-back, no
	// notification.
	switch {
	case report.Published == 0:
		report.Status = StatusFailed
	case len(report.Failures) > 0:
		report.Status = StatusPartial
	default:
		report.Status = StatusSuccess
	}

	o.finishRun(ctx, company, report, succeeded, profileItem.ID)
	return report, nil
}

type syncedEntry struct {
	collection string
	slug       string
	itemID     string
}

// upsertSubItems runs every sub-entity upsert under a bounded worker pool.
// Failures accumulate per item; one bad service never blocks the reviews.
func (o *Orchestrator) upsertSubItems(ctx context.Context, report *Report, items []mapper.Item) []syncedEntry {
	var mu sync.Mutex
	var succeeded []syncedEntry

	// Record every attempt before the first worker starts; workers mutate the
	// same report under mu.
	for _, item := range items {
		report.recordAttempt(item.Collection)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for _, item := range items {
		item := item

		g.Go(func() error {
			remote, err := o.upsertWithRetry(gctx, item)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.recordFailure(item.Collection, item.Slug, err)
				return nil // siblings keep going
			}
			report.recordSuccess(item.Collection)
			succeeded = append(succeeded, syncedEntry{
				collection: item.Collection,
				slug:       item.Slug,
				itemID:     remote.ID,
			})
			return nil
		})
	}

	_ = g.Wait()
	return succeeded
}

func (o *Orchestrator) upsertWithRetry(ctx context.Context, item mapper.Item) (*webflow.Item, error) {
	collectionID := o.collectionID(item.Collection)
	if collectionID == "" {
		return nil, fmt.Errorf("no collection configured for %s", item.Collection)
	}

	var lastErr error
	for attempt := 0; attempt < o.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := o.baseBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		remote, _, err := o.cms.Upsert(ctx, collectionID, item.Slug, item.Fields)
		if err == nil {
			return remote, nil
		}
		lastErr = err

		var apiErr *webflow.APIError
		if !errors.As(err, &apiErr) || !apiErr.Retryable() {
			return nil, err
		}
		o.log.Warn("retrying upsert after retryable error",
			zap.String("slug", item.Slug),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return nil, lastErr
}

// publishItems batch-publishes every successfully upserted item, grouped by
// collection. Publish failures are recorded against the item's slug.
func (o *Orchestrator) publishItems(ctx context.Context, report *Report, succeeded []syncedEntry) {
	byCollection := make(map[string][]syncedEntry)
	for _, e := range succeeded {
		byCollection[e.collection] = append(byCollection[e.collection], e)
	}

	for collection, entries := range byCollection {
		collectionID := o.collectionID(collection)
		if collectionID == "" {
			continue
		}

		ids := make([]string, len(entries))
		slugByID := make(map[string]string, len(entries))
		for i, e := range entries {
			ids[i] = e.itemID
			slugByID[e.itemID] = e.slug
		}

		result := o.cms.Publish(ctx, collectionID, ids)
		report.Published += len(result.Published)
		for _, f := range result.Failures {
			report.recordFailure(collection, slugByID[f.ItemID], fmt.Errorf("publish rejected: %s", f.Message))
		}
	}
}

// finishRun persists the run record and, on success, the sync write-back
// plus the go-live notification. Failed runs record nothing as synced.
func (o *Orchestrator) finishRun(ctx context.Context, company *models.Company, report *Report, succeeded []syncedEntry, profileItemID string) {
	report.FinishedAt = time.Now()

	attempted, ok, failed := report.Totals()
	reportJSON, err := json.Marshal(report)
	if err != nil {
		o.log.Error("failed to encode run report", zap.Error(err))
		reportJSON = []byte("{}")
	}

	if err := db.CreateSyncRun(o.db, &db.SyncRun{
		ID:         report.RunID,
		CompanyID:  company.ID,
		Status:     string(report.Status),
		Attempted:  attempted,
		Succeeded:  ok,
		Failed:     failed,
		Report:     string(reportJSON),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
	}); err != nil {
		o.log.Error("failed to record sync run", zap.Error(err))
	}

	if report.Status == StatusFailed {
		o.log.Warn("publish run failed",
			zap.String("run_id", report.RunID),
			zap.String("company", company.Slug),
			zap.Int("failed", failed))
		return
	}

	now := time.Now()
	for _, e := range succeeded {
		if err := db.RecordSyncedItem(o.db, &db.SyncedItem{
			CompanyID:  company.ID,
			Collection: e.collection,
			Slug:       e.slug,
			ItemID:     e.itemID,
			SyncedAt:   now,
		}); err != nil {
			o.log.Error("failed to record synced item",
				zap.String("slug", e.slug),
				zap.Error(err))
		}
	}

	if err := db.MarkCompanySynced(o.db, company.ID, profileItemID, now); err != nil {
		o.log.Error("failed to mark company synced", zap.Error(err))
	}

	o.notifier.ProfileLive(ctx, company.ID, o.profileURL(company.Slug))

	o.log.Info("publish run finished",
		zap.String("run_id", report.RunID),
		zap.String("company", company.Slug),
		zap.String("status", string(report.Status)),
		zap.Int("published", report.Published),
		zap.Int("failed", failed))
}

func (o *Orchestrator) profileURL(slug string) string {
	if o.siteBaseURL == "" {
		return slug
	}
	return strings.TrimRight(o.siteBaseURL, "/") + "/" + slug
}

func (o *Orchestrator) collectionID(logical string) string {
	switch logical {
	case mapper.CollectionProfiles:
		return o.collections.Profiles
	case mapper.CollectionServices:
		return o.collections.Services
	case mapper.CollectionReviews:
		return o.collections.Reviews
	case mapper.CollectionFAQs:
		return o.collections.FAQs
	case mapper.CollectionLocations:
		return o.collections.Locations
	case mapper.CollectionScenarios:
		return o.collections.Scenarios
	}
	return ""
}

func splitProfile(items []mapper.Item) (*mapper.Item, []mapper.Item) {
	var profile *mapper.Item
	var rest []mapper.Item
	for i := range items {
		if items[i].Collection == mapper.CollectionProfiles && profile == nil {
			profile = &items[i]
			continue
		}
		rest = append(rest, items[i])
	}
	return profile, rest
}
