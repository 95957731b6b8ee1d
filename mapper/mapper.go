// ABOUTME: Pure mapping from intake snapshot to CMS collection field maps
// ABOUTME: Produces slug-keyed item tuples for profile, services, reviews, FAQs, locations, and scenarios
package mapper

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/outpostdigital/roma/models"
	"github.com/outpostdigital/roma/roma"
)

// Logical destination collections. Config maps these onto remote ids.
const (
	CollectionProfiles  = "profiles"
	CollectionServices  = "services"
	CollectionReviews   = "reviews"
	CollectionFAQs      = "faqs"
	CollectionLocations = "locations"
	CollectionScenarios = "scenarios"
)

// Documented destination field length limits. Longer values are truncated
// and flagged, never rejected.
var fieldLimits = map[string]int{
	"name":             256,
	"slug":             128,
	"meta-title":       70,
	"meta-description": 160,
}

// Item is one mapped destination tuple. Fields always include "slug".
type Item struct {
	Collection string
	Slug       string
	Fields     map[string]any
}

// Truncation records a field that was cut to a destination limit.
type Truncation struct {
	Slug  string `json:"slug"`
	Field string `json:"field"`
	Limit int    `json:"limit"`
}

// Failure is a per-item validation failure. Sibling items are unaffected.
type Failure struct {
	Collection string
	Slug       string
	Err        error
}

// ValidationError marks a mapped item missing a required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Result is the full mapper output for one company. Items holds the profile
// first, then sub-items in sync order.
type Result struct {
	Items       []Item
	Failures    []Failure
	Truncations []Truncation
}

// Build maps one company's intake snapshot into destination tuples. Pure
// function of its inputs: no I/O, no clock except formatting stored dates.
//
// Media and review inputs are filtered to active status here even when the
// caller already filtered, so pending or archived content can never reach a
// mapped field.
func Build(company *models.Company, tree *roma.Tree, media []models.MediaItem, reviews []models.Review) *Result {
	r := &Result{}

	activeMedia := make([]models.MediaItem, 0, len(media))
	for _, m := range media {
		if m.IsSyncEligible() {
			activeMedia = append(activeMedia, m)
		}
	}
	activeReviews := make([]models.Review, 0, len(reviews))
	for _, rev := range reviews {
		if rev.IsSyncEligible() {
			activeReviews = append(activeReviews, rev)
		}
	}

	r.buildProfile(company, tree, activeMedia)
	r.buildSection(tree, "services", CollectionServices, company.Slug, "service", serviceFields)
	r.buildSection(tree, "faqs", CollectionFAQs, company.Slug, "faq", faqFields)
	r.buildSection(tree, "locations", CollectionLocations, company.Slug, "location", locationFields)
	r.buildScenarios(tree, company.Slug)
	r.buildReviews(company.Slug, activeReviews)

	return r
}

func (r *Result) buildProfile(company *models.Company, tree *roma.Tree, media []models.MediaItem) {
	slug := company.Slug
	if company.Name == "" {
		r.Failures = append(r.Failures, Failure{
			Collection: CollectionProfiles,
			Slug:       slug,
			Err:        &ValidationError{Field: "name"},
		})
		return
	}

	fields := map[string]any{"slug": slug}
	r.setField(fields, slug, "name", company.Name)

	if company.Email != "" {
		fields["email"] = company.Email
	}
	if company.Phone != "" {
		fields["phone"] = company.Phone
	}
	if company.City != "" {
		fields["city"] = company.City
	}
	if company.State != "" {
		fields["state"] = company.State
	}

	if hero, ok := tree.Section("hero"); ok {
		r.copyField(fields, slug, hero, "title", "hero-title")
		r.copyField(fields, slug, hero, "subtitle", "hero-subtitle")
	}
	if about, ok := tree.Section("about"); ok {
		r.copyField(fields, slug, about, "body", "about")
	}
	if seo, ok := tree.Section("seo"); ok {
		r.copyField(fields, slug, seo, "title", "meta-title")
		r.copyField(fields, slug, seo, "description", "meta-description")
	}

	logo, gallery := selectMedia(media)
	if logo != nil {
		fields["logo"] = *logo
	}
	if len(gallery) > 0 {
		fields["gallery"] = gallery
	}

	r.Items = append(r.Items, Item{Collection: CollectionProfiles, Slug: slug, Fields: fields})
}

// copyField moves a source key into a destination field, preserving the
// three upstream states: absent keys set nothing, explicit nulls clear the
// destination field, strings copy verbatim (modulo documented limits).
func (r *Result) copyField(fields map[string]any, slug string, section map[string]any, srcKey, destField string) {
	v, present := roma.Lookup(section, srcKey)
	if !present {
		return
	}
	if v == nil {
		fields[destField] = ""
		return
	}
	if s, ok := v.(string); ok {
		r.setField(fields, slug, destField, s)
	}
}

// setField writes a string field, truncating to the destination limit when
// one is documented and recording the truncation. Limits are character
// limits, so truncation counts runes and never splits a multi-byte sequence.
func (r *Result) setField(fields map[string]any, slug, field, value string) {
	if limit, ok := fieldLimits[field]; ok && utf8.RuneCountInString(value) > limit {
		fields[field] = string([]rune(value)[:limit])
		r.Truncations = append(r.Truncations, Truncation{Slug: slug, Field: field, Limit: limit})
		return
	}
	fields[field] = value
}

// sectionSpec maps one source item object into destination fields. The first
// entry is the required field.
type sectionField struct {
	srcKey    string
	destField string
	required  bool
}

var serviceFields = []sectionField{
	{"name", "name", true},
	{"description", "description", false},
	{"price_note", "price-note", false},
}

var faqFields = []sectionField{
	{"question", "name", true},
	{"answer", "answer", false},
}

var locationFields = []sectionField{
	{"name", "name", true},
	{"address", "address", false},
	{"city", "city", false},
	{"state", "state", false},
	{"hours", "hours", false},
}

var scenarioFields = []sectionField{
	{"title", "name", true},
	{"description", "description", false},
}

// buildSection maps one repeatable section. Slug indexes follow the
// normalized sequence position (1-based) so a mid-list validation failure
// does not shift the slugs of later items.
func (r *Result) buildSection(tree *roma.Tree, sectionName, collection, companySlug, slugPart string, spec []sectionField) {
	items, ok := tree.Items(sectionName)
	if !ok {
		return
	}

	for i, src := range items {
		slug := fmt.Sprintf("%s-%s-%d", companySlug, slugPart, i+1)
		fields := map[string]any{"slug": slug}

		valid := true
		for _, f := range spec {
			v, present := roma.Lookup(src, f.srcKey)
			if !present {
				if f.required {
					r.Failures = append(r.Failures, Failure{
						Collection: collection,
						Slug:       slug,
						Err:        &ValidationError{Field: f.srcKey},
					})
					valid = false
					break
				}
				continue
			}
			if v == nil {
				if f.required {
					r.Failures = append(r.Failures, Failure{
						Collection: collection,
						Slug:       slug,
						Err:        &ValidationError{Field: f.srcKey},
					})
					valid = false
					break
				}
				fields[f.destField] = ""
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				continue
			}
			if f.required && s == "" {
				r.Failures = append(r.Failures, Failure{
					Collection: collection,
					Slug:       slug,
					Err:        &ValidationError{Field: f.srcKey},
				})
				valid = false
				break
			}
			r.setField(fields, slug, f.destField, s)
		}

		if valid {
			r.Items = append(r.Items, Item{Collection: collection, Slug: slug, Fields: fields})
		}
	}
}

// buildScenarios handles the "what to expect" section, which upstream stores
// under either key depending on enrichment vintage.
func (r *Result) buildScenarios(tree *roma.Tree, companySlug string) {
	sectionName := "what_to_expect"
	if !tree.Has(sectionName) {
		sectionName = "scenarios"
	}
	r.buildSection(tree, sectionName, CollectionScenarios, companySlug, "scenario", scenarioFields)
}

func (r *Result) buildReviews(companySlug string, reviews []models.Review) {
	for i, rev := range reviews {
		slug := fmt.Sprintf("%s-review-%d", companySlug, i+1)

		if rev.Author == "" {
			r.Failures = append(r.Failures, Failure{
				Collection: CollectionReviews,
				Slug:       slug,
				Err:        &ValidationError{Field: "author"},
			})
			continue
		}

		fields := map[string]any{
			"slug":   slug,
			"author": rev.Author,
			"text":   rev.Text,
		}
		if rev.Platform != "" {
			fields["platform"] = rev.Platform
		}
		if rev.Rating > 0 {
			fields["rating"] = rev.Rating
		}
		if rev.ReviewDate != nil {
			fields["review-date"] = rev.ReviewDate.Format(time.RFC3339)
		}

		r.Items = append(r.Items, Item{Collection: CollectionReviews, Slug: slug, Fields: fields})
	}
}
