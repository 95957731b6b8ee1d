// ABOUTME: Media and review CLI commands
// ABOUTME: Curates the assets and testimonials eligible for publishing
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/models"
)

// AddMediaCommand attaches a media item to a company
func AddMediaCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-media", flag.ExitOnError)
	slug := fs.String("company", "", "Company slug (required)")
	category := fs.String("category", models.MediaCategoryPhoto, "Category: logo, photo, or video")
	url := fs.String("url", "", "Asset URL (required)")
	alt := fs.String("alt", "", "Alt text")
	priority := fs.Int("priority", 0, "Sort priority (higher first)")
	active := fs.Bool("active", false, "Mark active (sync-eligible) immediately")
	fs.Parse(args)

	if *slug == "" || *url == "" {
		return fmt.Errorf("--company and --url are required")
	}
	switch *category {
	case models.MediaCategoryLogo, models.MediaCategoryPhoto, models.MediaCategoryVideo:
	default:
		return fmt.Errorf("invalid category %q (want logo, photo, or video)", *category)
	}

	company, err := findCompany(database, *slug)
	if err != nil {
		return err
	}

	item := &models.MediaItem{
		CompanyID: company.ID,
		Category:  *category,
		URL:       *url,
		AltText:   *alt,
		Priority:  *priority,
	}
	if *active {
		item.Status = models.ItemStatusActive
	}

	if err := db.CreateMediaItem(database, item); err != nil {
		return fmt.Errorf("failed to create media item: %w", err)
	}

	fmt.Printf("✓ Media added: %s %s (ID: %s, status: %s)\n",
		item.Category, item.URL, item.ID.String()[:8], item.Status)
	return nil
}

// ListMediaCommand lists a company's media items
func ListMediaCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-media", flag.ExitOnError)
	slug := fs.String("company", "", "Company slug (required)")
	fs.Parse(args)

	if *slug == "" {
		return fmt.Errorf("--company is required")
	}

	company, err := findCompany(database, *slug)
	if err != nil {
		return err
	}

	items, err := db.ListMediaItems(database, company.ID)
	if err != nil {
		return fmt.Errorf("failed to list media: %w", err)
	}

	if len(items) == 0 {
		fmt.Println("No media items")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tSTATUS\tPRIORITY\tURL")
	fmt.Fprintln(w, "--\t--------\t------\t--------\t---")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			item.ID.String()[:8], item.Category, item.Status, item.Priority, item.URL)
	}
	w.Flush()
	return nil
}

// SetMediaStatusCommand moves a media item through its lifecycle
func SetMediaStatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("media-status", flag.ExitOnError)
	id := fs.String("id", "", "Media item ID (required)")
	status := fs.String("status", "", "New status: pending, active, or archived (required)")
	fs.Parse(args)

	itemID, err := parseItemID(*id, *status)
	if err != nil {
		return err
	}

	if err := db.UpdateMediaStatus(database, itemID, *status); err != nil {
		return fmt.Errorf("failed to update media status: %w", err)
	}

	fmt.Printf("✓ Media %s → %s\n", (*id)[:8], *status)
	return nil
}

// AddReviewCommand records a customer review for a company
func AddReviewCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-review", flag.ExitOnError)
	slug := fs.String("company", "", "Company slug (required)")
	author := fs.String("author", "", "Reviewer name (required)")
	platform := fs.String("platform", "", "Source platform (e.g., google)")
	rating := fs.Int("rating", 0, "Star rating 1-5 (required)")
	date := fs.String("date", "", "Review date (YYYY-MM-DD)")
	text := fs.String("text", "", "Review text")
	active := fs.Bool("active", false, "Mark active (sync-eligible) immediately")
	fs.Parse(args)

	if *slug == "" || *author == "" {
		return fmt.Errorf("--company and --author are required")
	}
	if *rating < 1 || *rating > 5 {
		return fmt.Errorf("--rating must be between 1 and 5")
	}

	company, err := findCompany(database, *slug)
	if err != nil {
		return err
	}

	review := &models.Review{
		CompanyID: company.ID,
		Author:    *author,
		Platform:  *platform,
		Rating:    *rating,
		Text:      *text,
	}
	if *date != "" {
		d, err := time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", *date)
		}
		review.ReviewDate = &d
	}
	if *active {
		review.Status = models.ItemStatusActive
	}

	if err := db.CreateReview(database, review); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	fmt.Printf("✓ Review added: %s, %d★ (ID: %s, status: %s)\n",
		review.Author, review.Rating, review.ID.String()[:8], review.Status)
	return nil
}

// SetReviewStatusCommand moves a review through its lifecycle
func SetReviewStatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("review-status", flag.ExitOnError)
	id := fs.String("id", "", "Review ID (required)")
	status := fs.String("status", "", "New status: pending, active, or archived (required)")
	fs.Parse(args)

	reviewID, err := parseItemID(*id, *status)
	if err != nil {
		return err
	}

	if err := db.UpdateReviewStatus(database, reviewID, *status); err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}

	fmt.Printf("✓ Review %s → %s\n", (*id)[:8], *status)
	return nil
}

func parseItemID(id, status string) (uuid.UUID, error) {
	if id == "" || status == "" {
		return uuid.Nil, fmt.Errorf("--id and --status are required")
	}
	switch status {
	case models.ItemStatusPending, models.ItemStatusActive, models.ItemStatusArchived:
	default:
		return uuid.Nil, fmt.Errorf("invalid status %q (want pending, active, or archived)", status)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --id: %w", err)
	}
	return parsed, nil
}
