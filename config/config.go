// ABOUTME: Single configuration-loading boundary for the whole tool
// ABOUTME: Loads .env plus environment variables once; everything downstream gets injected values
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Config carries every credential and tunable the pipeline needs. Mapping
// and client logic never read the environment directly.
type Config struct {
	DBPath      string
	PostgresDSN string

	WebflowToken  string
	WebflowAPIURL string
	Collections   Collections

	NotifyWebhookURL string
	SiteBaseURL      string

	SyncWorkers int
	ListenAddr  string
}

// Collections maps each destination collection to its remote collection id.
type Collections struct {
	Profiles  string
	Services  string
	Reviews   string
	FAQs      string
	Locations string
	Scenarios string
}

// Load reads .env (if present) and the environment. Call once in main.
func Load() (*Config, error) {
	// Missing .env is fine; explicit env vars still apply
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:        envOr("ROMA_DB_PATH", filepath.Join(xdg.DataHome, "roma", "roma.db")),
		PostgresDSN:   os.Getenv("ROMA_POSTGRES_DSN"),
		WebflowToken:  os.Getenv("WEBFLOW_API_TOKEN"),
		WebflowAPIURL: envOr("WEBFLOW_API_URL", "https://api.webflow.com/v2"),
		Collections: Collections{
			Profiles:  os.Getenv("WEBFLOW_COLLECTION_PROFILES"),
			Services:  os.Getenv("WEBFLOW_COLLECTION_SERVICES"),
			Reviews:   os.Getenv("WEBFLOW_COLLECTION_REVIEWS"),
			FAQs:      os.Getenv("WEBFLOW_COLLECTION_FAQS"),
			Locations: os.Getenv("WEBFLOW_COLLECTION_LOCATIONS"),
			Scenarios: os.Getenv("WEBFLOW_COLLECTION_SCENARIOS"),
		},
		NotifyWebhookURL: os.Getenv("ROMA_NOTIFY_WEBHOOK_URL"),
		SiteBaseURL:      os.Getenv("ROMA_SITE_BASE_URL"),
		SyncWorkers:      4,
		ListenAddr:       envOr("ROMA_LISTEN_ADDR", ":8080"),
	}

	if workers := os.Getenv("ROMA_SYNC_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid ROMA_SYNC_WORKERS %q", workers)
		}
		cfg.SyncWorkers = n
	}

	return cfg, nil
}

// RequireCMS validates the fields the publish pipeline cannot run without.
func (c *Config) RequireCMS() error {
	if c.WebflowToken == "" {
		return fmt.Errorf("WEBFLOW_API_TOKEN is not set")
	}
	if c.Collections.Profiles == "" {
		return fmt.Errorf("WEBFLOW_COLLECTION_PROFILES is not set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
