// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	email TEXT,
	phone TEXT,
	city TEXT,
	state TEXT,
	plan TEXT,
	status TEXT NOT NULL DEFAULT 'NEW' CHECK(status IN ('NEW', 'DISCOVER', 'ACTIVE')),
	profile_item_id TEXT,
	last_synced_at DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_name ON companies(name);
CREATE INDEX IF NOT EXISTS idx_companies_status ON companies(status);

CREATE TABLE IF NOT EXISTS intakes (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL UNIQUE,
	raw_data TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (company_id) REFERENCES companies(id)
);

CREATE TABLE IF NOT EXISTS media_items (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	category TEXT NOT NULL CHECK(category IN ('logo', 'photo', 'video')),
	url TEXT NOT NULL,
	alt_text TEXT,
	status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'active', 'archived')),
	priority INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (company_id) REFERENCES companies(id)
);

CREATE INDEX IF NOT EXISTS idx_media_items_company ON media_items(company_id, status);

CREATE TABLE IF NOT EXISTS reviews (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	author TEXT NOT NULL,
	platform TEXT,
	rating INTEGER,
	review_date DATETIME,
	text TEXT,
	status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'active', 'archived')),
	created_at DATETIME NOT NULL,
	FOREIGN KEY (company_id) REFERENCES companies(id)
);

CREATE INDEX IF NOT EXISTS idx_reviews_company ON reviews(company_id, status);

CREATE TABLE IF NOT EXISTS sync_runs (
	id TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('success', 'partial', 'failed')),
	attempted INTEGER NOT NULL DEFAULT 0,
	succeeded INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0,
	report TEXT,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	FOREIGN KEY (company_id) REFERENCES companies(id)
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_company ON sync_runs(company_id, started_at DESC);

CREATE TABLE IF NOT EXISTS synced_items (
	company_id TEXT NOT NULL,
	collection TEXT NOT NULL,
	slug TEXT NOT NULL,
	item_id TEXT NOT NULL,
	synced_at DATETIME NOT NULL,
	PRIMARY KEY (company_id, collection, slug),
	FOREIGN KEY (company_id) REFERENCES companies(id)
);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
