// ABOUTME: Tests for the JSON dashboard API
// ABOUTME: Drives the route table through httptest against a real sqlite database
package web

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/outpostdigital/roma/config"
	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/models"
	"github.com/outpostdigital/roma/notify"
	"github.com/outpostdigital/roma/publish"
	"github.com/outpostdigital/roma/webflow"
)

type apiEnv struct {
	api      *httptest.Server
	database *sql.DB
	company  *models.Company
	cmsCalls *atomic.Int64
}

func setupAPI(t *testing.T) *apiEnv {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "roma.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	var cmsCalls atomic.Int64
	cms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cmsCalls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(cms.Close)

	cfg := &config.Config{
		WebflowAPIURL: cms.URL,
		WebflowToken:  "test-token",
		Collections:   config.Collections{Profiles: "col_profiles"},
		SyncWorkers:   2,
	}

	log := zap.NewNop()
	orch := publish.NewOrchestrator(database, webflow.NewClient(cms.URL, "test-token", log), cfg, notify.NewNotifier("", log), log)
	server := NewServer(database, orch, log)

	api := httptest.NewServer(server.Handler())
	t.Cleanup(api.Close)

	company := &models.Company{Name: "Acme Dumpsters", Email: "ops@acme.test", City: "Austin", State: "TX"}
	require.NoError(t, db.CreateCompany(database, company))

	return &apiEnv{api: api, database: database, company: company, cmsCalls: &cmsCalls}
}

func (e *apiEnv) getJSON(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := http.Get(e.api.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	env := setupAPI(t)

	var body map[string]string
	status := env.getJSON(t, "/healthz", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestListCompanies(t *testing.T) {
	env := setupAPI(t)

	var body struct {
		Companies []companyView `json:"companies"`
	}
	status := env.getJSON(t, "/api/companies", &body)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body.Companies, 1)
	assert.Equal(t, "Acme Dumpsters", body.Companies[0].Name)
	assert.Equal(t, "acme-dumpsters", body.Companies[0].Slug)
	assert.Empty(t, body.Companies[0].LastRunStatus)
}

func TestListCompaniesSurvivesRunLookupFailure(t *testing.T) {
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "roma.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.CreateCompany(database, &models.Company{Name: "Acme Dumpsters"}))

	// Break the run lookup without touching the companies table
	_, err = database.Exec("DROP TABLE sync_runs")
	require.NoError(t, err)

	core, logs := observer.New(zap.WarnLevel)
	server := NewServer(database, nil, zap.New(core))
	api := httptest.NewServer(server.Handler())
	t.Cleanup(api.Close)

	resp, err := http.Get(api.URL + "/api/companies")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "a broken run lookup must not take down the list")

	var body struct {
		Companies []companyView `json:"companies"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Companies, 1)
	assert.Empty(t, body.Companies[0].LastRunStatus)

	assert.Equal(t, 1, logs.FilterMessage("failed to load latest sync run").Len(),
		"the lookup failure must be logged, not swallowed")
}

func TestGetCompanyByIDAndSlug(t *testing.T) {
	env := setupAPI(t)

	var byID models.Company
	status := env.getJSON(t, "/api/companies/"+env.company.ID.String(), &byID)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, env.company.ID, byID.ID)

	var bySlug models.Company
	status = env.getJSON(t, "/api/companies/acme-dumpsters", &bySlug)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, env.company.ID, bySlug.ID)
}

func TestGetCompanyNotFound(t *testing.T) {
	env := setupAPI(t)

	var body map[string]string
	status := env.getJSON(t, "/api/companies/no-such-company", &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["error"], "no-such-company")
}

func TestGetIntakeRoundTrips(t *testing.T) {
	env := setupAPI(t)

	raw := []byte(`{"hero":{"title":"Fast dumpsters"}}`)
	require.NoError(t, db.UpsertIntake(env.database, env.company.ID, raw))

	resp, err := http.Get(env.api.URL + "/api/companies/acme-dumpsters/intake")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), buf.String())
}

func TestGetIntakeMissing(t *testing.T) {
	env := setupAPI(t)

	var body map[string]string
	status := env.getJSON(t, "/api/companies/acme-dumpsters/intake", &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["error"], "no intake")
}

func TestListMediaAndReviews(t *testing.T) {
	env := setupAPI(t)

	require.NoError(t, db.CreateMediaItem(env.database, &models.MediaItem{
		CompanyID: env.company.ID,
		Category:  models.MediaCategoryLogo,
		URL:       "https://cdn.test/logo.png",
		Status:    models.ItemStatusActive,
	}))
	require.NoError(t, db.CreateReview(env.database, &models.Review{
		CompanyID: env.company.ID,
		Author:    "Jo",
		Rating:    5,
		Text:      "Great service",
		Status:    models.ItemStatusPending,
	}))

	var media struct {
		Media []models.MediaItem `json:"media"`
	}
	status := env.getJSON(t, "/api/companies/acme-dumpsters/media", &media)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, media.Media, 1)
	assert.Equal(t, "https://cdn.test/logo.png", media.Media[0].URL)

	var reviews struct {
		Reviews []models.Review `json:"reviews"`
	}
	status = env.getJSON(t, "/api/companies/acme-dumpsters/reviews", &reviews)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, reviews.Reviews, 1)
	// List endpoints include pending items; only sync filters to active.
	assert.Equal(t, models.ItemStatusPending, reviews.Reviews[0].Status)
}

func TestSyncWithoutIntakeConflicts(t *testing.T) {
	env := setupAPI(t)

	resp, err := http.Post(env.api.URL+"/api/companies/acme-dumpsters/sync", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, int64(0), env.cmsCalls.Load(), "a run with nothing to sync must not touch the CMS")
}

func TestListRunsEmpty(t *testing.T) {
	env := setupAPI(t)

	var body struct {
		Runs []db.SyncRun `json:"runs"`
	}
	status := env.getJSON(t, "/api/companies/acme-dumpsters/runs", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body.Runs)
}
