// ABOUTME: Tests for CLI command argument handling
// ABOUTME: Exercises validation paths and database effects without a CMS
package cli

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outpostdigital/roma/db"
	"github.com/outpostdigital/roma/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "roma.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestAddCompanyRequiresName(t *testing.T) {
	err := AddCompanyCommand(testDB(t), []string{})
	assert.ErrorContains(t, err, "--name is required")
}

func TestAddCompanyCreates(t *testing.T) {
	database := testDB(t)

	err := AddCompanyCommand(database, []string{
		"-name", "Acme Dumpsters", "-city", "Austin", "-state", "TX",
	})
	require.NoError(t, err)

	company, err := db.FindCompanyBySlug(database, "acme-dumpsters")
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, models.StatusNew, company.Status)
	assert.Equal(t, "Austin", company.City)
}

func TestSetStatusValidation(t *testing.T) {
	database := testDB(t)
	require.NoError(t, db.CreateCompany(database, &models.Company{Name: "Acme Dumpsters"}))

	err := SetStatusCommand(database, []string{"-company", "acme-dumpsters", "-status", "LAUNCHED"})
	assert.ErrorContains(t, err, "invalid status")

	err = SetStatusCommand(database, []string{"-company", "acme-dumpsters", "-status", models.StatusActive})
	require.NoError(t, err)

	company, err := db.FindCompanyBySlug(database, "acme-dumpsters")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, company.Status)
}

func TestSetIntakeRejectsBadJSON(t *testing.T) {
	database := testDB(t)
	require.NoError(t, db.CreateCompany(database, &models.Company{Name: "Acme Dumpsters"}))

	tmp := filepath.Join(t.TempDir(), "intake.json")
	require.NoError(t, writeFile(tmp, "{not json"))

	err := SetIntakeCommand(database, []string{"-company", "acme-dumpsters", "-file", tmp})
	assert.ErrorContains(t, err, "intake is not valid")
}

func TestSetIntakeStores(t *testing.T) {
	database := testDB(t)
	company := &models.Company{Name: "Acme Dumpsters"}
	require.NoError(t, db.CreateCompany(database, company))

	tmp := filepath.Join(t.TempDir(), "intake.json")
	require.NoError(t, writeFile(tmp, `{"hero":{"title":"Fast dumpsters"}}`))

	err := SetIntakeCommand(database, []string{"-company", "acme-dumpsters", "-file", tmp})
	require.NoError(t, err)

	intake, err := db.GetIntake(database, company.ID)
	require.NoError(t, err)
	require.NotNil(t, intake)
	assert.JSONEq(t, `{"hero":{"title":"Fast dumpsters"}}`, string(intake.RawData))
}

func TestAddReviewValidatesRating(t *testing.T) {
	database := testDB(t)
	require.NoError(t, db.CreateCompany(database, &models.Company{Name: "Acme Dumpsters"}))

	err := AddReviewCommand(database, []string{
		"-company", "acme-dumpsters", "-author", "Jo", "-rating", "9",
	})
	assert.ErrorContains(t, err, "--rating must be between 1 and 5")
}

func TestAddMediaValidatesCategory(t *testing.T) {
	database := testDB(t)
	require.NoError(t, db.CreateCompany(database, &models.Company{Name: "Acme Dumpsters"}))

	err := AddMediaCommand(database, []string{
		"-company", "acme-dumpsters", "-url", "https://cdn.test/x.png", "-category", "banner",
	})
	assert.ErrorContains(t, err, "invalid category")
}

func TestParseItemID(t *testing.T) {
	_, err := parseItemID("", models.ItemStatusActive)
	assert.ErrorContains(t, err, "--id and --status are required")

	_, err = parseItemID("not-a-uuid", models.ItemStatusActive)
	assert.ErrorContains(t, err, "invalid --id")

	_, err = parseItemID("b9a7c6ff-0000-0000-0000-000000000001", "published")
	assert.ErrorContains(t, err, "invalid status")
}
