package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cwms_shell/internal/routes"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=cwms dbname=cwms sslmode=disable"), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db
}

func TestAddPageVisitsEmpty(t *testing.T) {
	assert.NoError(t, AddPageVisits(nil, nil))
}

func TestUpsertPageVisitsSQL(t *testing.T) {
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	visits := []PendingVisit{
		{Key: VisitKey{Deployment: "cwms-data", Page: routes.PageHome, Day: day}, Count: 42},
		{Key: VisitKey{Deployment: "swf-data", Page: routes.PageRegexp, Day: day}, Count: 3},
	}

	tx := upsertPageVisits(dryRunDB(t), visits)
	require.NoError(t, tx.Error)

	sql := tx.Statement.SQL.String()
	assert.Contains(t, sql, `INSERT INTO "page_visits"`)
	assert.Contains(t, sql, `ON CONFLICT ("deployment","page","day") DO UPDATE SET`)
	assert.Contains(t, sql, `"count"=page_visits.count + excluded.count`)
	assert.Contains(t, sql, `"updated_at"=excluded.updated_at`)
	assert.Contains(t, tx.Statement.Vars, int64(42))
	assert.Contains(t, tx.Statement.Vars, "swf-data")
}
