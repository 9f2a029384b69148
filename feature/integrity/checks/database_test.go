package checks

import (
	"context"
	"regexp"
	"testing"

	"asset-resynch/core/database"
	"asset-resynch/core/history"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func columnRows(cols ...[2]string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, c := range cols {
		rows.AddRow(c[0], c[1], "YES", "", nil, "")
	}
	return rows
}

func TestCheckDatabaseIntegrity_NilDB(t *testing.T) {
	report, err := CheckDatabaseIntegrity(nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckDatabaseIntegrity_MigratedSQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, history.NewStore(db).Migrate(context.Background()))

	report, err := CheckDatabaseIntegrity(db)
	require.NoError(t, err)
	assert.True(t, report.Matched, "%+v", report)
	assert.Equal(t, "sqlite", report.Driver)
	assert.Equal(t, "ok", report.Tables["runs"].Status)
	assert.Equal(t, "ok", report.Tables["run_actions"].Status)
}

func TestCheckDatabaseIntegrity_MissingAndMismatched(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `runs`")).WillReturnRows(columnRows(
		[2]string{"id", "varchar(36)"},
		[2]string{"start_path", "int(11)"},
	))
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `run_actions`")).WillReturnError(assert.AnError)

	report, err := CheckDatabaseIntegrity(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)

	runs := report.Tables["runs"]
	assert.Equal(t, "error", runs.Status)
	assert.Contains(t, runs.MissingColumns, "dry_run")
	assert.NotContains(t, runs.MissingColumns, "id")
	assert.Contains(t, runs.TypeMismatches, "start_path: expected varchar(1024), got int(11)")

	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "run_actions")
}

func TestParseGormTags(t *testing.T) {
	col := parseGormColumn("column:id;primaryKey")
	assert.Equal(t, "id", col)

	col2 := parseGormColumn("primaryKey;column:run_id;type:varchar(36)")
	assert.Equal(t, "run_id", col2)

	typ := parseGormType("column:id;type:varchar(36)")
	assert.Equal(t, "varchar(36)", typ)

	typ2 := parseGormType("foreignKey:RunID")
	assert.Equal(t, "", typ2)
}
