package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGormDB creates a postgres-dialect GORM DB backed by sqlmock
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock
}

func TestBillRepository_MarkOverdue_SQL(t *testing.T) {
	db, mock := newMockGormDB(t)
	repo := NewGormBillRepository(db)
	today := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bills" SET "status"=$1,"updated_at"=$2,"version"=version + 1 WHERE status = $3 AND due_date < $4`)).
		WithArgs("overdue", sqlmock.AnyArg(), "pending", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.MarkOverdue(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBillRepository_ExistsForInvestor_SQL(t *testing.T) {
	db, mock := newMockGormDB(t)
	repo := NewGormBillRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "bills" WHERE (to_investor_id = $1 AND type = $2) AND fees_year = $3`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	year := 3
	exists, err := repo.ExistsForInvestor(context.Background(), uuid.New(), "yearly_fees", &year)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
