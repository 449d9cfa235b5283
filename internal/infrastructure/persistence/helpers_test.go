package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/domain/fund"
	"github.com/fundbilling/backend/internal/domain/shared/valueobject"
	"github.com/fundbilling/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.EntityModel{},
		&models.InvestmentModel{},
		&models.CapitalCallModel{},
		&models.CapitalCallBillModel{},
		&models.BillModel{},
	)
	require.NoError(t, err)
	return db
}

func createInvestor(t *testing.T, db *gorm.DB) *fund.Entity {
	t.Helper()
	investor, err := fund.NewEntity(fund.EntityTypeInvestor, fund.EntityDetails{
		Name:              "Test Investor",
		BankAccountNumber: "GB82WEST12345698765432",
		BankAccountType:   valueobject.BankAccountIBAN,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormEntityRepository(db).Save(context.Background(), investor))
	return investor
}

func createCapitalCall(t *testing.T, db *gorm.DB, investors ...uuid.UUID) *fund.CapitalCall {
	t.Helper()
	call, err := fund.NewCapitalCall(uuid.New(), fund.CapitalCallDetails{
		InvestorEntities: investors,
		Date:             time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
		Purpose:          "Initial Capital Call",
	})
	require.NoError(t, err)
	require.NoError(t, NewGormCapitalCallRepository(db).Save(context.Background(), call))
	return call
}

func newTestBill(t *testing.T, billType billing.BillType, investorID, callID uuid.UUID, feesYear int) *billing.Bill {
	t.Helper()
	d := billing.BillDraft{
		Type:          billType,
		ToInvestorID:  investorID,
		CapitalCallID: callID,
		FeesYear:      feesYear,
		Amount:        decimal.NewFromInt(3000),
	}
	if billType.RequiresInvestment() {
		id := uuid.New()
		d.InvestmentID = &id
	}
	bill, err := billing.NewBill(d)
	require.NoError(t, err)
	return bill
}
