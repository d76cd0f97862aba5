package repository

import (
	"path/filepath"
	"testing"
	"time"

	"tooling-spend-tracker/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "spend.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Vendor{}, &models.Transaction{}, &models.SyncRun{}, &models.VendorRemapLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testVendor(name string) models.Vendor {
	now := time.Now()
	return models.Vendor{
		ID:               uuid.New(),
		Name:             name,
		AlternativeNames: datatypes.JSONSlice[string]{},
		Category:         "engineering",
		MonthlyBudget:    decimal.NewFromInt(100),
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func testTransaction(externalID string, vendorID *uuid.UUID) models.Transaction {
	date := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	return models.Transaction{
		ID:           uuid.New(),
		ExternalID:   externalID,
		VendorID:     vendorID,
		MerchantName: "GITHUB",
		Amount:       decimal.RequireFromString("12.50"),
		Date:         date,
		Month:        "2024-03",
		CreatedAt:    time.Now(),
	}
}

func countTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Transaction{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
