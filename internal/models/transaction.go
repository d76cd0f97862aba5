package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Transaction is a settled card charge pulled from the provider. ExternalID is
// the provider's id and the dedup key; only VendorID changes after insert.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID      string          `gorm:"uniqueIndex;not null" json:"external_id"`
	VendorID        *uuid.UUID      `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	MerchantName    string          `gorm:"index" json:"merchant_name"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Date            time.Time       `gorm:"index" json:"date"`
	Month           string          `gorm:"size:7;index" json:"month"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category,omitempty"`
	CardLastFour    string          `gorm:"size:4" json:"card_last_four,omitempty"`
	EmployeeName    string          `json:"employee_name,omitempty"`
	MatchConfidence float64         `json:"match_confidence"`
	MatchDetails    datatypes.JSON  `json:"match_details,omitempty"`
	SyncRunID       *uuid.UUID      `gorm:"type:uuid;index" json:"sync_run_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Matched reports whether the transaction is assigned to a vendor.
func (t Transaction) Matched() bool {
	return t.VendorID != nil
}
