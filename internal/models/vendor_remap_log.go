package models

import (
	"time"

	"github.com/google/uuid"
)

type VendorRemapLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID  uuid.UUID  `gorm:"type:uuid;index" json:"transaction_id"`
	PreviousVendor *uuid.UUID `gorm:"type:uuid" json:"previous_vendor_id,omitempty"`
	NewVendor      *uuid.UUID `gorm:"type:uuid" json:"new_vendor_id,omitempty"`
	PerformedBy    string     `json:"performed_by"`
	Reason         string     `json:"reason"`
	CreatedAt      time.Time  `json:"created_at"`
}
