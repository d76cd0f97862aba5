package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Vendor is a budgeted tooling subscription. Vendors are never removed
// physically; deleting one flips Active to false.
type Vendor struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string                      `gorm:"not null;index" json:"name"`
	AlternativeNames datatypes.JSONSlice[string] `gorm:"column:alternative_names" json:"alternative_names"`
	Category         string                      `gorm:"index" json:"category"`
	MonthlyBudget    decimal.Decimal             `gorm:"type:numeric(14,2);not null" json:"monthly_budget"`
	Active           bool                        `gorm:"index" json:"active"`
	Notes            string                      `json:"notes,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

// SearchNames returns the canonical name followed by every alias.
func (v Vendor) SearchNames() []string {
	names := make([]string, 0, len(v.AlternativeNames)+1)
	names = append(names, v.Name)
	names = append(names, v.AlternativeNames...)
	return names
}
