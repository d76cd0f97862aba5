package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tooling-spend-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var ErrInvalidVendor = errors.New("invalid vendor")

// VendorInput is the writable part of a vendor.
type VendorInput struct {
	Name             string           `json:"name"`
	AlternativeNames []string         `json:"alternative_names"`
	Category         string           `json:"category"`
	MonthlyBudget    *decimal.Decimal `json:"monthly_budget"`
	Active           *bool            `json:"active"`
	Notes            string           `json:"notes"`
}

func (in VendorInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidVendor)
	}
	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidVendor)
	}
	if in.MonthlyBudget == nil {
		return fmt.Errorf("%w: monthly_budget is required", ErrInvalidVendor)
	}
	if in.MonthlyBudget.IsNegative() {
		return fmt.Errorf("%w: monthly_budget must not be negative", ErrInvalidVendor)
	}
	for _, alias := range in.AlternativeNames {
		if strings.TrimSpace(alias) == "" {
			return fmt.Errorf("%w: alternative names must not be empty", ErrInvalidVendor)
		}
	}
	return nil
}

func (in VendorInput) apply(v *models.Vendor) {
	v.Name = strings.TrimSpace(in.Name)
	v.Category = strings.TrimSpace(in.Category)
	v.MonthlyBudget = *in.MonthlyBudget
	v.Notes = strings.TrimSpace(in.Notes)

	aliases := make([]string, 0, len(in.AlternativeNames))
	for _, a := range in.AlternativeNames {
		aliases = append(aliases, strings.TrimSpace(a))
	}
	v.AlternativeNames = datatypes.JSONSlice[string](aliases)

	if in.Active != nil {
		v.Active = *in.Active
	}
}

func (in VendorInput) toVendor(now time.Time) models.Vendor {
	v := models.Vendor{
		ID:        uuid.New(),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(&v)
	return v
}

type VendorFilter struct {
	ActiveOnly bool
	Category   string
	Query      string
}

// ListVendors applies at most one of Query and Category, Query first.
func (s *ReconciliationService) ListVendors(ctx context.Context, f VendorFilter) ([]models.Vendor, error) {
	switch {
	case strings.TrimSpace(f.Query) != "":
		return s.vendors.Search(ctx, strings.TrimSpace(f.Query))
	case f.Category != "":
		return s.vendors.ListByCategory(ctx, f.Category)
	default:
		return s.vendors.List(ctx, f.ActiveOnly)
	}
}

func (s *ReconciliationService) GetVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	return s.vendors.GetByID(ctx, id)
}

func (s *ReconciliationService) CreateVendor(ctx context.Context, in VendorInput) (*models.Vendor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	v := in.toVendor(time.Now())
	if err := s.vendors.Create(ctx, &v); err != nil {
		return nil, fmt.Errorf("CreateVendor: %w", err)
	}
	return &v, nil
}

func (s *ReconciliationService) UpdateVendor(ctx context.Context, id uuid.UUID, in VendorInput) (*models.Vendor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	v, err := s.vendors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(v)
	v.UpdatedAt = time.Now()
	if err := s.vendors.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// DeleteVendor deactivates the vendor. Its transactions keep their mapping.
func (s *ReconciliationService) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	return s.vendors.SoftDelete(ctx, id)
}
