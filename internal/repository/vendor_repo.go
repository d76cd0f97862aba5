package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"tooling-spend-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// List returns vendors ordered by name, optionally only active ones.
func (r *VendorRepository) List(ctx context.Context, activeOnly bool) ([]models.Vendor, error) {
	var vendors []models.Vendor
	q := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&vendors).Error
	return vendors, err
}

func (r *VendorRepository) ListActive(ctx context.Context) ([]models.Vendor, error) {
	return r.List(ctx, true)
}

// ListByCategory returns active vendors in a category.
func (r *VendorRepository) ListByCategory(ctx context.Context, category string) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.WithContext(ctx).
		Where("active = ? AND LOWER(category) = ?", true, strings.ToLower(category)).
		Order("name ASC").
		Find(&vendors).Error
	return vendors, err
}

// Search matches term against active vendor names and aliases, case-insensitively.
func (r *VendorRepository) Search(ctx context.Context, term string) ([]models.Vendor, error) {
	var vendors []models.Vendor
	like := "%" + strings.ToLower(term) + "%"
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(CAST(alternative_names AS TEXT)) LIKE ?", like, like).
		Order("name ASC").
		Find(&vendors).Error
	return vendors, err
}

func (r *VendorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var v models.Vendor
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVendorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VendorRepository) Create(ctx context.Context, v *models.Vendor) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(v).Error
}

// CreateMany inserts all vendors in one transaction.
func (r *VendorRepository) CreateMany(ctx context.Context, vendors []models.Vendor) error {
	if len(vendors) == 0 {
		return nil
	}
	for i := range vendors {
		if vendors[i].ID == uuid.Nil {
			vendors[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&vendors).Error
	})
}

// Update saves every field of v, including zero values such as Active=false.
func (r *VendorRepository) Update(ctx context.Context, v *models.Vendor) error {
	res := r.db.WithContext(ctx).Model(&models.Vendor{}).
		Where("id = ?", v.ID).
		Select("name", "alternative_names", "category", "monthly_budget", "active", "notes", "updated_at").
		Updates(v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVendorNotFound
	}
	return nil
}

// SoftDelete marks the vendor inactive. Transactions keep their vendor reference.
func (r *VendorRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Vendor{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVendorNotFound
	}
	return nil
}
