package repository

import (
	"context"
	"errors"
	"time"

	"tooling-spend-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	existenceChunk = 500
	insertChunk    = 200
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ExistingExternalIDs returns the subset of ids already stored.
func (r *TransactionRepository) ExistingExternalIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	for start := 0; start < len(ids); start += existenceChunk {
		end := min(start+existenceChunk, len(ids))

		var found []string
		err := r.db.WithContext(ctx).Model(&models.Transaction{}).
			Where("external_id IN ?", ids[start:end]).
			Pluck("external_id", &found).Error
		if err != nil {
			return nil, err
		}
		for _, id := range found {
			existing[id] = true
		}
	}
	return existing, nil
}

// BulkInsert writes all rows in a single database transaction. Either every
// row is stored or none is.
func (r *TransactionRepository) BulkInsert(ctx context.Context, txns []models.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&txns, insertChunk).Error
	})
}

func (r *TransactionRepository) ListByMonth(ctx context.Context, month string) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("month = ?", month).
		Order("date DESC").
		Find(&txns).Error
	return txns, err
}

func (r *TransactionRepository) ListByVendorAndMonth(ctx context.Context, vendorID uuid.UUID, month string) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND month = ?", vendorID, month).
		Order("date DESC").
		Find(&txns).Error
	return txns, err
}

func (r *TransactionRepository) ListUnmatched(ctx context.Context, month string) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("month = ? AND vendor_id IS NULL", month).
		Order("date DESC").
		Find(&txns).Error
	return txns, err
}

// ListByDateRange returns transactions dated in [start, end).
func (r *TransactionRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end).
		Order("date DESC").
		Find(&txns).Error
	return txns, err
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Remap reassigns a transaction's vendor (nil clears it) and records the
// change in the remap log, atomically.
func (r *TransactionRepository) Remap(ctx context.Context, id uuid.UUID, vendorID *uuid.UUID, performedBy, reason string) (*models.Transaction, error) {
	var updated models.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Transaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		if err != nil {
			return err
		}

		confidence := 0.0
		if vendorID != nil {
			confidence = 1
		}
		err = tx.Model(&current).Updates(map[string]interface{}{
			"vendor_id":        vendorID,
			"match_confidence": confidence,
		}).Error
		if err != nil {
			return err
		}

		entry := models.VendorRemapLog{
			ID:             uuid.New(),
			TransactionID:  current.ID,
			PreviousVendor: current.VendorID,
			NewVendor:      vendorID,
			PerformedBy:    performedBy,
			Reason:         reason,
			CreatedAt:      time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		current.VendorID = vendorID
		current.MatchConfidence = confidence
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
