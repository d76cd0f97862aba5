package repository

import (
	"context"
	"time"

	"tooling-spend-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SyncRunRepository struct {
	db *gorm.DB
}

func NewSyncRunRepository(db *gorm.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Create(ctx context.Context, start, end time.Time) (*models.SyncRun, error) {
	now := time.Now()
	run := &models.SyncRun{
		ID:          uuid.New(),
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      models.SyncRunRunning,
		StartedAt:   now,
		CreatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *SyncRunRepository) Complete(ctx context.Context, run *models.SyncRun) error {
	return r.db.WithContext(ctx).Model(&models.SyncRun{}).
		Where("id = ?", run.ID).
		Updates(map[string]interface{}{
			"status":          models.SyncRunCompleted,
			"fetched_count":   run.FetchedCount,
			"duplicate_count": run.DuplicateCount,
			"inserted_count":  run.InsertedCount,
			"matched_count":   run.MatchedCount,
			"unmatched_count": run.UnmatchedCount,
			"completed_at":    time.Now(),
		}).Error
}

func (r *SyncRunRepository) Fail(ctx context.Context, id uuid.UUID, stage string, cause error) error {
	return r.db.WithContext(ctx).Model(&models.SyncRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.SyncRunFailed,
			"failed_stage": stage,
			"error":        cause.Error(),
			"completed_at": time.Now(),
		}).Error
}

func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]models.SyncRun, error) {
	var runs []models.SyncRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
