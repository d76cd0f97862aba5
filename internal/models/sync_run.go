package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SyncRunRunning   = "running"
	SyncRunCompleted = "completed"
	SyncRunFailed    = "failed"
)

type SyncRun struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PeriodStart    time.Time  `json:"period_start"`
	PeriodEnd      time.Time  `json:"period_end"`
	Status         string     `gorm:"index" json:"status"`
	FetchedCount   int        `json:"fetched_count"`
	DuplicateCount int        `json:"duplicate_count"`
	InsertedCount  int        `json:"inserted_count"`
	MatchedCount   int        `json:"matched_count"`
	UnmatchedCount int        `json:"unmatched_count"`
	FailedStage    string     `json:"failed_stage,omitempty"`
	Error          string     `json:"error,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
