package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tooling-spend-tracker/internal/logger"
	"tooling-spend-tracker/internal/models"
	"tooling-spend-tracker/internal/provider"
	"tooling-spend-tracker/internal/services/matching"
	"tooling-spend-tracker/internal/services/spend"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StageStart       = "start"
	StageLoadVendors = "load_vendors"
	StageFetch       = "fetch"
	StageDedup       = "dedup"
	StageMatch       = "match"
	StagePersist     = "persist"
)

// SyncError reports which stage of a sync failed. Nothing is written when a
// sync fails.
type SyncError struct {
	Stage string
	Err   error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync failed at %s: %v", e.Stage, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

type SyncResult struct {
	RunID      uuid.UUID `json:"run_id"`
	Fetched    int       `json:"fetched"`
	Duplicates int       `json:"duplicates"`
	Inserted   int       `json:"inserted"`
	Matched    int       `json:"matched"`
	Unmatched  int       `json:"unmatched"`
}

// SyncMonth pulls one calendar month from the provider.
func (s *ReconciliationService) SyncMonth(ctx context.Context, year int, month time.Month) (*SyncResult, error) {
	if month < time.January || month > time.December || year < 1 {
		return nil, fmt.Errorf("%w: %d-%02d", ErrInvalidPeriod, year, int(month))
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.SyncRange(ctx, start, start.AddDate(0, 1, -1))
}

// SyncRange pulls transactions dated start..end (inclusive days), drops
// those already stored, matches the rest against the active vendors and
// inserts them in one atomic batch.
func (s *ReconciliationService) SyncRange(ctx context.Context, start, end time.Time) (*SyncResult, error) {
	if s.provider == nil {
		return nil, ErrProviderNotConfigured
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s before start %s", ErrInvalidPeriod, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	log := logger.FromContext(ctx).With().
		Str("period_start", start.Format(time.DateOnly)).
		Str("period_end", end.Format(time.DateOnly)).
		Logger()

	run, err := s.runs.Create(ctx, start, end)
	if err != nil {
		return nil, &SyncError{Stage: StageStart, Err: err}
	}
	log = log.With().Str("run_id", run.ID.String()).Logger()
	log.Info().Msg("Sync started")

	if stage, err := s.syncRun(ctx, run, start, end); err != nil {
		if ferr := s.runs.Fail(ctx, run.ID, stage, err); ferr != nil {
			log.Error().Err(ferr).Msg("Failed to record sync failure")
		}
		log.Error().Err(err).Str("stage", stage).Msg("Sync failed")
		return nil, &SyncError{Stage: stage, Err: err}
	}

	if err := s.runs.Complete(ctx, run); err != nil {
		log.Error().Err(err).Msg("Failed to record sync completion")
	}

	log.Info().
		Int("fetched", run.FetchedCount).
		Int("duplicates", run.DuplicateCount).
		Int("inserted", run.InsertedCount).
		Int("matched", run.MatchedCount).
		Int("unmatched", run.UnmatchedCount).
		Msg("Sync completed")

	return &SyncResult{
		RunID:      run.ID,
		Fetched:    run.FetchedCount,
		Duplicates: run.DuplicateCount,
		Inserted:   run.InsertedCount,
		Matched:    run.MatchedCount,
		Unmatched:  run.UnmatchedCount,
	}, nil
}

// syncRun fills run's counters and returns the failing stage on error.
func (s *ReconciliationService) syncRun(ctx context.Context, run *models.SyncRun, start, end time.Time) (string, error) {
	vendors, err := s.vendors.ListActive(ctx)
	if err != nil {
		return StageLoadVendors, err
	}

	fetched, err := s.provider.FetchTransactions(ctx, start, end)
	if err != nil {
		return StageFetch, err
	}
	run.FetchedCount = len(fetched)

	fresh, err := s.dropKnown(ctx, fetched)
	if err != nil {
		return StageDedup, err
	}
	run.DuplicateCount = len(fetched) - len(fresh)
	if len(fresh) == 0 {
		return "", nil
	}

	matcher := matching.NewMatcher(vendors, s.matchOpts)
	items := make([]matching.Item, len(fresh))
	for i, p := range fresh {
		items[i] = matching.Item{ID: p.ExternalID, MerchantName: p.MerchantName}
	}
	matches := matcher.MatchBatch(items)

	now := time.Now()
	rows := make([]models.Transaction, 0, len(fresh))
	for _, p := range fresh {
		row, err := s.toTransaction(p, matches[p.ExternalID], run.ID, now)
		if err != nil {
			run.MatchedCount, run.UnmatchedCount = 0, 0
			return StageMatch, err
		}
		if row.Matched() {
			run.MatchedCount++
		} else {
			run.UnmatchedCount++
		}
		rows = append(rows, row)
	}

	if err := s.transactions.BulkInsert(ctx, rows); err != nil {
		run.MatchedCount, run.UnmatchedCount = 0, 0
		return StagePersist, err
	}
	run.InsertedCount = len(rows)
	return "", nil
}

// dropKnown removes records already stored and repeats within the batch,
// keeping the first occurrence.
func (s *ReconciliationService) dropKnown(ctx context.Context, fetched []provider.Transaction) ([]provider.Transaction, error) {
	ids := make([]string, 0, len(fetched))
	for _, p := range fetched {
		ids = append(ids, p.ExternalID)
	}
	existing, err := s.transactions.ExistingExternalIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(fetched))
	fresh := make([]provider.Transaction, 0, len(fetched))
	for _, p := range fetched {
		if existing[p.ExternalID] || seen[p.ExternalID] {
			continue
		}
		seen[p.ExternalID] = true
		fresh = append(fresh, p)
	}
	return fresh, nil
}

// matchDetails is stored with every transaction to explain its mapping.
type matchDetails struct {
	NormalizedMerchant string  `json:"normalized_merchant"`
	MatchThreshold     float64 `json:"match_threshold"`
	Matched            bool    `json:"matched"`
	VendorID           string  `json:"vendor_id,omitempty"`
	VendorName         string  `json:"vendor_name,omitempty"`
	MatchedName        string  `json:"matched_name,omitempty"`
	Confidence         float64 `json:"confidence,omitempty"`
}

func (s *ReconciliationService) toTransaction(p provider.Transaction, m *matching.Match, runID uuid.UUID, now time.Time) (models.Transaction, error) {
	details := matchDetails{
		NormalizedMerchant: matching.Normalize(p.MerchantName),
		MatchThreshold:     s.matchOpts.MatchThreshold,
		Matched:            m != nil,
	}

	row := models.Transaction{
		ID:           uuid.New(),
		ExternalID:   p.ExternalID,
		MerchantName: p.MerchantName,
		Amount:       p.Amount,
		Date:         p.OccurredAt.UTC(),
		Month:        spend.MonthKey(p.OccurredAt),
		Description:  p.Memo,
		Category:     p.Category,
		CardLastFour: p.CardSuffix,
		EmployeeName: p.EmployeeName,
		SyncRunID:    &runID,
		CreatedAt:    now,
	}

	if m != nil {
		vendorID := m.Vendor.ID
		row.VendorID = &vendorID
		row.MatchConfidence = m.Confidence
		details.VendorID = vendorID.String()
		details.VendorName = m.Vendor.Name
		details.MatchedName = m.MatchedName
		details.Confidence = m.Confidence
	}

	// fails only for non-finite scores from a custom Scorer
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("match details for %s: %w", p.ExternalID, err)
	}
	row.MatchDetails = datatypes.JSON(detailsJSON)
	return row, nil
}

// RecentSyncRuns lists the latest sync runs, newest first.
func (s *ReconciliationService) RecentSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.runs.ListRecent(ctx, limit)
}
