package reconciliation

import (
	"context"
	"fmt"
	"time"

	"tooling-spend-tracker/internal/logger"
	"tooling-spend-tracker/internal/models"
	"tooling-spend-tracker/internal/services/matching"
	"tooling-spend-tracker/internal/services/spend"

	"github.com/google/uuid"
)

// Dashboard builds the monthly report for the month containing month. Each
// non-budgeted cluster carries the best vendor suggestion, if any clears the
// suggest threshold.
func (s *ReconciliationService) Dashboard(ctx context.Context, month time.Time) (*spend.DashboardData, error) {
	vendors, err := s.vendors.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: load vendors: %w", err)
	}

	current, err := s.transactions.ListByMonth(ctx, spend.MonthKey(month))
	if err != nil {
		return nil, fmt.Errorf("Dashboard: current month: %w", err)
	}
	prior, err := s.transactions.ListByMonth(ctx, spend.MonthKey(spend.PriorMonth(month)))
	if err != nil {
		return nil, fmt.Errorf("Dashboard: prior month: %w", err)
	}
	ytdStart, ytdEnd := spend.YTDRange(month)
	ytd, err := s.transactions.ListByDateRange(ctx, ytdStart, ytdEnd)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: year to date: %w", err)
	}

	data, err := s.policy.BuildDashboard(vendors, current, prior, ytd, month)
	if err != nil {
		return nil, fmt.Errorf("Dashboard: %w", err)
	}

	matcher := matching.NewMatcher(vendors, s.matchOpts)
	for i := range data.NonBudgetedTooling {
		row := &data.NonBudgetedTooling[i]
		suggestions := matcher.Suggestions(row.MerchantName, 1)
		if len(suggestions) == 0 {
			continue
		}
		v := suggestions[0].Vendor
		row.SuggestedVendor = &v
		row.MatchConfidence = suggestions[0].Confidence
	}

	return data, nil
}

// Suggest ranks active vendors that could own merchantName.
func (s *ReconciliationService) Suggest(ctx context.Context, merchantName string, limit int) ([]matching.Match, error) {
	matcher, err := s.newMatcher(ctx)
	if err != nil {
		return nil, fmt.Errorf("Suggest: %w", err)
	}
	return matcher.Suggestions(merchantName, limit), nil
}

type TransactionFilter struct {
	Month         string
	VendorID      *uuid.UUID
	UnmatchedOnly bool
}

func (s *ReconciliationService) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	parsed, err := spend.ParseMonth(f.Month)
	if err != nil {
		return nil, err
	}
	month := spend.MonthKey(parsed)
	switch {
	case f.VendorID != nil:
		return s.transactions.ListByVendorAndMonth(ctx, *f.VendorID, month)
	case f.UnmatchedOnly:
		return s.transactions.ListUnmatched(ctx, month)
	default:
		return s.transactions.ListByMonth(ctx, month)
	}
}

// RemapTransaction reassigns a stored transaction to vendorID, or clears its
// vendor when vendorID is nil. The change is written to the remap log.
func (s *ReconciliationService) RemapTransaction(ctx context.Context, id uuid.UUID, vendorID *uuid.UUID, performedBy, reason string) (*models.Transaction, error) {
	if vendorID != nil {
		if _, err := s.vendors.GetByID(ctx, *vendorID); err != nil {
			return nil, err
		}
	}

	tx, err := s.transactions.Remap(ctx, id, vendorID, performedBy, reason)
	if err != nil {
		return nil, err
	}

	ev := logger.FromContext(ctx).Info().
		Str("transaction_id", id.String()).
		Str("performed_by", performedBy)
	if vendorID != nil {
		ev = ev.Str("vendor_id", vendorID.String())
	}
	ev.Msg("Transaction remapped")
	return tx, nil
}
