package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"tooling-spend-tracker/internal/services/matching"
	"tooling-spend-tracker/internal/services/spend"
)

var (
	ErrProviderNotConfigured = errors.New("transaction provider is not configured")
	ErrInvalidPeriod         = errors.New("invalid sync period")
)

// ReconciliationService wires persistence and the provider around the
// matching and aggregation core. It keeps no derived state between calls:
// every sync and report builds its matcher from a fresh vendor snapshot.
type ReconciliationService struct {
	vendors      VendorStore
	transactions TransactionStore
	runs         SyncRunStore
	provider     TransactionProvider
	matchOpts    matching.Options
	policy       spend.Policy
}

// NewReconciliationService builds the service. provider may be nil, in which
// case sync operations fail with ErrProviderNotConfigured.
func NewReconciliationService(
	vendors VendorStore,
	transactions TransactionStore,
	runs SyncRunStore,
	provider TransactionProvider,
	matchOpts matching.Options,
	policy spend.Policy,
) *ReconciliationService {
	return &ReconciliationService{
		vendors:      vendors,
		transactions: transactions,
		runs:         runs,
		provider:     provider,
		matchOpts:    matchOpts,
		policy:       policy,
	}
}

// ProviderHealth checks connectivity and credentials against the provider.
func (s *ReconciliationService) ProviderHealth(ctx context.Context) error {
	if s.provider == nil {
		return ErrProviderNotConfigured
	}
	return s.provider.Ping(ctx)
}

func (s *ReconciliationService) newMatcher(ctx context.Context) (*matching.Matcher, error) {
	vendors, err := s.vendors.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vendors: %w", err)
	}
	return matching.NewMatcher(vendors, s.matchOpts), nil
}
