package reconciliation

import (
	"context"
	"time"

	"tooling-spend-tracker/internal/models"
	"tooling-spend-tracker/internal/provider"
	"tooling-spend-tracker/internal/repository"
	"tooling-spend-tracker/internal/services/matching"
	"tooling-spend-tracker/internal/services/spend"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type fakeVendors struct {
	vendors []models.Vendor
	listErr error
}

func (f *fakeVendors) List(_ context.Context, activeOnly bool) ([]models.Vendor, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Vendor{}
	for _, v := range f.vendors {
		if !activeOnly || v.Active {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVendors) ListActive(ctx context.Context) ([]models.Vendor, error) {
	return f.List(ctx, true)
}

func (f *fakeVendors) ListByCategory(_ context.Context, category string) ([]models.Vendor, error) {
	out := []models.Vendor{}
	for _, v := range f.vendors {
		if v.Category == category {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVendors) Search(_ context.Context, term string) ([]models.Vendor, error) {
	out := []models.Vendor{}
	for _, v := range f.vendors {
		if matching.Similar(matching.Normalize(v.Name), matching.Normalize(term)) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVendors) GetByID(_ context.Context, id uuid.UUID) (*models.Vendor, error) {
	for i := range f.vendors {
		if f.vendors[i].ID == id {
			v := f.vendors[i]
			return &v, nil
		}
	}
	return nil, repository.ErrVendorNotFound
}

func (f *fakeVendors) Create(_ context.Context, v *models.Vendor) error {
	f.vendors = append(f.vendors, *v)
	return nil
}

func (f *fakeVendors) CreateMany(_ context.Context, vendors []models.Vendor) error {
	f.vendors = append(f.vendors, vendors...)
	return nil
}

func (f *fakeVendors) Update(_ context.Context, v *models.Vendor) error {
	for i := range f.vendors {
		if f.vendors[i].ID == v.ID {
			f.vendors[i] = *v
			return nil
		}
	}
	return repository.ErrVendorNotFound
}

func (f *fakeVendors) SoftDelete(_ context.Context, id uuid.UUID) error {
	for i := range f.vendors {
		if f.vendors[i].ID == id {
			f.vendors[i].Active = false
			return nil
		}
	}
	return repository.ErrVendorNotFound
}

type fakeTransactions struct {
	rows      []models.Transaction
	insertErr error
	dedupErr  error
	remaps    []models.VendorRemapLog
}

func (f *fakeTransactions) ExistingExternalIDs(_ context.Context, ids []string) (map[string]bool, error) {
	if f.dedupErr != nil {
		return nil, f.dedupErr
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := map[string]bool{}
	for _, r := range f.rows {
		if want[r.ExternalID] {
			out[r.ExternalID] = true
		}
	}
	return out, nil
}

func (f *fakeTransactions) BulkInsert(_ context.Context, txns []models.Transaction) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append(f.rows, txns...)
	return nil
}

func (f *fakeTransactions) ListByMonth(_ context.Context, month string) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for _, r := range f.rows {
		if r.Month == month {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTransactions) ListByVendorAndMonth(_ context.Context, vendorID uuid.UUID, month string) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for _, r := range f.rows {
		if r.Month == month && r.VendorID != nil && *r.VendorID == vendorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTransactions) ListUnmatched(_ context.Context, month string) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for _, r := range f.rows {
		if r.Month == month && r.VendorID == nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTransactions) ListByDateRange(_ context.Context, start, end time.Time) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for _, r := range f.rows {
		if !r.Date.Before(start) && r.Date.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTransactions) GetByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			r := f.rows[i]
			return &r, nil
		}
	}
	return nil, repository.ErrTransactionNotFound
}

func (f *fakeTransactions) Remap(_ context.Context, id uuid.UUID, vendorID *uuid.UUID, performedBy, reason string) (*models.Transaction, error) {
	for i := range f.rows {
		if f.rows[i].ID != id {
			continue
		}
		f.remaps = append(f.remaps, models.VendorRemapLog{
			ID:             uuid.New(),
			TransactionID:  id,
			PreviousVendor: f.rows[i].VendorID,
			NewVendor:      vendorID,
			PerformedBy:    performedBy,
			Reason:         reason,
		})
		f.rows[i].VendorID = vendorID
		f.rows[i].MatchConfidence = 1
		r := f.rows[i]
		return &r, nil
	}
	return nil, repository.ErrTransactionNotFound
}

type fakeRuns struct {
	runs []*models.SyncRun
}

func (f *fakeRuns) Create(_ context.Context, start, end time.Time) (*models.SyncRun, error) {
	run := &models.SyncRun{
		ID:          uuid.New(),
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      models.SyncRunRunning,
		StartedAt:   time.Now(),
	}
	f.runs = append(f.runs, run)
	return run, nil
}

func (f *fakeRuns) Complete(_ context.Context, run *models.SyncRun) error {
	run.Status = models.SyncRunCompleted
	return nil
}

func (f *fakeRuns) Fail(_ context.Context, id uuid.UUID, stage string, cause error) error {
	for _, r := range f.runs {
		if r.ID == id {
			r.Status = models.SyncRunFailed
			r.FailedStage = stage
			r.Error = cause.Error()
		}
	}
	return nil
}

func (f *fakeRuns) ListRecent(_ context.Context, limit int) ([]models.SyncRun, error) {
	out := []models.SyncRun{}
	for i := len(f.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.runs[i])
	}
	return out, nil
}

type fakeProvider struct {
	txns    []provider.Transaction
	err     error
	pingErr error
	calls   int
}

func (f *fakeProvider) FetchTransactions(_ context.Context, _, _ time.Time) ([]provider.Transaction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.txns, nil
}

func (f *fakeProvider) Ping(context.Context) error {
	return f.pingErr
}

type fixture struct {
	vendors  *fakeVendors
	txns     *fakeTransactions
	runs     *fakeRuns
	provider *fakeProvider
	svc      *ReconciliationService
}

func newFixture(vendors ...models.Vendor) *fixture {
	f := &fixture{
		vendors:  &fakeVendors{vendors: vendors},
		txns:     &fakeTransactions{},
		runs:     &fakeRuns{},
		provider: &fakeProvider{},
	}
	f.svc = NewReconciliationService(f.vendors, f.txns, f.runs, f.provider, matching.DefaultOptions(), spend.DefaultPolicy())
	return f
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func vendor(name, budget string, aliases ...string) models.Vendor {
	return models.Vendor{
		ID:               uuid.New(),
		Name:             name,
		AlternativeNames: datatypes.JSONSlice[string](aliases),
		Category:         "engineering",
		MonthlyBudget:    d(budget),
		Active:           true,
	}
}

func providerTx(id, merchant, amount string, at time.Time) provider.Transaction {
	return provider.Transaction{
		ExternalID:   id,
		MerchantName: merchant,
		Amount:       d(amount),
		OccurredAt:   at,
	}
}
