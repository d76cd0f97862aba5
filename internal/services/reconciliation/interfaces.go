package reconciliation

import (
	"context"
	"time"

	"tooling-spend-tracker/internal/models"
	"tooling-spend-tracker/internal/provider"

	"github.com/google/uuid"
)

// VendorStore is the vendor registry persistence used by the service.
type VendorStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.Vendor, error)
	ListActive(ctx context.Context) ([]models.Vendor, error)
	ListByCategory(ctx context.Context, category string) ([]models.Vendor, error)
	Search(ctx context.Context, term string) ([]models.Vendor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	Create(ctx context.Context, v *models.Vendor) error
	CreateMany(ctx context.Context, vendors []models.Vendor) error
	Update(ctx context.Context, v *models.Vendor) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// TransactionStore is the transaction persistence used by the service.
// BulkInsert must be atomic.
type TransactionStore interface {
	ExistingExternalIDs(ctx context.Context, ids []string) (map[string]bool, error)
	BulkInsert(ctx context.Context, txns []models.Transaction) error
	ListByMonth(ctx context.Context, month string) ([]models.Transaction, error)
	ListByVendorAndMonth(ctx context.Context, vendorID uuid.UUID, month string) ([]models.Transaction, error)
	ListUnmatched(ctx context.Context, month string) ([]models.Transaction, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]models.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	Remap(ctx context.Context, id uuid.UUID, vendorID *uuid.UUID, performedBy, reason string) (*models.Transaction, error)
}

type SyncRunStore interface {
	Create(ctx context.Context, start, end time.Time) (*models.SyncRun, error)
	Complete(ctx context.Context, run *models.SyncRun) error
	Fail(ctx context.Context, id uuid.UUID, stage string, cause error) error
	ListRecent(ctx context.Context, limit int) ([]models.SyncRun, error)
}

// TransactionProvider is the upstream card-transaction source.
type TransactionProvider interface {
	FetchTransactions(ctx context.Context, start, end time.Time) ([]provider.Transaction, error)
	Ping(ctx context.Context) error
}
