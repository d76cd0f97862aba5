package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"tooling-spend-tracker/internal/logger"
	"tooling-spend-tracker/internal/models"
	"tooling-spend-tracker/internal/provider"
	"tooling-spend-tracker/internal/repository"
	"tooling-spend-tracker/internal/services/matching"
	service "tooling-spend-tracker/internal/services/reconciliation"
	"tooling-spend-tracker/internal/services/spend"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReconciliationService is the subset of the reconciliation service the
// HTTP layer calls.
type ReconciliationService interface {
	SyncMonth(ctx context.Context, year int, month time.Month) (*service.SyncResult, error)
	SyncRange(ctx context.Context, start, end time.Time) (*service.SyncResult, error)
	RecentSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error)
	ProviderHealth(ctx context.Context) error
	Dashboard(ctx context.Context, month time.Time) (*spend.DashboardData, error)
	Suggest(ctx context.Context, merchantName string, limit int) ([]matching.Match, error)
	ListTransactions(ctx context.Context, f service.TransactionFilter) ([]models.Transaction, error)
	RemapTransaction(ctx context.Context, id uuid.UUID, vendorID *uuid.UUID, performedBy, reason string) (*models.Transaction, error)
	ListVendors(ctx context.Context, f service.VendorFilter) ([]models.Vendor, error)
	GetVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	CreateVendor(ctx context.Context, in service.VendorInput) (*models.Vendor, error)
	UpdateVendor(ctx context.Context, id uuid.UUID, in service.VendorInput) (*models.Vendor, error)
	DeleteVendor(ctx context.Context, id uuid.UUID) error
	ImportVendors(ctx context.Context, r io.Reader) (*service.ImportResult, error)
}

type ReconciliationHandler struct {
	service ReconciliationService
}

func NewReconciliationHandler(s ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: s}
}

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var apiErr *provider.APIError
	var syncErr *service.SyncError

	switch {
	case errors.Is(err, spend.ErrInvalidMonth),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrInvalidVendor),
		errors.Is(err, service.ErrInvalidCSV):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrVendorNotFound),
		errors.Is(err, repository.ErrTransactionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrProviderNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.As(err, &apiErr),
		errors.Is(err, provider.ErrMalformedPayload),
		errors.As(err, &syncErr) && syncErr.Stage == service.StageFetch:
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + label + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// monthParam reads the required ?month=YYYY-MM query parameter.
func monthParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("month")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month is required, expected YYYY-MM"})
		return time.Time{}, false
	}
	month, err := spend.ParseMonth(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, false
	}
	return month, true
}
