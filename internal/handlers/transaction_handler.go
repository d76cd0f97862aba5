package handler

import (
	"net/http"
	"strconv"

	service "tooling-spend-tracker/internal/services/reconciliation"
	"tooling-spend-tracker/internal/services/spend"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *ReconciliationHandler) ListTransactions(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	filter := service.TransactionFilter{Month: spend.MonthKey(month)}

	if raw := c.Query("vendor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor ID"})
			return
		}
		filter.VendorID = &id
	}
	if raw := c.Query("unmatched"); raw != "" {
		unmatched, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unmatched flag"})
			return
		}
		filter.UnmatchedOnly = unmatched
	}

	items, err := h.service.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": filter.Month, "items": items})
}

// Suggestions ranks vendors for a raw merchant name.
func (h *ReconciliationHandler) Suggestions(c *gin.Context) {
	merchant := c.Query("merchant")
	if merchant == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "merchant is required"})
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	suggestions, err := h.service.Suggest(c.Request.Context(), merchant, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]gin.H, 0, len(suggestions))
	for _, s := range suggestions {
		items = append(items, gin.H{
			"vendor":       s.Vendor,
			"confidence":   s.Confidence,
			"matched_name": s.MatchedName,
		})
	}
	c.JSON(http.StatusOK, gin.H{"merchant": merchant, "items": items})
}

func (h *ReconciliationHandler) RemapTransaction(c *gin.Context) {
	id, ok := parseID(c, "id", "transaction")
	if !ok {
		return
	}

	var payload struct {
		VendorID    *string `json:"vendor_id"`
		PerformedBy string  `json:"performed_by"`
		Reason      string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.PerformedBy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "performed_by is required"})
		return
	}

	var vendorID *uuid.UUID
	if payload.VendorID != nil {
		vid, err := uuid.Parse(*payload.VendorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor ID"})
			return
		}
		vendorID = &vid
	}

	tx, err := h.service.RemapTransaction(c.Request.Context(), id, vendorID, payload.PerformedBy, payload.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction remapped", "transaction": tx})
}
