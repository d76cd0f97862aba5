package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Dashboard returns the monthly spend report.
func (h *ReconciliationHandler) Dashboard(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}

	data, err := h.service.Dashboard(c.Request.Context(), month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// Sync pulls one calendar month from the provider.
func (h *ReconciliationHandler) Sync(c *gin.Context) {
	var payload struct {
		Year  *int `json:"year"`
		Month *int `json:"month"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Year == nil || payload.Month == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month are required"})
		return
	}

	result, err := h.service.SyncMonth(c.Request.Context(), *payload.Year, time.Month(*payload.Month))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sync completed", "result": result})
}

func (h *ReconciliationHandler) SyncRange(c *gin.Context) {
	var payload struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	start, err := time.Parse(time.DateOnly, payload.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, expected YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(time.DateOnly, payload.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date, expected YYYY-MM-DD"})
		return
	}

	result, err := h.service.SyncRange(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sync completed", "result": result})
}

func (h *ReconciliationHandler) SyncRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	runs, err := h.service.RecentSyncRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": runs})
}

func (h *ReconciliationHandler) ProviderHealth(c *gin.Context) {
	if err := h.service.ProviderHealth(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
