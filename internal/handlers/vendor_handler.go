package handler

import (
	"net/http"
	"strconv"

	service "tooling-spend-tracker/internal/services/reconciliation"

	"github.com/gin-gonic/gin"
)

func (h *ReconciliationHandler) ListVendors(c *gin.Context) {
	filter := service.VendorFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}
	if raw := c.Query("active_only"); raw != "" {
		activeOnly, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid active_only flag"})
			return
		}
		filter.ActiveOnly = activeOnly
	}

	vendors, err := h.service.ListVendors(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": vendors})
}

func (h *ReconciliationHandler) GetVendor(c *gin.Context) {
	id, ok := parseID(c, "id", "vendor")
	if !ok {
		return
	}
	v, err := h.service.GetVendor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *ReconciliationHandler) CreateVendor(c *gin.Context) {
	var payload service.VendorInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	v, err := h.service.CreateVendor(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "vendor created", "vendor": v})
}

func (h *ReconciliationHandler) UpdateVendor(c *gin.Context) {
	id, ok := parseID(c, "id", "vendor")
	if !ok {
		return
	}
	var payload service.VendorInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	v, err := h.service.UpdateVendor(c.Request.Context(), id, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vendor updated", "vendor": v})
}

// DeleteVendor deactivates a vendor; it stays in the registry.
func (h *ReconciliationHandler) DeleteVendor(c *gin.Context) {
	id, ok := parseID(c, "id", "vendor")
	if !ok {
		return
	}
	if err := h.service.DeleteVendor(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vendor deactivated"})
}

// UploadVendors imports a vendor CSV sent as multipart field "file".
func (h *ReconciliationHandler) UploadVendors(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	result, err := h.service.ImportVendors(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"file":         header.Filename,
		"vendorsAdded": result.Created,
		"skipped":      result.Skipped,
	})
}
