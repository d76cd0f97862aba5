package routes

import (
	"net/http"

	handler "tooling-spend-tracker/internal/handlers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, h *handler.ReconciliationHandler) {
	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.GET("/dashboard", h.Dashboard)

	// Provider sync
	sync := api.Group("/sync")
	sync.POST("", h.Sync)
	sync.POST("/range", h.SyncRange)
	sync.GET("/runs", h.SyncRuns)
	api.GET("/provider/health", h.ProviderHealth)

	// Vendor registry
	vendors := api.Group("/vendors")
	{
		vendors.GET("", h.ListVendors)
		vendors.POST("", h.CreateVendor)
		vendors.POST("/upload", h.UploadVendors)
		vendors.GET("/:id", h.GetVendor)
		vendors.PUT("/:id", h.UpdateVendor)
		vendors.DELETE("/:id", h.DeleteVendor)
	}

	// Transactions
	tx := api.Group("/transactions")
	tx.GET("", h.ListTransactions)
	tx.GET("/suggestions", h.Suggestions)
	tx.POST("/:id/remap", h.RemapTransaction)
}
