package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"store-monitor-backend/internal/store"
)

// GetStores handles GET /api/stores.
func (h *Handler) GetStores(c *gin.Context) {
	summaries, err := h.store.StoreSummaries(c.Request.Context())
	if err != nil {
		log.Printf("Error listing stores: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stores"})
		return
	}
	if summaries == nil {
		summaries = []store.StoreSummary{}
	}
	c.JSON(http.StatusOK, summaries)
}
