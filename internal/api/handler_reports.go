package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"store-monitor-backend/internal/jobs"
)

// TriggerReport handles POST /trigger_report. The report is computed in the
// background; the response carries only its id.
func (h *Handler) TriggerReport(c *gin.Context) {
	id, err := h.reports.Submit()
	if errors.Is(err, jobs.ErrQueueFull) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Report queue is full, try again later"})
		return
	}
	if err != nil {
		log.Printf("Error submitting report: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to start report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report_id": id})
}

// GetReport handles GET /get_report?report_id=<id>.
func (h *Handler) GetReport(c *gin.Context) {
	job, ok := h.tracker.Get(c.Query("report_id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Invalid report_id"})
		return
	}

	switch job.Status {
	case jobs.StatusRunning:
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, gin.H{"status": string(jobs.StatusRunning)})
	case jobs.StatusComplete:
		if _, err := os.Stat(job.Path); err != nil {
			log.Printf("Report %s file unavailable: %v", job.ID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Error: report file is no longer available"})
			return
		}
		c.FileAttachment(job.Path, fmt.Sprintf("report_%s.csv", job.ID))
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Error: " + job.Error})
	}
}

// GetReportJob handles GET /api/reports/:report_id and describes the job.
func (h *Handler) GetReportJob(c *gin.Context) {
	job, ok := h.tracker.Get(c.Param("report_id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Invalid report_id"})
		return
	}
	if job.Status == jobs.StatusRunning {
		c.Header("Cache-Control", "no-store")
	}
	c.JSON(http.StatusOK, job)
}
