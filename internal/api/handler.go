package api

import (
	"store-monitor-backend/internal/jobs"
	"store-monitor-backend/internal/store"
)

// ReportSubmitter queues report jobs.
type ReportSubmitter interface {
	Submit() (string, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	reports ReportSubmitter
	tracker *jobs.Tracker
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, reports ReportSubmitter, tracker *jobs.Tracker) *Handler {
	return &Handler{
		store:   s,
		reports: reports,
		tracker: tracker,
	}
}
