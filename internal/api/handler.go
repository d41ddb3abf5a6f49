package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"hostel-management-backend/internal/notification"
	"hostel-management-backend/internal/store"
	"hostel-management-backend/internal/workflow"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	requests *workflow.RequestService
	repairs  *workflow.RepairService
	pool     *notification.WorkerPool
	webpush  *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, pool *notification.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:    s,
		requests: workflow.NewRequestService(s.DB()),
		repairs:  workflow.NewRepairService(s.DB()),
		pool:     pool,
		webpush:  webpushOptions,
	}
}

// abortWorkflowError maps a workflow failure to a distinct status and
// message. Callers need "room is full" and "request no longer pending" to
// read differently, so the sentinel text is always surfaced.
func abortWorkflowError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrCapacityExceeded),
		errors.Is(err, workflow.ErrDuplicateRequest):
		status = http.StatusConflict
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
