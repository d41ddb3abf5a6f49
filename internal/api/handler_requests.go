package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-management-backend/internal/model"
	"hostel-management-backend/internal/notification"
)

type submitRequestBody struct {
	StudentID int64 `json:"studentId" binding:"required"`
	RoomID    int64 `json:"roomId" binding:"required"`
}

// SubmitRequest handles the POST /api/requests request.
func (h *Handler) SubmitRequest(c *gin.Context) {
	var body submitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.requests.Submit(c.Request.Context(), body.StudentID, body.RoomID)
	if err != nil {
		abortWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

// ApproveRequest handles the POST /api/requests/{request_id}/approve request.
func (h *Handler) ApproveRequest(c *gin.Context) {
	request, err := h.requests.Approve(c.Request.Context(), c.Param("request_id"))
	if err != nil {
		abortWorkflowError(c, err)
		return
	}

	if h.pool != nil {
		h.pool.Dispatch(notification.Event{
			Kind:      notification.EventStudentDecision,
			StudentID: request.StudentID,
			Message:   "Your room request was approved",
		})
	}
	c.JSON(http.StatusOK, request)
}

// DeclineRequest handles the POST /api/requests/{request_id}/decline request.
func (h *Handler) DeclineRequest(c *gin.Context) {
	request, err := h.requests.Decline(c.Request.Context(), c.Param("request_id"))
	if err != nil {
		abortWorkflowError(c, err)
		return
	}

	if h.pool != nil {
		h.pool.Dispatch(notification.Event{
			Kind:      notification.EventStudentDecision,
			StudentID: request.StudentID,
			Message:   "Your room request was declined",
		})
	}
	c.JSON(http.StatusOK, request)
}

// ListRequests handles the GET /api/requests request. An optional status
// query narrows the list.
func (h *Handler) ListRequests(c *gin.Context) {
	status := model.RequestStatus(c.Query("status"))
	if status != "" && status != model.RequestPending && !status.Terminal() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	requests, err := h.requests.List(c.Request.Context(), status)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve requests"})
		return
	}
	c.JSON(http.StatusOK, requests)
}
