package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-management-backend/internal/model"
	"hostel-management-backend/internal/notification"
)

type reportDamageBody struct {
	FacilityID  int64  `json:"facilityId" binding:"required"`
	StudentID   int64  `json:"studentId" binding:"required"`
	Description string `json:"description" binding:"required,max=1024"`
}

// ReportDamage handles the POST /api/reports request.
func (h *Handler) ReportDamage(c *gin.Context) {
	var body reportDamageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.repairs.Report(c.Request.Context(), body.FacilityID, body.StudentID, body.Description)
	if err != nil {
		abortWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

type updateRepairBody struct {
	RepairStatus model.RepairStatus `json:"repairStatus" binding:"required"`
	RepairUpdate string             `json:"repairUpdate" binding:"omitempty,max=1024"`
}

// UpdateRepairStatus handles the PATCH /api/reports/{report_id} request.
func (h *Handler) UpdateRepairStatus(c *gin.Context) {
	var body updateRepairBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.repairs.UpdateStatus(c.Request.Context(), c.Param("report_id"), body.RepairStatus, body.RepairUpdate)
	if err != nil {
		abortWorkflowError(c, err)
		return
	}

	if h.pool != nil && report.RepairStatus == model.RepairCompleted {
		h.pool.Dispatch(notification.Event{
			Kind:      notification.EventStudentDecision,
			StudentID: report.StudentID,
			Message:   "Your damage report for " + report.FacilityName + " is resolved",
		})
	}
	c.JSON(http.StatusOK, report)
}

// ListReports handles the GET /api/reports request. An optional repairStatus
// query narrows the list.
func (h *Handler) ListReports(c *gin.Context) {
	status := model.RepairStatus(c.Query("repairStatus"))
	if status != "" && !status.Known() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid repairStatus filter"})
		return
	}

	reports, err := h.repairs.List(c.Request.Context(), status)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reports"})
		return
	}
	c.JSON(http.StatusOK, reports)
}
