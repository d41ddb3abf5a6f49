package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hostel-management-backend/internal/occupancy"
)

// GetAllocation handles the GET /api/allocation request. Query parameters
// hostel, block and floor narrow the view; absent parameters mean "all".
func (h *Handler) GetAllocation(c *gin.Context) {
	var filter occupancy.Filter

	if raw := c.Query("hostel"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid hostel filter"})
			return
		}
		filter.HostelID = &id
	}
	filter.Block = c.Query("block")
	if raw := c.Query("floor"); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid floor filter"})
			return
		}
		filter.Floor = &floor
	}

	rooms, err := h.store.ListRooms(c.Request.Context(), nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}

	hostels, err := h.store.HostelIndex(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve hostels"})
		return
	}

	c.JSON(http.StatusOK, occupancy.Aggregate(rooms, hostels, filter))
}

// GetRoom handles the GET /api/rooms/{room_id} request.
func (h *Handler) GetRoom(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	room, err := h.store.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve room"})
		}
		return
	}
	c.JSON(http.StatusOK, newRoomResponse(*room))
}

// GetRoomHistory handles the GET /api/rooms/{room_id}/history request.
func (h *Handler) GetRoomHistory(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	snapshots, err := h.store.ListRoomSnapshots(c.Request.Context(), roomID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve occupancy history"})
		return
	}
	c.JSON(http.StatusOK, snapshots)
}
