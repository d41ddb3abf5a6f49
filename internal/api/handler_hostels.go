package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hostel-management-backend/internal/model"
	"hostel-management-backend/internal/occupancy"
	"hostel-management-backend/internal/parse"
)

// HostelResponse represents the API response for a single hostel.
type HostelResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Campus         string `json:"campus"`
	Gender         string `json:"gender"`
	RoomCount      int    `json:"roomCount"`
	TotalCapacity  int    `json:"totalCapacity"`
	TotalOccupancy int    `json:"totalOccupancy"`
	AvailableBeds  int    `json:"availableBeds"`
}

// GetHostels handles the GET /api/hostels request.
func (h *Handler) GetHostels(c *gin.Context) {
	hostels, err := h.store.ListHostels(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve hostels"})
		return
	}

	rooms, err := h.store.ListRooms(c.Request.Context(), nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}

	type agg struct {
		roomCount int
		capacity  int
		occupancy int
	}
	aggMap := make(map[int64]agg, len(hostels))
	for _, room := range rooms {
		d := occupancy.Derive(room)
		a := aggMap[room.HostelID]
		a.roomCount++
		a.capacity += room.Capacity
		a.occupancy += d.Occupancy
		aggMap[room.HostelID] = a
	}

	responses := make([]HostelResponse, 0, len(hostels))
	for _, hostel := range hostels {
		a := aggMap[hostel.ID]
		available := a.capacity - a.occupancy
		if available < 0 {
			available = 0
		}
		responses = append(responses, HostelResponse{
			ID:             hostel.ID,
			Name:           hostel.Name,
			Campus:         hostel.Campus,
			Gender:         hostel.Gender,
			RoomCount:      a.roomCount,
			TotalCapacity:  a.capacity,
			TotalOccupancy: a.occupancy,
			AvailableBeds:  available,
		})
	}
	c.JSON(http.StatusOK, responses)
}

// roomResponse is a room flattened together with its derived occupancy.
type roomResponse struct {
	model.Room
	occupancy.Derived
}

func newRoomResponse(room model.Room) roomResponse {
	return roomResponse{Room: room, Derived: occupancy.Derive(room)}
}

// GetHostelRooms handles the GET /api/hostels/{hostel_id}/rooms request.
func (h *Handler) GetHostelRooms(c *gin.Context) {
	hostelID, err := strconv.ParseInt(c.Param("hostel_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid hostel ID"})
		return
	}

	if _, err := h.store.GetHostel(c.Request.Context(), hostelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Hostel not found"})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve hostel"})
		}
		return
	}

	rooms, err := h.store.ListRooms(c.Request.Context(), &hostelID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rooms"})
		return
	}

	responses := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		responses = append(responses, newRoomResponse(room))
	}
	c.JSON(http.StatusOK, responses)
}

type createRoomRequest struct {
	RoomNumber string `json:"roomNumber" binding:"required,min=1,max=32"`
	Capacity   int    `json:"capacity" binding:"required,gt=0"`
	Block      string `json:"block" binding:"omitempty,max=32"`
	Floor      *int   `json:"floor" binding:"omitempty,gte=0"`
	Facilities string `json:"facilities" binding:"omitempty,max=512"`
}

// CreateRoom handles the POST /api/hostels/{hostel_id}/rooms request. Block
// and floor fall back to values parsed from the room number when omitted.
func (h *Handler) CreateRoom(c *gin.Context) {
	hostelID, err := strconv.ParseInt(c.Param("hostel_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid hostel ID"})
		return
	}

	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.GetHostel(c.Request.Context(), hostelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Hostel not found"})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve hostel"})
		}
		return
	}

	room := model.Room{
		HostelID:   hostelID,
		RoomNumber: req.RoomNumber,
		Block:      req.Block,
		Capacity:   req.Capacity,
		Facilities: req.Facilities,
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}

	if room.Block == "" || req.Floor == nil {
		if parsed, err := parse.ParseRoomNumber(req.RoomNumber); err == nil {
			if room.Block == "" {
				room.Block = parsed.Block
			}
			if req.Floor == nil {
				room.Floor = parsed.Floor
			}
		}
	}

	if err := h.store.CreateRoom(c.Request.Context(), &room); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}
	c.JSON(http.StatusCreated, newRoomResponse(room))
}
