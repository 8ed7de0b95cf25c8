package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thekillingspree/quick-entry/internal/auth"
	"github.com/thekillingspree/quick-entry/internal/model"
)

type createRoomRequest struct {
	Name       string `json:"name" binding:"required"`
	RoomNumber int    `json:"roomnumber" binding:"required"`
	Capacity   int    `json:"capacity" binding:"required,gt=0"`
}

// CreateRoom handles POST /api/rooms/new. Admin only; the room is created
// with occupancy zero and its name/number must be unique for this admin.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide all fields"})
		return
	}

	claims := auth.Identity(c)
	adminID, err := claims.AccountID()
	if err != nil {
		writeError(c, auth.ErrInvalidToken)
		return
	}

	room := model.Room{
		AdminID:    adminID,
		Name:       req.Name,
		RoomNumber: req.RoomNumber,
		Capacity:   req.Capacity,
	}
	if err := h.store.CreateRoom(c.Request.Context(), &room); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /api/rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoomRoster handles GET /api/rooms/:room_id: room metadata plus the list
// of current occupants derived from open entries.
func (h *Handler) GetRoomRoster(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	roster, err := h.occupancy.RoomRoster(c.Request.Context(), roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

func roomIDParam(c *gin.Context) (int64, bool) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid room ID"})
		return 0, false
	}
	return roomID, true
}
