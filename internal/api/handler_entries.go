package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thekillingspree/quick-entry/internal/auth"
	"github.com/thekillingspree/quick-entry/internal/store"
)

// CheckIn handles POST /api/rooms/:room_id/checkin for the authenticated
// user.
func (h *Handler) CheckIn(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	claims := auth.Identity(c)
	userID, err := claims.AccountID()
	if err != nil {
		writeError(c, auth.ErrInvalidToken)
		return
	}

	result, err := h.occupancy.CheckIn(c.Request.Context(), userID, roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckOut handles POST /api/rooms/:room_id/checkout for the authenticated
// user. Responds with the visit duration in milliseconds.
func (h *Handler) CheckOut(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	claims := auth.Identity(c)
	userID, err := claims.AccountID()
	if err != nil {
		writeError(c, auth.ErrInvalidToken)
		return
	}

	result, err := h.occupancy.CheckOut(c.Request.Context(), userID, roomID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type scanRequest struct {
	Credential string `json:"credential" binding:"required"`
	RoomID     int64  `json:"roomId" binding:"required"`
}

// Scan handles POST /api/entries/scan: a badge scan at a room's reader,
// performed by an admin station. The badge is resolved to a user; a user
// outside is checked in, a user inside the scanned room is checked out.
func (h *Handler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide all fields"})
		return
	}

	ctx := c.Request.Context()
	userID, err := h.resolver.Resolve(ctx, req.Credential)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.occupancy.CheckIn(ctx, userID, req.RoomID)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"action": "checkin", "result": result})
		return
	}
	if !errors.Is(err, store.ErrAlreadyEntered) {
		writeError(c, err)
		return
	}

	// Second scan at the same room toggles the user back out.
	out, err := h.occupancy.CheckOut(ctx, userID, req.RoomID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"action": "checkout", "result": out})
}
