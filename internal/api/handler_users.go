package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thekillingspree/quick-entry/internal/auth"
	"github.com/thekillingspree/quick-entry/internal/model"
	"github.com/thekillingspree/quick-entry/internal/parse"
)

type userSignupRequest struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	TecID    string `json:"tecid" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserSignup registers a new user and returns the user plus a signed token.
func (h *Handler) UserSignup(c *gin.Context) {
	var req userSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide all the required fields"})
		return
	}

	badge, err := parse.Badge(req.TecID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tec ID"})
		return
	}

	hashed, err := h.auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	user := model.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		TecID:    badge,
		Password: hashed,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		writeError(c, err)
		return
	}

	token, err := h.auth.IssueUserToken(&user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": user, "token": token})
}

// UserLogin checks the password and returns a signed token.
func (h *Handler) UserLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide all the required fields"})
		return
	}

	user, err := h.store.UserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		// Do not reveal whether the username exists.
		writeError(c, auth.ErrInvalidCredentials)
		return
	}
	if err := h.auth.CheckPassword(user.Password, req.Password); err != nil {
		writeError(c, err)
		return
	}

	token, err := h.auth.IssueUserToken(&user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": user, "token": token})
}

// GetProfile returns the authenticated user's current room and visit history.
func (h *Handler) GetProfile(c *gin.Context) {
	claims := auth.Identity(c)
	userID, err := claims.AccountID()
	if err != nil {
		writeError(c, auth.ErrInvalidToken)
		return
	}

	profile, err := h.occupancy.UserProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
