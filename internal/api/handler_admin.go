package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thekillingspree/quick-entry/internal/auth"
	"github.com/thekillingspree/quick-entry/internal/model"
)

type adminSignupRequest struct {
	Username string `json:"username" binding:"required"`
	FName    string `json:"fname" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// AdminSignup registers a new admin and returns the admin plus a signed token.
func (h *Handler) AdminSignup(c *gin.Context) {
	var req adminSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide all the required fields"})
		return
	}

	hashed, err := h.auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	admin := model.Admin{
		Username: req.Username,
		FName:    req.FName,
		Password: hashed,
	}
	if err := h.store.CreateAdmin(c.Request.Context(), &admin); err != nil {
		writeError(c, err)
		return
	}

	token, err := h.auth.IssueAdminToken(&admin)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": admin, "token": token})
}

// AdminLogin checks the password and returns a signed admin token.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide all the required fields"})
		return
	}

	admin, err := h.store.AdminByUsername(c.Request.Context(), req.Username)
	if err != nil {
		writeError(c, auth.ErrInvalidCredentials)
		return
	}
	if err := h.auth.CheckPassword(admin.Password, req.Password); err != nil {
		writeError(c, err)
		return
	}

	token, err := h.auth.IssueAdminToken(&admin)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "SUCCESS", "code": http.StatusOK, "token": token})
}
