package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"podcastcrm/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Admin Login
// @Description Authenticate as the site operator and get a JWT
// @Tags Admin Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /admin/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrAccountLocked):
		response.Error(c, http.StatusTooManyRequests, "ACCOUNT_LOCKED", err.Error())
		return
	case errors.Is(err, ErrNotConfigured):
		response.Error(c, http.StatusServiceUnavailable, "ADMIN_DISABLED", err.Error())
		return
	case err != nil:
		response.Error(c, http.StatusUnauthorized, "AUTH_FAILED", "Invalid email or password")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Me echoes the claims of the current token.
func (h *Handler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"email": c.GetString("user_id"),
		"role":  c.GetString("role"),
	})
}
