package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public login endpoint.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/admin/auth/login", h.Login)
}

// RegisterProtectedRoutes expects r to be behind JWTAuth and AdminOnly.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/auth/me", h.Me)
}
