package lead

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/contact", h.SubmitContactForm) // POST /api/v1/contact
	leads := r.Group("/leads")
	{
		leads.POST("", h.SubmitLead)
		leads.POST("/quick", h.QuickCapture)
	}
}

// RegisterAdminRoutes expects r to be behind JWTAuth and AdminOnly.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	leads := r.Group("/leads")
	{
		leads.GET("", h.List)
		leads.GET("/stats", h.Stats)
		leads.POST("", h.Create)
		leads.PATCH("/:id", h.Update)
		leads.DELETE("/:id", h.Delete)
		leads.POST("/:id/link", h.LinkUser)
	}
}
