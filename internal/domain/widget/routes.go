package widget

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, ws *WSHandler) {
	widgets := r.Group("/chat/widgets")
	{
		widgets.POST("", h.CreateWidget)
		widgets.GET("/:id", h.GetWidget)
		widgets.POST("/:id/open", h.OpenWidget)
		widgets.POST("/:id/close", h.CloseWidget)
		widgets.POST("/:id/messages", h.SendMessage)
		widgets.POST("/:id/lead", h.SubmitLead)
		widgets.DELETE("/:id/notification", h.DismissNotification)
		if ws != nil {
			widgets.GET("/:id/ws", ws.HandleWebSocket)
		}
	}
}
