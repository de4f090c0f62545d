package catalog

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	episodes := r.Group("/episodes")
	{
		episodes.GET("", h.ListEpisodes)   // GET /api/v1/episodes
		episodes.GET("/:id", h.GetEpisode) // GET /api/v1/episodes/:id
	}
}
