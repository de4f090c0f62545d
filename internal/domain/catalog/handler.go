package catalog

import (
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

// ListEpisodes returns the current catalog, newest first.
// @Summary		List episodes
// @Tags		Catalog
// @Produce		json
// @Success		200	{object}	map[string]interface{}
// @Router		/episodes [get]
func (h *Handler) ListEpisodes(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Episodes())
}

// GetEpisode returns one episode by id.
// @Summary		Get episode
// @Tags		Catalog
// @Produce		json
// @Param		id	path	string	true	"episode id"
// @Success		200	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/episodes/{id} [get]
func (h *Handler) GetEpisode(c *gin.Context) {
	e, ok := h.service.Find(c.Param("id"))
	if !ok {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Episode not found")
		return
	}
	response.Success(c, http.StatusOK, e)
}
