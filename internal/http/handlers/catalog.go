package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifewheel-backend/internal/http/response"
	"github.com/yungbote/lifewheel-backend/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListLifeAreas(c *gin.Context) {
	areas, err := h.catalog.ListLifeAreas(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, areas)
}

func (h *CatalogHandler) ListSubcategories(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	subs, err := h.catalog.ListSubcategories(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, subs)
}

func (h *CatalogHandler) ListQuestions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	questions, err := h.catalog.ListQuestions(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondOK(c, questions)
}
