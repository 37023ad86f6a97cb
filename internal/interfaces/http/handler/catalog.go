package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/sellerdesk/backend/internal/interfaces/http/dto"
)

// CatalogHandler serves the mirrored catalog.
type CatalogHandler struct {
	BaseHandler
	repo          catalog.Repository
	storeIdentity string
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(repo catalog.Repository, storeIdentity string) *CatalogHandler {
	return &CatalogHandler{repo: repo, storeIdentity: storeIdentity}
}

// List returns every mirrored catalog item, ordered by offer identifier.
func (h *CatalogHandler) List(c *gin.Context) {
	items, err := h.repo.FindAll(c.Request.Context(), h.storeIdentity)
	if err != nil {
		h.Error(c, dto.ErrCodeUnavailable, err.Error())
		return
	}
	h.Success(c, items)
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog", h.List)
}
