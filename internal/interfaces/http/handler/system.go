package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence"
	"github.com/sellerdesk/backend/internal/interfaces/http/dto"
)

// SystemHandler serves liveness and readiness endpoints.
type SystemHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health reports whether the local store is reachable.
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		h.Error(c, dto.ErrCodeUnavailable, err.Error())
		return
	}
	h.Success(c, gin.H{"status": "ok"})
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}
