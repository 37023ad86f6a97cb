package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	syncapp "github.com/sellerdesk/backend/internal/application/sync"
	"github.com/sellerdesk/backend/internal/interfaces/http/dto"
)

// SyncHandler exposes the synchronization operations.
type SyncHandler struct {
	BaseHandler
	syncService *syncapp.Service
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService *syncapp.Service) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// CredentialCheck verifies the configured credential pair. A rejected
// credential is a completed check, not an HTTP error, so the outcome always
// comes back with status 200.
func (h *SyncHandler) CredentialCheck(c *gin.Context) {
	h.Success(c, h.syncService.RunCredentialCheck(c.Request.Context()))
}

// CatalogSync runs a full catalog and placement sync.
func (h *SyncHandler) CatalogSync(c *gin.Context) {
	result := h.syncService.RunCatalogSync(c.Request.Context())
	if !result.OK {
		h.Error(c, dto.ErrCodeUpstream, result.Error)
		return
	}
	h.Success(c, result)
}

// ListRuns returns the most recent sync run log rows.
func (h *SyncHandler) ListRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := h.syncService.ListRecentRuns(c.Request.Context(), limit)
	if err != nil {
		h.Error(c, dto.ErrCodeUnavailable, err.Error())
		return
	}
	h.Success(c, runs)
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/credential-check", h.CredentialCheck)
		sync.POST("/catalog", h.CatalogSync)
		sync.GET("/runs", h.ListRuns)
	}
}
