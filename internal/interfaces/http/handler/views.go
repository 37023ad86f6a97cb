package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sellerdesk/backend/internal/application/views"
	"github.com/sellerdesk/backend/internal/interfaces/http/dto"
)

// defaultSalesPeriod is how far back the sales view reaches when the caller
// gives no period.
const defaultSalesPeriod = 30 * 24 * time.Hour

// ViewsHandler serves the derived stock and sales views.
type ViewsHandler struct {
	BaseHandler
	stockService  *views.StockService
	salesService  *views.SalesService
	storeIdentity string
}

// NewViewsHandler creates a new ViewsHandler
func NewViewsHandler(stockService *views.StockService, salesService *views.SalesService, storeIdentity string) *ViewsHandler {
	return &ViewsHandler{
		stockService:  stockService,
		salesService:  salesService,
		storeIdentity: storeIdentity,
	}
}

// Stock returns the stock-by-warehouse view.
func (h *ViewsHandler) Stock(c *gin.Context) {
	rows, err := h.stockService.StockByWarehouse(c.Request.Context(), h.storeIdentity)
	if err != nil {
		h.Error(c, dto.ErrCodeUnavailable, err.Error())
		return
	}
	h.Success(c, rows)
}

// Sales returns the sales-by-posting view. since and to are RFC 3339
// timestamps; the period defaults to the last 30 days.
func (h *ViewsHandler) Sales(c *gin.Context) {
	since := c.Query("since")
	to := c.Query("to")
	if since == "" && to == "" {
		now := time.Now().UTC()
		since = now.Add(-defaultSalesPeriod).Format(time.RFC3339)
		to = now.Format(time.RFC3339)
	}
	if err := validatePeriod(since, to); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.salesService.SalesByPosting(c.Request.Context(), since, to)
	if err != nil {
		h.Error(c, dto.ErrCodeUpstream, err.Error())
		return
	}
	h.Success(c, result)
}

func validatePeriod(since, to string) error {
	for _, value := range []string{since, to} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return err
		}
	}
	return nil
}

// RegisterRoutes registers view routes
func (h *ViewsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	v := rg.Group("/views")
	{
		v.GET("/stock", h.Stock)
		v.GET("/sales", h.Sales)
	}
}
