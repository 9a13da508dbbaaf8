package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voltbill/internal/core/apperror"
	"voltbill/internal/domain/reports"
	"voltbill/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for dashboard reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// parseDate parses an optional RFC3339 query date, reporting validity.
func (h *ReportsHandler) parseDate(c *gin.Context, raw, field string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+field+" format, expected RFC3339"))
		return time.Time{}, false
	}
	return parsed, true
}

// GetSalesSummary handles GET /reports/sales-summary
func (h *ReportsHandler) GetSalesSummary(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SalesSummaryRequest
	if !h.BindQuery(c, &req) {
		return
	}

	var filter reports.SalesSummaryFilter
	var ok bool
	if filter.FromDate, ok = h.parseDate(c, req.FromDate, "fromDate"); !ok {
		return
	}
	if filter.ToDate, ok = h.parseDate(c, req.ToDate, "toDate"); !ok {
		return
	}

	summary, err := h.service.GetSalesSummary(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSalesSummary(summary))
}

// GetTopProducts handles GET /reports/top-products
func (h *ReportsHandler) GetTopProducts(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TopProductsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := reports.TopProductsFilter{
		OrderBy: req.OrderBy,
		Limit:   req.Limit,
	}
	var ok bool
	if filter.FromDate, ok = h.parseDate(c, req.FromDate, "fromDate"); !ok {
		return
	}
	if filter.ToDate, ok = h.parseDate(c, req.ToDate, "toDate"); !ok {
		return
	}

	report, err := h.service.GetTopProducts(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTopProductsReport(report))
}

// GetLowStock handles GET /reports/low-stock
func (h *ReportsHandler) GetLowStock(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LowStockRequest
	if !h.BindQuery(c, &req) {
		return
	}

	report, err := h.service.GetLowStock(ctx, reports.LowStockFilter{
		Threshold: req.Threshold,
		Limit:     req.Limit,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromLowStockReport(report))
}

// GetEMIDues handles GET /reports/emi-dues
func (h *ReportsHandler) GetEMIDues(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.EMIDuesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := reports.EMIDuesFilter{
		HorizonDays: req.HorizonDays,
		Limit:       req.Limit,
	}
	var ok bool
	if filter.AsOf, ok = h.parseDate(c, req.AsOf, "asOf"); !ok {
		return
	}

	report, err := h.service.GetEMIDues(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEMIDuesReport(report))
}

// GetDashboard handles GET /reports/dashboard
func (h *ReportsHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	dashboard, err := h.service.GetDashboard(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDashboard(dashboard))
}
