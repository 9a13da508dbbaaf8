package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/id"
	"voltbill/internal/domain"
	"voltbill/internal/domain/documents/invoice"
	"voltbill/internal/infrastructure/http/v1/dto"
	"voltbill/internal/infrastructure/storage/postgres"
	"voltbill/pkg/logger"
)

// InvoiceHandler handles HTTP requests for sale invoices. Invoices are
// created posted in a single transaction, so there is no draft/post split.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
	audit   *postgres.AuditService
}

// NewInvoiceHandler creates a new invoice handler.
// audit may be nil; corrections are then not recorded in the audit trail.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service, audit *postgres.AuditService) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
		audit:       audit,
	}
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Create(ctx, req.ToCreateRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromCreateResult(result)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(doc))
}

func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	ctx := c.Request.Context()

	number := c.Param("number")
	if number == "" {
		h.Error(c, apperror.NewValidation("number is required"))
		return
	}

	doc, err := h.service.GetByNumber(ctx, number)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(doc))
}

func (h *InvoiceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := invoice.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date DESC")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if mobile := c.Query("mobile"); mobile != "" {
		filter.CustomerMobile = &mobile
	}

	if paymentType := c.Query("paymentType"); paymentType != "" {
		pt := invoice.PaymentType(paymentType)
		filter.PaymentType = &pt
	}

	if paymentStatus := c.Query("paymentStatus"); paymentStatus != "" {
		ps := invoice.PaymentStatus(paymentStatus)
		filter.PaymentStatus = &ps
	}

	if billedBy := c.Query("billedById"); billedBy != "" {
		filter.BilledByID = &billedBy
	}

	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}

	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.InvoiceResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromInvoice(doc)
	}

	c.JSON(http.StatusOK, dto.InvoiceListResponse{
		Items:      items,
		TotalCount: int(result.TotalCount),
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

func (h *InvoiceHandler) Unpost(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Unpost(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		if err := h.audit.LogChange(ctx, "invoice", docID, postgres.AuditActionUnpost, nil); err != nil {
			logger.Warn(ctx, "audit write failed", "action", "unpost", "invoice_id", docID, "error", err)
		}
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(doc))
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		if err := h.audit.LogChange(ctx, "invoice", docID, postgres.AuditActionDelete, nil); err != nil {
			logger.Warn(ctx, "audit write failed", "action", "delete", "invoice_id", docID, "error", err)
		}
	}

	c.Status(http.StatusNoContent)
}
