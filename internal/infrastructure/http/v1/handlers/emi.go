package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
	"voltbill/internal/domain"
	"voltbill/internal/domain/documents/emi"
	"voltbill/internal/infrastructure/http/v1/dto"
)

// EMIHandler handles HTTP requests for EMI loans. EMIs are opened by the
// invoice pipeline; this handler only serves reads and lifecycle actions.
type EMIHandler struct {
	*BaseHandler
	service *emi.Service
}

// NewEMIHandler creates a new EMI handler.
func NewEMIHandler(base *BaseHandler, service *emi.Service) *EMIHandler {
	return &EMIHandler{
		BaseHandler: base,
		service:     service,
	}
}

func (h *EMIHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	emiID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, payments, err := h.service.GetWithPayments(ctx, emiID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEMIWithPayments(doc, payments))
}

func (h *EMIHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := emi.ListFilter{
		ListFilter: domain.DefaultListFilter(),
	}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "date DESC")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if status := c.Query("status"); status != "" {
		st := emi.Status(status)
		filter.Status = &st
	}

	if mobile := c.Query("mobile"); mobile != "" {
		filter.Mobile = &mobile
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

	items := make([]*dto.EMIResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromEMI(doc)
	}

	c.JSON(http.StatusOK, dto.EMIListResponse{
		Items:      items,
		TotalCount: int(result.TotalCount),
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

func (h *EMIHandler) RecordPayment(c *gin.Context) {
	ctx := c.Request.Context()

	emiID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.RecordEMIPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.RecordPayment(ctx, emiID, types.MinorUnits(req.Amount), emi.PaymentMode(req.Mode), req.Remarks)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromEMI(doc)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

func (h *EMIHandler) MarkDefaulted(c *gin.Context) {
	ctx := c.Request.Context()

	emiID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.MarkDefaulted(ctx, emiID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEMI(doc))
}

// Due lists active EMIs whose next installment falls before the given date,
// defaulting to now (i.e. overdue loans).
func (h *EMIHandler) Due(c *gin.Context) {
	ctx := c.Request.Context()

	due := time.Now()
	if before := c.Query("before"); before != "" {
		parsed, err := time.Parse(time.RFC3339, before)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid before date, expected RFC3339"))
			return
		}
		due = parsed
	}

	docs, err := h.service.ListDueBefore(ctx, due)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.EMIResponse, len(docs))
	for i, doc := range docs {
		items[i] = dto.FromEMI(doc)
	}

	c.JSON(http.StatusOK, dto.EMIListResponse{
		Items:      items,
		TotalCount: len(items),
		Limit:      len(items),
		Offset:     0,
	})
}
