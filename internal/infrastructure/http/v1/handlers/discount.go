package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/id"
	"voltbill/internal/domain/catalogs/discount"
	"voltbill/internal/infrastructure/http/v1/dto"
)

type discountCatalogHandler = CatalogHandler[
	*discount.Discount,
	dto.CreateDiscountRequest,
	dto.UpdateDiscountRequest,
]

// DiscountHandler extends the generic catalog handler with rule
// activation toggles.
type DiscountHandler struct {
	*discountCatalogHandler
	service *discount.Service
}

// NewDiscountHandler creates a new discount handler.
func NewDiscountHandler(base *BaseHandler, service *discount.Service) *DiscountHandler {
	config := CatalogHandlerConfig[
		*discount.Discount,
		dto.CreateDiscountRequest,
		dto.UpdateDiscountRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "discount",
		MapCreateDTO: func(req dto.CreateDiscountRequest) *discount.Discount {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateDiscountRequest, existing *discount.Discount) *discount.Discount {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *discount.Discount) any {
			return dto.FromDiscount(entity)
		},
	}

	return &DiscountHandler{
		discountCatalogHandler: NewCatalogHandler(base, config),
		service:                service,
	}
}

// setActive backs POST /catalogs/discounts/:id/activate and /deactivate.
func (h *DiscountHandler) setActive(c *gin.Context, active bool) {
	ctx := c.Request.Context()

	discountID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	d, err := h.service.GetByID(ctx, discountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.SetActive(ctx, d.Code, active); err != nil {
		h.Error(c, err)
		return
	}

	d, err = h.service.GetByID(ctx, discountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromDiscount(d))
}

func (h *DiscountHandler) Activate(c *gin.Context)   { h.setActive(c, true) }
func (h *DiscountHandler) Deactivate(c *gin.Context) { h.setActive(c, false) }
