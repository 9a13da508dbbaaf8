package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltbill/internal/core/apperror"
	"voltbill/internal/domain/catalogs/customer"
	"voltbill/internal/infrastructure/http/v1/dto"
)

type customerCatalogHandler = CatalogHandler[
	*customer.Customer,
	dto.CreateCustomerRequest,
	dto.UpdateCustomerRequest,
]

// CustomerHandler extends the generic catalog handler with mobile lookup,
// the natural key at the counter.
type CustomerHandler struct {
	*customerCatalogHandler
	service *customer.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	config := CatalogHandlerConfig[
		*customer.Customer,
		dto.CreateCustomerRequest,
		dto.UpdateCustomerRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "customer",
		MapCreateDTO: func(req dto.CreateCustomerRequest) *customer.Customer {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateCustomerRequest, existing *customer.Customer) *customer.Customer {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *customer.Customer) any {
			return dto.FromCustomer(entity)
		},
	}

	return &CustomerHandler{
		customerCatalogHandler: NewCatalogHandler(base, config),
		service:                service,
	}
}

// GetByMobile handles GET /catalogs/customers/by-mobile/:mobile
func (h *CustomerHandler) GetByMobile(c *gin.Context) {
	ctx := c.Request.Context()

	mobile := c.Param("mobile")
	if mobile == "" {
		h.Error(c, apperror.NewValidation("mobile is required"))
		return
	}

	cust, err := h.service.FindByMobile(ctx, mobile)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCustomer(cust))
}
