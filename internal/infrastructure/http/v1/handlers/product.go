package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/id"
	"voltbill/internal/domain"
	"voltbill/internal/domain/catalogs/product"
	"voltbill/internal/infrastructure/http/v1/dto"
)

type productCatalogHandler = CatalogHandler[
	*product.Product,
	dto.CreateProductRequest,
	dto.UpdateProductRequest,
]

// ProductHandler extends the generic catalog handler with stock-aware reads
// and SKU lookup.
type ProductHandler struct {
	*productCatalogHandler
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	config := CatalogHandlerConfig[
		*product.Product,
		dto.CreateProductRequest,
		dto.UpdateProductRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "product",
		MapCreateDTO: func(req dto.CreateProductRequest) *product.Product {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *product.Product) any {
			return dto.FromProduct(entity)
		},
	}

	return &ProductHandler{
		productCatalogHandler: NewCatalogHandler(base, config),
		service:               service,
	}
}

// Get overrides the generic read to include the on-hand stock quantity.
func (h *ProductHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	p, err := h.service.GetWithStock(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromProduct(p))
}

// List overrides the generic listing to include stock quantities.
func (h *ProductHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "name")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	result, err := h.service.ListWithStock(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromProduct(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// GetBySKU handles GET /catalogs/products/by-sku/:sku
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	ctx := c.Request.Context()

	sku := c.Param("sku")
	if sku == "" {
		h.Error(c, apperror.NewValidation("sku is required"))
		return
	}

	p, err := h.service.FindBySKU(ctx, sku)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromProduct(p))
}
