package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltbill/internal/domain/catalogs/shop"
	"voltbill/internal/infrastructure/http/v1/dto"
)

type shopCatalogHandler = CatalogHandler[
	*shop.Shop,
	dto.CreateShopRequest,
	dto.UpdateShopRequest,
]

// ShopHandler extends the generic catalog handler with the tenant profile
// shortcut and category list management.
type ShopHandler struct {
	*shopCatalogHandler
	service *shop.Service
}

// NewShopHandler creates a new shop handler.
func NewShopHandler(base *BaseHandler, service *shop.Service) *ShopHandler {
	config := CatalogHandlerConfig[
		*shop.Shop,
		dto.CreateShopRequest,
		dto.UpdateShopRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "shop",
		MapCreateDTO: func(req dto.CreateShopRequest) *shop.Shop {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateShopRequest, existing *shop.Shop) *shop.Shop {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(entity *shop.Shop) any {
			return dto.FromShop(entity)
		},
	}

	return &ShopHandler{
		shopCatalogHandler: NewCatalogHandler(base, config),
		service:            service,
	}
}

// GetProfile handles GET /catalogs/shops/profile: the tenant's own shop
// without knowing its id.
func (h *ShopHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := h.service.GetProfile(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromShop(profile))
}

// AddCategory handles POST /catalogs/shops/profile/categories
func (h *ShopHandler) AddCategory(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AddShopCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	profile, err := h.service.AddCategory(ctx, req.ItemType, req.Category)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromShop(profile)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}
