// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"voltbill/internal/core/numerator"
	"voltbill/internal/core/security"
	"voltbill/internal/core/tenant"
	"voltbill/internal/domain/auth"
	"voltbill/internal/domain/catalogs/customer"
	"voltbill/internal/domain/catalogs/discount"
	"voltbill/internal/domain/catalogs/product"
	"voltbill/internal/domain/catalogs/shop"
	"voltbill/internal/domain/catalogs/supplier"
	"voltbill/internal/domain/documents/emi"
	"voltbill/internal/domain/documents/invoice"
	"voltbill/internal/domain/registers/stock"
	"voltbill/internal/domain/reports"
	"voltbill/internal/infrastructure/http/v1/handlers"
	"voltbill/internal/infrastructure/http/v1/middleware"
	"voltbill/internal/infrastructure/storage/postgres"
	"voltbill/internal/infrastructure/storage/postgres/catalog_repo"
	"voltbill/internal/infrastructure/storage/postgres/document_repo"
	"voltbill/internal/infrastructure/storage/postgres/register_repo"
	"voltbill/internal/infrastructure/storage/postgres/report_repo"
	"voltbill/internal/metadata"
	"voltbill/pkg/logger"
)

// RouterConfig holds router configuration for multi-tenant architecture.
type RouterConfig struct {
	// TenantManager manages database connections for all tenants
	TenantManager *tenant.Manager

	// MetaPool is connection to meta-database (for health checks)
	MetaPool *pgxpool.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints and session checks
	AuthService *auth.Service

	// Numerator for document number generation
	Numerator numerator.Generator

	// PostingPolicy guards posting/unposting into closed periods
	PostingPolicy security.PostingPolicy

	// IdempotencyEnabled enables idempotency middleware
	IdempotencyEnabled bool

	// MetadataRegistry stores entity definitions
	MetadataRegistry *metadata.Registry
}

// NewRouter creates and configures the Gin router for multi-tenant architecture.
func NewRouter(cfg RouterConfig) *gin.Engine {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth, no tenant required)
	healthHandler := handlers.NewHealthHandlerMultiTenant(cfg.MetaPool, cfg.TenantManager)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
		health.GET("/tenants", healthHandler.TenantsStats) // Admin endpoint for tenant stats
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes - need TenantDB middleware BEFORE auth
		registerAuthRoutes(v1, cfg)

		// Protected endpoints - TenantDB runs first, then Auth
		protected := v1.Group("")
		protected.Use(middleware.TenantDB(cfg.TenantManager)) // 1. Resolve tenant, get DB pool
		protected.Use(middleware.Auth(cfg.JWTValidator))      // 2. Validate JWT
		if cfg.AuthService != nil {
			protected.Use(middleware.SessionGuard(cfg.AuthService)) // 3. Reject superseded sessions
		}
		protected.Use(middleware.UserContext()) // 4. Add UserID to context for domain layer

		// Apply idempotency middleware for mutating operations
		if cfg.IdempotencyEnabled {
			protected.Use(idempotencyMiddleware(10 * time.Minute))
		}

		// Register entity routes
		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
		registerRegisterRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
		registerMetaRoutes(protected, cfg)
	}

	return router
}

// idempotencyMiddleware creates idempotency middleware that uses tenant pool + TxManager from context.
func idempotencyMiddleware(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		pool := tenant.MustGetPool(ctx)
		txm := postgres.MustGetTxManager(ctx)
		store := postgres.NewIdempotencyStoreFromRawPool(pool, txm, ttl)
		middleware.Idempotency(store)(c)
	}
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required, but need tenant for DB access)
	publicAuth := rg.Group("/auth")
	publicAuth.Use(middleware.TenantDB(cfg.TenantManager))

	// Protected auth endpoints (JWT required, session must be current)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.TenantDB(cfg.TenantManager))
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
	protectedAuth.Use(middleware.SessionGuard(cfg.AuthService))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// Note: Repos and services are created once but TxManager is obtained from context per-request

	stockService := stock.NewService(register_repo.NewStockRepo())

	// --- SHOPS ---
	{
		repo := catalog_repo.NewShopRepo()
		service := shop.NewService(repo, cfg.Numerator)
		handler := handlers.NewShopHandler(baseHandler, service)

		group := catalogs.Group("/shops")
		group.GET("/profile", middleware.RequirePermission("catalog:shop:read"), handler.GetProfile)
		group.POST("/profile/categories", middleware.RequirePermission("catalog:shop:update"), handler.AddCategory)
		RegisterCatalogRoutes(group, handler, "catalog:shop")
	}

	// --- PRODUCTS ---
	{
		repo := catalog_repo.NewProductRepo()
		service := product.NewService(repo, stockService, cfg.Numerator)
		handler := handlers.NewProductHandler(baseHandler, service)

		group := catalogs.Group("/products")
		group.GET("/by-sku/:sku", middleware.RequirePermission("catalog:product:read"), handler.GetBySKU)
		RegisterCatalogRoutes(group, handler, "catalog:product")
	}

	// --- SUPPLIERS ---
	{
		repo := catalog_repo.NewSupplierRepo()
		service := supplier.NewService(repo, cfg.Numerator)
		handler := handlers.NewSupplierHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/suppliers"), handler, "catalog:supplier")
	}

	// --- CUSTOMERS ---
	{
		repo := catalog_repo.NewCustomerRepo()
		service := customer.NewService(repo, cfg.Numerator)
		handler := handlers.NewCustomerHandler(baseHandler, service)

		group := catalogs.Group("/customers")
		group.GET("/by-mobile/:mobile", middleware.RequirePermission("catalog:customer:read"), handler.GetByMobile)
		RegisterCatalogRoutes(group, handler, "catalog:customer")
	}

	// --- DISCOUNTS ---
	{
		handler := handlers.NewDiscountHandler(baseHandler, newDiscountService(cfg))

		group := catalogs.Group("/discounts")
		group.POST("/:id/activate", middleware.RequirePermission("catalog:discount:update"), handler.Activate)
		group.POST("/:id/deactivate", middleware.RequirePermission("catalog:discount:update"), handler.Deactivate)
		RegisterCatalogRoutes(group, handler, "catalog:discount")
	}
}

// newDiscountService builds the discount service with its CEL condition
// resolver. The resolver environment is static; failing to build it is a
// programming error.
func newDiscountService(cfg RouterConfig) *discount.Service {
	resolver, err := discount.NewResolver()
	if err != nil {
		panic(err)
	}
	return discount.NewService(catalog_repo.NewDiscountRepo(), cfg.Numerator, resolver)
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docsGroup := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	// Shared dependencies for the sale pipeline
	stockService := stock.NewService(register_repo.NewStockRepo())
	productService := product.NewService(catalog_repo.NewProductRepo(), stockService, cfg.Numerator)
	customerService := customer.NewService(catalog_repo.NewCustomerRepo(), cfg.Numerator)
	discountService := newDiscountService(cfg)
	emiService := emi.NewService(document_repo.NewEMIRepo(), cfg.Numerator, nil)

	policy := cfg.PostingPolicy
	if policy == nil {
		policy = security.NewFlexiblePolicy(24*time.Hour, time.Time{})
	}

	auditService, err := postgres.NewAuditService()
	if err != nil {
		panic(err)
	}

	// --- INVOICES ---
	{
		service := invoice.NewService(
			document_repo.NewInvoiceRepo(),
			productService,
			discountService,
			stockService,
			customerService,
			emiService,
			cfg.Numerator,
			policy,
			nil, // TxManager from context (DB-per-tenant)
		)
		handler := handlers.NewInvoiceHandler(baseHandler, service, auditService)

		group := docsGroup.Group("/invoices")
		group.POST("", middleware.RequirePermission("document:invoice:create"), handler.Create)
		group.GET("", middleware.RequirePermission("document:invoice:read"), handler.List)
		group.GET("/:id", middleware.RequirePermission("document:invoice:read"), handler.Get)
		group.GET("/by-number/:number", middleware.RequirePermission("document:invoice:read"), handler.GetByNumber)
		group.POST("/:id/unpost", middleware.RequirePermission("document:invoice:unpost"), handler.Unpost)
		group.DELETE("/:id", middleware.RequirePermission("document:invoice:delete"), handler.Delete)
	}

	// --- EMI LOANS ---
	{
		handler := handlers.NewEMIHandler(baseHandler, emiService)

		group := docsGroup.Group("/emis")
		group.GET("", middleware.RequirePermission("document:emi:read"), handler.List)
		group.GET("/due", middleware.RequirePermission("document:emi:read"), handler.Due)
		group.GET("/:id", middleware.RequirePermission("document:emi:read"), handler.Get)
		group.POST("/:id/payments", middleware.RequirePermission("document:emi:update"), handler.RecordPayment)
		group.POST("/:id/default", middleware.RequirePermission("document:emi:update"), handler.MarkDefaulted)
	}
}

// registerRegisterRoutes registers accumulation register endpoints.
func registerRegisterRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	registers := rg.Group("/registers")
	baseHandler := handlers.NewBaseHandler()

	// Stock register
	{
		stockService := stock.NewService(register_repo.NewStockRepo())
		stockHandler := handlers.NewStockHandler(baseHandler, stockService)

		stockGroup := registers.Group("/stock")
		stockGroup.GET("/balances", middleware.RequirePermission("register:stock:read"), stockHandler.GetBalances)
		stockGroup.GET("/balances/:productId", middleware.RequirePermission("register:stock:read"), stockHandler.GetBalance)
		stockGroup.GET("/low", middleware.RequirePermission("register:stock:read"), stockHandler.GetLowStock)
		stockGroup.GET("/movements", middleware.RequirePermission("register:stock:read"), stockHandler.GetMovements)
		stockGroup.GET("/turnover", middleware.RequirePermission("register:stock:read"), stockHandler.GetTurnover)
	}
}

// registerMetaRoutes registers metadata/schema endpoints.
func registerMetaRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.MetadataRegistry == nil {
		return
	}

	handler := handlers.NewMetadataHandler(cfg.MetadataRegistry)
	meta := rg.Group("/meta")
	{
		meta.GET("", handler.ListEntities)
		meta.GET("/:name", handler.GetEntity)
	}
}

// registerReportRoutes registers dashboard report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	reportsGroup := rg.Group("/reports")
	baseHandler := handlers.NewBaseHandler()

	reportService := reports.NewService(report_repo.NewReportRepo())
	reportHandler := handlers.NewReportsHandler(baseHandler, reportService)

	reportsGroup.GET("/dashboard", middleware.RequirePermission("report:sales:read"), reportHandler.GetDashboard)
	reportsGroup.GET("/sales-summary", middleware.RequirePermission("report:sales:read"), reportHandler.GetSalesSummary)
	reportsGroup.GET("/top-products", middleware.RequirePermission("report:sales:read"), reportHandler.GetTopProducts)
	reportsGroup.GET("/low-stock", middleware.RequirePermission("report:stock:read"), reportHandler.GetLowStock)
	reportsGroup.GET("/emi-dues", middleware.RequirePermission("report:emi:read"), reportHandler.GetEMIDues)
}
