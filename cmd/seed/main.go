// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"voltbill/internal/core/id"
	"voltbill/internal/core/tenant"
	"voltbill/internal/core/types"
	"voltbill/internal/infrastructure/storage/postgres"
	"voltbill/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to database
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	// Seed admin user
	if _, err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	// Seed demo data if requested
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedTenantRegistry(ctx, dbURL, log); err != nil {
			log.Warnw("failed to seed tenant registry", "error", err)
		}
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@voltbill.io"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	// Check if admin already exists
	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1 AND NOT deletion_mark`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return existingID, nil
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check admin exists: %w", err)
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now()

	// Create admin user
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			is_active, is_admin, email_verified, email_verified_at, version
		)
		VALUES ($1, $2, $3, 'System', 'Admin', true, true, true, $4, 1)
	`, userID, adminEmail, string(passwordHash), now)
	if err != nil {
		return id.Nil(), fmt.Errorf("insert admin user: %w", err)
	}

	// Assign admin role
	var adminRoleID id.ID
	err = pool.Pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE code = 'admin'`,
	).Scan(&adminRoleID)
	if err != nil {
		log.Warnw("admin role not found, skipping role assignment", "error", err)
	} else {
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id, granted_by)
			VALUES ($1, $2, NULL)
			ON CONFLICT (user_id, role_id) DO NOTHING
		`, userID, adminRoleID)
		if err != nil {
			log.Warnw("failed to assign admin role", "error", err)
		}
	}

	log.Infow("admin user created",
		"email", adminEmail,
		"user_id", userID,
	)

	return userID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// 1. Shop profile (the tenant root record)
	shopID := id.New()
	shopCode := "SHOP-001"
	commandTag, err := pool.Pool.Exec(ctx, `
		INSERT INTO cat_shops (
			id, code, name, type, owner_name, phone, address, gst_number,
			invoice_terms, electronics_categories, electrical_categories,
			is_active, version, deletion_mark, attributes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true, 1, false, '{}')
		ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
	`, shopID, shopCode, "Sharma Electronics", "both", "Rakesh Sharma",
		"+919812345678", "14 MG Road, Jaipur", "08AAACS1234F1Z5",
		"Goods once sold cannot be returned. Warranty as per manufacturer.",
		[]string{"Mobile", "TV", "Refrigerator", "Washing Machine"},
		[]string{"Wiring", "Switches", "Fans", "Lighting"})
	if err != nil {
		log.Warnw("failed to seed shop profile", "error", err)
	} else if commandTag.RowsAffected() == 0 {
		log.Infow("shop profile already exists", "code", shopCode)
	}

	// 2. Suppliers
	suppliers := []struct {
		name    string
		contact string
		phone   string
		gstin   string
	}{
		{"Luminous Distributors", "Anil Gupta", "+919876500001", "08AABCL5678G1Z2"},
		{"Samsung India Wholesale", "Priya Nair", "+919876500002", "29AACCS9012H1Z9"},
		{"Havells Authorized Agency", "Vikram Singh", "+919876500003", "07AADCH3456J1Z4"},
	}

	supplierIDs := make([]id.ID, 0, len(suppliers))
	for i, s := range suppliers {
		supID := id.New()
		code := fmt.Sprintf("SUP-%03d", i+1)
		tag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_suppliers (id, code, name, contact_person, phone, gst_number, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, $5, $6, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, supID, code, s.name, s.contact, s.phone, s.gstin)
		if err != nil {
			log.Warnw("failed to seed supplier", "name", s.name, "error", err)
			continue
		}
		if tag.RowsAffected() == 0 {
			err = pool.Pool.QueryRow(ctx,
				`SELECT id FROM cat_suppliers WHERE code = $1 AND deletion_mark = FALSE`,
				code).Scan(&supID)
			if err != nil {
				log.Warnw("failed to fetch existing supplier id", "code", code, "error", err)
				continue
			}
		}
		supplierIDs = append(supplierIDs, supID)
	}

	// 3. Products with opening stock
	products := []struct {
		name          string
		itemType      string
		category      string
		brand         string
		sku           string
		hsn           string
		purchasePrice int64 // paise
		sellingPrice  int64
		gstPercent    string
		warranty      int
		openingStock  float64
	}{
		{"Samsung 43in Crystal UHD TV", "electronics", "TV", "Samsung", "TV-SAM-43CU", "8528", 2650000, 3199900, "18", 12, 8},
		{"LG 260L Frost-Free Refrigerator", "electronics", "Refrigerator", "LG", "FR-LG-260", "8418", 2150000, 2549900, "18", 12, 5},
		{"Redmi Note 13 5G 128GB", "electronics", "Mobile", "Xiaomi", "MOB-RN13-128", "8517", 1450000, 1699900, "18", 12, 20},
		{"Havells 1200mm Ceiling Fan", "electrical", "Fans", "Havells", "FAN-HAV-1200", "8414", 185000, 249900, "18", 24, 30},
		{"Finolex 1.5sqmm Wire 90m", "electrical", "Wiring", "Finolex", "WIR-FIN-15", "8544", 145000, 189900, "18", 0, 50},
		{"Anchor 6A Modular Switch", "electrical", "Switches", "Anchor", "SW-ANC-6A", "8536", 4500, 7900, "18", 6, 200},
	}

	for i, p := range products {
		prodID := id.New()
		code := fmt.Sprintf("PRD-%05d", i+1)

		var supplierID interface{}
		if len(supplierIDs) > 0 {
			supplierID = supplierIDs[i%len(supplierIDs)].String()
		}

		tag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_products (
				id, code, name, item_type, category, brand, sku_code, hsn_code,
				unit, purchase_price, selling_price, gst_percent,
				warranty_months, guarantee_months, supplier_id,
				is_active, has_special_offer, special_offer_price,
				version, deletion_mark, attributes
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pcs', $9, $10, $11, $12, 0, $13, true, false, 0, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, prodID, code, p.name, p.itemType, p.category, p.brand, p.sku, p.hsn,
			p.purchasePrice, p.sellingPrice, p.gstPercent, p.warranty, supplierID)
		if err != nil {
			log.Warnw("failed to seed product", "name", p.name, "error", err)
			continue
		}
		if tag.RowsAffected() == 0 {
			continue
		}

		// Opening balance for the stock register
		qty := types.NewQuantityFromFloat64(p.openingStock)
		_, err = pool.Pool.Exec(ctx, `
			INSERT INTO reg_stock_balances (product_id, quantity, last_movement_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			ON CONFLICT (product_id) DO NOTHING
		`, prodID, qty.Int64Scaled())
		if err != nil {
			log.Warnw("failed to seed opening stock", "product", p.name, "error", err)
		}
	}

	// 4. Customers
	customers := []struct {
		name   string
		mobile string
	}{
		{"Amit Verma", "+919900011122"},
		{"Sunita Joshi", "+919900022233"},
		{"Farhan Khan", "+919900033344"},
	}

	for i, c := range customers {
		custID := id.New()
		code := fmt.Sprintf("CUS-%05d", i+1)
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_customers (id, code, name, mobile, version, deletion_mark, attributes)
			VALUES ($1, $2, $3, $4, 1, false, '{}')
			ON CONFLICT (mobile) DO NOTHING
		`, custID, code, c.name, c.mobile)
		if err != nil {
			log.Warnw("failed to seed customer", "name", c.name, "error", err)
		}
	}

	// 5. Discount rules
	discounts := []struct {
		name      string
		dtype     string
		scope     string
		category  string
		mechanism string
		value     string
		condition string
	}{
		{"Festive 5% storewide", "seasonal", "shop_wide", "", "percent", "5", ""},
		{"TV clearance 10%", "clearance", "category", "TV", "percent", "10", ""},
		{"Bulk switches offer", "bulk", "category", "Switches", "percent", "15", "quantity >= 10.0"},
	}

	for i, d := range discounts {
		discID := id.New()
		code := fmt.Sprintf("DSC-%03d", i+1)

		var category interface{}
		if d.category != "" {
			category = d.category
		}

		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_discounts (
				id, code, name, type, scope, category, mechanism, value,
				min_quantity, condition, is_active, version, deletion_mark, attributes
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, true, 1, false, '{}')
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, discID, code, d.name, d.dtype, d.scope, category, d.mechanism, d.value, d.condition)
		if err != nil {
			log.Warnw("failed to seed discount", "name", d.name, "error", err)
		}
	}

	log.Info("demo data seeded successfully")
	return nil
}

func seedTenantRegistry(ctx context.Context, dbURL string, log *logger.Logger) error {
	metaDSN := os.Getenv("META_DATABASE_URL")
	if metaDSN == "" {
		log.Warn("META_DATABASE_URL is not set; skipping tenant registry seed")
		return nil
	}

	metaPool, err := pgxpool.New(ctx, metaDSN)
	if err != nil {
		return fmt.Errorf("connect meta database: %w", err)
	}
	defer metaPool.Close()

	if err := metaPool.Ping(ctx); err != nil {
		return fmt.Errorf("ping meta database: %w", err)
	}

	tenantSlug := os.Getenv("TENANT_SLUG")
	if tenantSlug == "" {
		tenantSlug = "demo"
	}

	tenantName := os.Getenv("TENANT_NAME")
	if tenantName == "" {
		tenantName = "Demo Shop"
	}

	tenantPlan := os.Getenv("TENANT_PLAN")
	if tenantPlan == "" {
		tenantPlan = string(tenant.PlanStandard)
	}

	dbConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return fmt.Errorf("parse tenant database url: %w", err)
	}

	dbHost := dbConfig.ConnConfig.Host
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := int(dbConfig.ConnConfig.Port)
	if dbPort == 0 {
		dbPort = 5432
	}

	dbName := dbConfig.ConnConfig.Database
	if dbName == "" {
		dbName = "voltbill"
	}

	var existingID string
	err = metaPool.QueryRow(ctx, `SELECT id FROM tenants WHERE slug = $1`, tenantSlug).Scan(&existingID)
	if err == nil {
		log.Infow("tenant already exists in registry", "slug", tenantSlug, "tenant_id", existingID)
		return nil
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check tenant exists: %w", err)
	}

	registry := tenant.NewPostgresRegistry(metaPool)
	newTenant := &tenant.Tenant{
		Slug:        tenantSlug,
		DisplayName: tenantName,
		DBName:      dbName,
		DBHost:      dbHost,
		DBPort:      dbPort,
		Status:      tenant.StatusActive,
		Plan:        tenant.Plan(tenantPlan),
		Settings:    map[string]any{},
	}

	if err := registry.Create(ctx, newTenant); err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}

	log.Infow("tenant seeded in registry", "slug", tenantSlug, "tenant_id", newTenant.ID)
	return nil
}
