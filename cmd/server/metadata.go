package main

import (
	"voltbill/internal/domain/catalogs/customer"
	"voltbill/internal/domain/catalogs/discount"
	"voltbill/internal/domain/catalogs/product"
	"voltbill/internal/domain/catalogs/shop"
	"voltbill/internal/domain/catalogs/supplier"
	"voltbill/internal/domain/documents/emi"
	"voltbill/internal/domain/documents/invoice"
	"voltbill/internal/metadata"
)

// setupMetadataRegistry initializes and populates the metadata registry.
func setupMetadataRegistry() *metadata.Registry {
	reg := metadata.NewRegistry()

	// Helper to register entity with a display label
	register := func(entity interface{}, name string, typ metadata.EntityType, label string) {
		def := metadata.Inspect(entity, name, typ)
		def.Label = label

		// Here we could also augment fields with labels if we had a translation map.
		// For MVP we rely on Inspect's auto-guessing based on field names.

		reg.Register(def)
	}

	// --- Catalogs ---
	register(shop.Shop{}, "Shop", metadata.TypeCatalog, "Shops")
	register(product.Product{}, "Product", metadata.TypeCatalog, "Products")
	register(supplier.Supplier{}, "Supplier", metadata.TypeCatalog, "Suppliers")
	register(customer.Customer{}, "Customer", metadata.TypeCatalog, "Customers")
	register(discount.Discount{}, "Discount", metadata.TypeCatalog, "Discount rules")

	// --- Documents ---
	register(invoice.Invoice{}, "Invoice", metadata.TypeDocument, "Sale invoices")
	register(emi.EMI{}, "EMI", metadata.TypeDocument, "EMI loans")

	return reg
}
