// Package reports provides dashboard aggregation services.
package reports

import (
	"time"

	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
)

// --- Sales Summary ---

// SalesSummaryFilter defines the period for the sales summary.
type SalesSummaryFilter struct {
	// Period (FromDate inclusive, ToDate exclusive; defaults to the current month)
	FromDate time.Time
	ToDate   time.Time
}

// PaymentSplit breaks revenue down by settlement channel, in paise.
type PaymentSplit struct {
	Cash types.MinorUnits `json:"cash"`
	UPI  types.MinorUnits `json:"upi"`
	Card types.MinorUnits `json:"card"`
	EMI  types.MinorUnits `json:"emi"`
}

// SalesSummary aggregates posted invoices over a period.
type SalesSummary struct {
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	InvoiceCount  int              `json:"invoiceCount"`
	Revenue       types.MinorUnits `json:"revenue"`
	GSTCollected  types.MinorUnits `json:"gstCollected"`
	DiscountGiven types.MinorUnits `json:"discountGiven"`

	PaymentSplit PaymentSplit `json:"paymentSplit"`
}

// --- Top Products ---

// TopProductsFilter defines filter for the top-products widget.
type TopProductsFilter struct {
	// Period (FromDate inclusive, ToDate exclusive)
	FromDate time.Time
	ToDate   time.Time

	// OrderBy is "quantity" or "revenue" (defaults to "revenue")
	OrderBy string

	Limit int
}

// TopProductItem represents one product row in the top-products widget.
type TopProductItem struct {
	ProductID    id.ID            `json:"productId"`
	ProductName  string           `json:"productName"`
	QuantitySold float64          `json:"quantitySold"`
	Revenue      types.MinorUnits `json:"revenue"`
}

// TopProductsReport lists best-selling products for a period.
type TopProductsReport struct {
	FromDate time.Time        `json:"fromDate"`
	ToDate   time.Time        `json:"toDate"`
	OrderBy  string           `json:"orderBy"`
	Items    []TopProductItem `json:"items"`
}

// --- Low Stock ---

// LowStockFilter defines filter for the low-stock widget.
type LowStockFilter struct {
	// Threshold in whole units; products at or below it are reported
	Threshold int64

	Limit int
}

// LowStockItem represents a product running low.
type LowStockItem struct {
	ProductID   id.ID   `json:"productId"`
	ProductName string  `json:"productName"`
	SKUCode     string  `json:"skuCode,omitempty"`
	Category    string  `json:"category,omitempty"`
	Quantity    float64 `json:"quantity"`
}

// LowStockReport lists products at or below the threshold.
type LowStockReport struct {
	Threshold int64          `json:"threshold"`
	Items     []LowStockItem `json:"items"`
}

// --- EMI Dues ---

// EMIDuesFilter defines filter for the EMI dues widget.
type EMIDuesFilter struct {
	// AsOf is the reference date (defaults to now)
	AsOf time.Time

	// HorizonDays is how far ahead to look for upcoming dues (defaults to 30)
	HorizonDays int

	Limit int
}

// EMIDueItem represents one EMI account with an installment due.
type EMIDueItem struct {
	EmiID            id.ID            `json:"emiId"`
	Number           string           `json:"number"`
	CustomerName     string           `json:"customerName"`
	CustomerMobile   string           `json:"customerMobile"`
	EMIAmount        types.MinorUnits `json:"emiAmount"`
	RemainingBalance types.MinorUnits `json:"remainingBalance"`
	NextDueDate      time.Time        `json:"nextDueDate"`
	Overdue          bool             `json:"overdue"`
}

// EMIDuesReport lists overdue and upcoming EMI installments.
type EMIDuesReport struct {
	AsOf         time.Time    `json:"asOf"`
	HorizonDays  int          `json:"horizonDays"`
	OverdueCount int          `json:"overdueCount"`
	Items        []EMIDueItem `json:"items"`
}

// --- Dashboard ---

// Dashboard bundles all widgets for the landing screen.
type Dashboard struct {
	Sales       *SalesSummary      `json:"sales"`
	TopProducts *TopProductsReport `json:"topProducts"`
	LowStock    *LowStockReport    `json:"lowStock"`
	EMIDues     *EMIDuesReport     `json:"emiDues"`
}
