package dto

import (
	"time"

	"voltbill/internal/domain/reports"
)

// --- Request DTOs ---

// SalesSummaryRequest filters the sales summary period. Dates are RFC3339;
// both default to the current calendar month when absent.
type SalesSummaryRequest struct {
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
}

// TopProductsRequest filters the top products widget.
type TopProductsRequest struct {
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
	OrderBy  string `form:"orderBy"`
	Limit    int    `form:"limit"`
}

// LowStockRequest filters the low stock widget. Threshold is whole units.
type LowStockRequest struct {
	Threshold int64 `form:"threshold"`
	Limit     int   `form:"limit"`
}

// EMIDuesRequest filters the EMI dues widget.
type EMIDuesRequest struct {
	AsOf        string `form:"asOf"`
	HorizonDays int    `form:"horizonDays"`
	Limit       int    `form:"limit"`
}

// --- Response DTOs ---

type PaymentSplitResponse struct {
	Cash int64 `json:"cash"`
	UPI  int64 `json:"upi"`
	Card int64 `json:"card"`
	EMI  int64 `json:"emi"`
}

type SalesSummaryResponse struct {
	FromDate      time.Time            `json:"fromDate"`
	ToDate        time.Time            `json:"toDate"`
	InvoiceCount  int                  `json:"invoiceCount"`
	Revenue       int64                `json:"revenue"`
	GSTCollected  int64                `json:"gstCollected"`
	DiscountGiven int64                `json:"discountGiven"`
	PaymentSplit  PaymentSplitResponse `json:"paymentSplit"`
}

func FromSalesSummary(s *reports.SalesSummary) *SalesSummaryResponse {
	return &SalesSummaryResponse{
		FromDate:      s.FromDate,
		ToDate:        s.ToDate,
		InvoiceCount:  s.InvoiceCount,
		Revenue:       int64(s.Revenue),
		GSTCollected:  int64(s.GSTCollected),
		DiscountGiven: int64(s.DiscountGiven),
		PaymentSplit: PaymentSplitResponse{
			Cash: int64(s.PaymentSplit.Cash),
			UPI:  int64(s.PaymentSplit.UPI),
			Card: int64(s.PaymentSplit.Card),
			EMI:  int64(s.PaymentSplit.EMI),
		},
	}
}

type TopProductItemResponse struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	QuantitySold float64 `json:"quantitySold"`
	Revenue      int64   `json:"revenue"`
}

type TopProductsResponse struct {
	FromDate time.Time                `json:"fromDate"`
	ToDate   time.Time                `json:"toDate"`
	OrderBy  string                   `json:"orderBy"`
	Items    []TopProductItemResponse `json:"items"`
}

func FromTopProductsReport(r *reports.TopProductsReport) *TopProductsResponse {
	items := make([]TopProductItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = TopProductItemResponse{
			ProductID:    item.ProductID.String(),
			ProductName:  item.ProductName,
			QuantitySold: item.QuantitySold,
			Revenue:      int64(item.Revenue),
		}
	}
	return &TopProductsResponse{
		FromDate: r.FromDate,
		ToDate:   r.ToDate,
		OrderBy:  r.OrderBy,
		Items:    items,
	}
}

type LowStockItemResponse struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	SKUCode     string  `json:"skuCode"`
	Category    string  `json:"category,omitempty"`
	Quantity    float64 `json:"quantity"`
}

type LowStockResponse struct {
	Threshold int64                  `json:"threshold"`
	Items     []LowStockItemResponse `json:"items"`
}

func FromLowStockReport(r *reports.LowStockReport) *LowStockResponse {
	items := make([]LowStockItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = LowStockItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			SKUCode:     item.SKUCode,
			Category:    item.Category,
			Quantity:    item.Quantity,
		}
	}
	return &LowStockResponse{
		Threshold: r.Threshold,
		Items:     items,
	}
}

type EMIDueItemResponse struct {
	EmiID            string    `json:"emiId"`
	Number           string    `json:"number"`
	CustomerName     string    `json:"customerName"`
	CustomerMobile   string    `json:"customerMobile"`
	EMIAmount        int64     `json:"emiAmount"`
	RemainingBalance int64     `json:"remainingBalance"`
	NextDueDate      time.Time `json:"nextDueDate"`
	Overdue          bool      `json:"overdue"`
}

type EMIDuesResponse struct {
	AsOf         time.Time            `json:"asOf"`
	HorizonDays  int                  `json:"horizonDays"`
	OverdueCount int                  `json:"overdueCount"`
	Items        []EMIDueItemResponse `json:"items"`
}

func FromEMIDuesReport(r *reports.EMIDuesReport) *EMIDuesResponse {
	items := make([]EMIDueItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = EMIDueItemResponse{
			EmiID:            item.EmiID.String(),
			Number:           item.Number,
			CustomerName:     item.CustomerName,
			CustomerMobile:   item.CustomerMobile,
			EMIAmount:        int64(item.EMIAmount),
			RemainingBalance: int64(item.RemainingBalance),
			NextDueDate:      item.NextDueDate,
			Overdue:          item.Overdue,
		}
	}
	return &EMIDuesResponse{
		AsOf:         r.AsOf,
		HorizonDays:  r.HorizonDays,
		OverdueCount: r.OverdueCount,
		Items:        items,
	}
}

type DashboardResponse struct {
	Sales       *SalesSummaryResponse `json:"sales"`
	TopProducts *TopProductsResponse  `json:"topProducts"`
	LowStock    *LowStockResponse     `json:"lowStock"`
	EMIDues     *EMIDuesResponse      `json:"emiDues"`
}

func FromDashboard(d *reports.Dashboard) *DashboardResponse {
	return &DashboardResponse{
		Sales:       FromSalesSummary(d.Sales),
		TopProducts: FromTopProductsReport(d.TopProducts),
		LowStock:    FromLowStockReport(d.LowStock),
		EMIDues:     FromEMIDuesReport(d.EMIDues),
	}
}
