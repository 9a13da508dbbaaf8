package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"voltbill/internal/domain/documents/emi"
)

// --- Request DTOs ---

// RecordEMIPaymentRequest is one installment (or ad-hoc) payment in paise.
type RecordEMIPaymentRequest struct {
	Amount  int64  `json:"amount" binding:"required,gt=0"`
	Mode    string `json:"mode" binding:"required"`
	Remarks string `json:"remarks,omitempty"`
}

// --- Response DTOs ---

type EMIResponse struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	Date           time.Time       `json:"date"`
	InvoiceID      string          `json:"invoiceId"`
	CustomerName   string          `json:"customerName"`
	CustomerMobile string          `json:"customerMobile"`
	Principal      int64           `json:"principal"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	TenureValue    int             `json:"tenureValue"`
	TenureType     string          `json:"tenureType"`
	EMIAmount      int64           `json:"emiAmount"`
	TotalPayable   int64           `json:"totalPayable"`
	InterestAmount int64           `json:"interestAmount"`
	TotalMonths    int             `json:"totalMonths"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	NextDueDate    time.Time       `json:"nextDueDate"`
	AmountPaid     int64           `json:"amountPaid"`
	RemainingBalance int64         `json:"remainingBalance"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	Payments []EMIPaymentResponse `json:"payments,omitempty"`
}

type EMIPaymentResponse struct {
	ID        string    `json:"id"`
	Amount    int64     `json:"amount"`
	Date      time.Time `json:"date"`
	Mode      string    `json:"mode"`
	Remarks   string    `json:"remarks,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type EMIListResponse struct {
	Items      []*EMIResponse `json:"items"`
	TotalCount int            `json:"totalCount"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}

func FromEMI(doc *emi.EMI) *EMIResponse {
	return &EMIResponse{
		ID:               doc.ID.String(),
		Number:           doc.Number,
		Date:             doc.Date,
		InvoiceID:        doc.InvoiceID.String(),
		CustomerName:     doc.CustomerName,
		CustomerMobile:   doc.CustomerMobile,
		Principal:        int64(doc.Principal),
		InterestRate:     doc.InterestRate,
		TenureValue:      doc.TenureValue,
		TenureType:       string(doc.TenureUnit),
		EMIAmount:        int64(doc.EMIAmount),
		TotalPayable:     int64(doc.TotalPayable),
		InterestAmount:   int64(doc.InterestAmount),
		TotalMonths:      doc.TotalMonths,
		StartDate:        doc.StartDate,
		EndDate:          doc.EndDate,
		NextDueDate:      doc.NextDueDate,
		AmountPaid:       int64(doc.AmountPaid),
		RemainingBalance: int64(doc.RemainingBalance()),
		Status:           string(doc.Status),
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}

func FromEMIWithPayments(doc *emi.EMI, payments []*emi.Payment) *EMIResponse {
	resp := FromEMI(doc)
	resp.Payments = make([]EMIPaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp.Payments = append(resp.Payments, EMIPaymentResponse{
			ID:        p.ID.String(),
			Amount:    int64(p.Amount),
			Date:      p.Date,
			Mode:      string(p.Mode),
			Remarks:   p.Remarks,
			CreatedAt: p.CreatedAt,
		})
	}
	return resp
}
