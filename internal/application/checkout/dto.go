package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/order"
)

// SubmitRequest carries the buyer form. Presence of the required fields
// is checked after trimming by the service, not by binding.
type SubmitRequest struct {
	CustomerName    string `json:"customer_name" binding:"max=200"`
	CustomerEmail   string `json:"customer_email" binding:"max=200"`
	CustomerPhone   string `json:"customer_phone" binding:"max=50"`
	ShippingAddress string `json:"shipping_address" binding:"max=500"`
	Notes           string `json:"notes" binding:"max=1000"`
}

// BuyerDetails converts the request to the domain form
func (r SubmitRequest) BuyerDetails() order.BuyerDetails {
	return order.BuyerDetails{
		Name:            r.CustomerName,
		Email:           r.CustomerEmail,
		Phone:           r.CustomerPhone,
		ShippingAddress: r.ShippingAddress,
		Notes:           r.Notes,
	}
}

// Result is the outcome of a completed checkout
type Result struct {
	OrderID     *uuid.UUID
	Transcript  string
	DispatchURL string
	Items       []order.Line
	Subtotal    decimal.Decimal
	Total       decimal.Decimal
	State       checkout.State
}

// ResultResponse represents a completed checkout in API responses
type ResultResponse struct {
	OrderID         *uuid.UUID      `json:"order_id,omitempty"`
	State           string          `json:"state"`
	Transcript      string          `json:"transcript"`
	DispatchURL     string          `json:"dispatch_url"`
	Items           []order.Line    `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	SubtotalDisplay string          `json:"subtotal_display"`
	Total           decimal.Decimal `json:"total"`
}

// ToResultResponse converts a Result to ResultResponse
func ToResultResponse(r *Result, subtotalDisplay string) ResultResponse {
	return ResultResponse{
		OrderID:         r.OrderID,
		State:           string(r.State),
		Transcript:      r.Transcript,
		DispatchURL:     r.DispatchURL,
		Items:           r.Items,
		Subtotal:        r.Subtotal,
		SubtotalDisplay: subtotalDisplay,
		Total:           r.Total,
	}
}
