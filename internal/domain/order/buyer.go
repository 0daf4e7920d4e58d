package order

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// MsgMissingRequiredFields is shown when any required buyer field is blank
const MsgMissingRequiredFields = "Por favor completa todos los campos obligatorios"

// ErrMissingRequiredFields is returned by BuyerDetails.Validate
var ErrMissingRequiredFields = shared.NewDomainError("VALIDATION_ERROR", MsgMissingRequiredFields)

// BuyerDetails are the contact and shipping fields entered at checkout
type BuyerDetails struct {
	Name            string
	Email           string
	Phone           string
	ShippingAddress string
	Notes           string
}

// Normalize returns a copy with surrounding whitespace removed
func (b BuyerDetails) Normalize() BuyerDetails {
	return BuyerDetails{
		Name:            strings.TrimSpace(b.Name),
		Email:           strings.TrimSpace(b.Email),
		Phone:           strings.TrimSpace(b.Phone),
		ShippingAddress: strings.TrimSpace(b.ShippingAddress),
		Notes:           strings.TrimSpace(b.Notes),
	}
}

// MissingFields lists the required fields left blank, in form order
func (b BuyerDetails) MissingFields() []string {
	n := b.Normalize()
	var missing []string
	if n.Name == "" {
		missing = append(missing, "customer_name")
	}
	if n.Email == "" {
		missing = append(missing, "customer_email")
	}
	if n.ShippingAddress == "" {
		missing = append(missing, "shipping_address")
	}
	return missing
}

// Validate checks that name, email and shipping address are present
func (b BuyerDetails) Validate() error {
	if len(b.MissingFields()) > 0 {
		return ErrMissingRequiredFields
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
