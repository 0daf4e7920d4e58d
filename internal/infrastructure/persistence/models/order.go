package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderModel is the persistence model for the Order aggregate.
// Items are stored as a JSON document of checkout-time snapshots.
type OrderModel struct {
	BaseModel
	CustomerName    string          `gorm:"type:varchar(200);not null"`
	CustomerEmail   string          `gorm:"type:varchar(200);not null;index"`
	CustomerPhone   *string         `gorm:"type:varchar(50)"`
	ShippingAddress string          `gorm:"type:text;not null"`
	Notes           *string         `gorm:"type:text"`
	Items           string          `gorm:"type:jsonb;not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() (*order.Order, error) {
	var items []order.Line
	if m.Items != "" {
		if err := json.Unmarshal([]byte(m.Items), &items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
	}
	return &order.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		CustomerName:      m.CustomerName,
		CustomerEmail:     m.CustomerEmail,
		CustomerPhone:     m.CustomerPhone,
		ShippingAddress:   m.ShippingAddress,
		Notes:             m.Notes,
		Items:             items,
		Subtotal:          m.Subtotal,
		Total:             m.Total,
		Status:            order.Status(m.Status),
	}, nil
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *order.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	m.CustomerName = o.CustomerName
	m.CustomerEmail = o.CustomerEmail
	m.CustomerPhone = o.CustomerPhone
	m.ShippingAddress = o.ShippingAddress
	m.Notes = o.Notes
	m.Items = string(items)
	m.Subtotal = o.Subtotal
	m.Total = o.Total
	m.Status = string(o.Status)
	return nil
}

// AllModels lists every model for AutoMigrate in tests and local sqlite runs
func AllModels() []any {
	return []any{
		&CategoryModel{},
		&ProductModel{},
		&ProductFlavorModel{},
		&OrderModel{},
	}
}
