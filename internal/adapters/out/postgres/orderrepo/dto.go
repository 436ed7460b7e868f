// Package orderrepo persists the order ledger: one orders row per order and its line
// items in order_line_items. Line items are written once, with the order.
package orderrepo

import (
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders table. Timestamps come from the domain clock, so gorm's
// automatic time tracking is off.
type OrderDTO struct {
	ID                    uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Customer              string        `gorm:"type:varchar(16);not null;index"`
	CustomerName          string        `gorm:"type:varchar(255);not null"`
	Facility              string        `gorm:"type:varchar(255);not null;index"`
	Status                int           `gorm:"type:smallint;not null;index"`
	PaymentMethod         int           `gorm:"type:smallint;not null"`
	PaymentStatus         int           `gorm:"type:smallint;not null"`
	PaymentReference      string        `gorm:"type:varchar(255)"`
	EstimatedReadyMinutes int           `gorm:"type:int;not null;default:0"`
	Retired               bool          `gorm:"not null;default:false"`
	CreatedAt             time.Time     `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt             time.Time     `gorm:"not null;autoUpdateTime:false"`
	Items                 []LineItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is a product snapshot taken when the order was placed.
type LineItemDTO struct {
	OrderID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position    int             `gorm:"type:int;primaryKey"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	Quantity    int             `gorm:"type:int;not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (LineItemDTO) TableName() string {
	return "order_line_items"
}

func fromDomain(o *order.Order) OrderDTO {
	orderID := o.ID().Bytes()
	items := make([]LineItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, LineItemDTO{
			OrderID:     orderID,
			Position:    i,
			ProductID:   item.ProductID().Bytes(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().Decimal(),
		})
	}

	return OrderDTO{
		ID:                    orderID,
		Customer:              o.Customer().String(),
		CustomerName:          o.CustomerName(),
		Facility:              o.Facility(),
		Status:                int(o.Status()),
		PaymentMethod:         int(o.PaymentMethod()),
		PaymentStatus:         int(o.PaymentStatus()),
		PaymentReference:      o.PaymentReference(),
		EstimatedReadyMinutes: o.EstimatedReadyMinutes(),
		Retired:               o.IsRetired(),
		CreatedAt:             o.CreatedAt().UTC(),
		UpdatedAt:             o.UpdatedAt().UTC(),
		Items:                 items,
	}
}

// toDomain rebuilds the aggregate. Items must be loaded ordered by position.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer, err := kernel.NewPhone(dto.Customer)
	if err != nil {
		return nil, err
	}

	status := order.Status(dto.Status)
	if err = status.Validate(); err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, item := range dto.Items {
		productID, idErr := kernel.UUIDFromBytes(item.ProductID[:])
		if idErr != nil {
			return nil, idErr
		}
		price, priceErr := kernel.NewMoney(item.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}
		items = append(items, order.RestoreLineItem(productID, item.ProductName, item.Quantity, price))
	}

	return order.RestoreOrder(
		id,
		customer,
		dto.CustomerName,
		dto.Facility,
		status,
		order.PaymentMethod(dto.PaymentMethod),
		order.PaymentStatus(dto.PaymentStatus),
		dto.PaymentReference,
		dto.EstimatedReadyMinutes,
		items,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.Retired,
	), nil
}
