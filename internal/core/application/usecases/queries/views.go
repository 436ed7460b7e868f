// Package queries holds the read side of the canteen: menus, cart summaries, order
// tracking, staff dashboards and notification polling. Queries never change state,
// except that reading an order whose payment window has passed cancels it first.
package queries

import (
	"context"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/ports"
)

// OrderItemView is one line of an order at the price it was placed at.
type OrderItemView struct {
	ProductID   kernel.UUID
	ProductName string
	Quantity    int
	UnitPrice   kernel.Money
	Subtotal    kernel.Money
}

// OrderView is the tracking view of an order shared by customer and staff queries.
type OrderView struct {
	ID                    kernel.UUID
	Customer              kernel.Phone
	CustomerName          string
	Facility              string
	Status                order.Status
	StatusDescription     string
	PaymentMethod         order.PaymentMethod
	PaymentStatus         order.PaymentStatus
	EstimatedReadyMinutes int
	Items                 []OrderItemView
	Total                 kernel.Money
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func viewOf(o *order.Order) OrderView {
	items := make([]OrderItemView, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemView{
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice(),
			Subtotal:    item.Subtotal(),
		})
	}

	return OrderView{
		ID:                    o.ID(),
		Customer:              o.Customer(),
		CustomerName:          o.CustomerName(),
		Facility:              o.Facility(),
		Status:                o.Status(),
		StatusDescription:     o.Status().Description(),
		PaymentMethod:         o.PaymentMethod(),
		PaymentStatus:         o.PaymentStatus(),
		EstimatedReadyMinutes: o.EstimatedReadyMinutes(),
		Items:                 items,
		Total:                 o.Total(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
	}
}

// OrderExpirer cancels an order whose payment is overdue. The payment timeout command
// handler implements it.
type OrderExpirer interface {
	ExpireOrder(ctx context.Context, id kernel.UUID, now time.Time) (bool, error)
}

// freshness makes reads agree with the payment timeout: an order past its payment
// window is expired before it is shown, so it never reads as PaymentPending.
type freshness struct {
	reader        ports.UnitOfWorkFactory
	expirer       OrderExpirer
	paymentWindow time.Duration
	clock         ports.Clock
}

func (f freshness) refresh(ctx context.Context, o *order.Order) (*order.Order, error) {
	if f.expirer == nil || !o.IsPaymentOverdue(f.clock(), f.paymentWindow) {
		return o, nil
	}
	if _, err := f.expirer.ExpireOrder(ctx, o.ID(), f.clock()); err != nil {
		return nil, err
	}
	return f.reader.Create().OrderRepository().Get(ctx, o.ID())
}

func (f freshness) views(ctx context.Context, orders []*order.Order) ([]OrderView, error) {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		current, err := f.refresh(ctx, o)
		if err != nil {
			return nil, err
		}
		views = append(views, viewOf(current))
	}
	return views, nil
}

func nowOr(clock ports.Clock) ports.Clock {
	if clock == nil {
		return time.Now
	}
	return clock
}
