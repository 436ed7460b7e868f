package services

import (
	"fmt"
	"time"

	"canteen/internal/core/domain/model/cart"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/pkg/errs"
)

// Checkout describes who places the order and how it is paid.
type Checkout struct {
	OrderID       kernel.UUID
	Customer      kernel.Phone
	CustomerName  string
	Facility      string
	PaymentMethod order.PaymentMethod
}

// OrderMaterializer builds orders from carts. It holds no state.
type OrderMaterializer struct{}

// NewOrderMaterializer creates a stateless order materializer.
func NewOrderMaterializer() *OrderMaterializer {
	return &OrderMaterializer{}
}

// Materialize validates the cart against the catalog and returns the order after its
// placement transition. The cart already holds the stock of its lines, so only
// availability and facility are checked here. The cart itself is left untouched.
func (m OrderMaterializer) Materialize(
	c *cart.Cart,
	products []*product.Product,
	checkout Checkout,
	now time.Time,
) (*order.Order, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, cart.ErrEmptyCart
	}

	catalog := make(map[kernel.UUID]*product.Product, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		catalog[p.ID()] = p
	}

	items := make([]order.LineItem, 0, len(c.Lines()))
	for _, line := range c.Lines() {
		p, ok := catalog[line.ProductID]
		if !ok {
			return nil, errs.NewObjectNotFoundError("product", line.ProductID.String())
		}
		if !p.IsAvailable() {
			return nil, product.NewUnavailableError(p)
		}
		if p.Facility() != checkout.Facility {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"facility",
				fmt.Errorf("%s is sold by %s, not %s", p.Name(), p.Facility(), checkout.Facility),
			)
		}

		item, err := order.NewLineItem(p.ID(), p.Name(), line.Quantity, p.Price())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	o, err := order.NewOrder(
		checkout.OrderID,
		checkout.Customer,
		checkout.CustomerName,
		checkout.Facility,
		checkout.PaymentMethod,
		items,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = o.Apply(order.TriggerPlace, now); err != nil {
		return nil, err
	}
	return o, nil
}
