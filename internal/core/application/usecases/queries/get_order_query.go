package queries

import (
	"context"
	"errors"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery tracks a single order.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	fmt.Println(view.StatusDescription)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryHandler reads an order through the ledger. A nil expirer turns off the
// lazy payment timeout.
type GetOrderQueryHandler struct {
	reader    ports.UnitOfWorkFactory
	freshness freshness
}

// NewGetOrderQueryHandler creates a handler for single order lookups.
// An order past its payment window is expired through expirer before it is returned.
func NewGetOrderQueryHandler(
	reader ports.UnitOfWorkFactory,
	expirer OrderExpirer,
	paymentWindow time.Duration,
	clock ports.Clock,
) GetOrderQueryHandler {
	return GetOrderQueryHandler{
		reader:    reader,
		freshness: freshness{reader: reader, expirer: expirer, paymentWindow: paymentWindow, clock: nowOr(clock)},
	}
}

// Handle returns an errs.ObjectNotFoundError for param "order" when the id is unknown.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	o, err := h.reader.Create().OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return OrderView{}, err
	}
	o, err = h.freshness.refresh(ctx, o)
	if err != nil {
		return OrderView{}, err
	}
	return viewOf(o), nil
}
