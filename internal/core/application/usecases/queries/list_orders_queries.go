package queries

import (
	"context"
	"errors"
	"strings"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var (
	ErrGetCustomerOrdersQueryIsNotConstructed = errors.New(
		"GetCustomerOrdersQuery must be created via NewGetCustomerOrdersQuery constructor",
	)
	ErrGetFacilityOrdersQueryIsNotConstructed = errors.New(
		"GetFacilityOrdersQuery must be created via NewGetFacilityOrdersQuery constructor",
	)
)

// GetCustomerOrdersQuery is the order history of one phone number, newest first.
type GetCustomerOrdersQuery struct {
	customer kernel.Phone

	guard guard.ConstructorGuard
}

// NewGetCustomerOrdersQuery creates a query for the order history of a customer.
func NewGetCustomerOrdersQuery(customer kernel.Phone) (GetCustomerOrdersQuery, error) {
	if err := customer.Validate(); err != nil {
		return GetCustomerOrdersQuery{}, err
	}
	return GetCustomerOrdersQuery{customer: customer, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
}

func (q GetCustomerOrdersQuery) Customer() kernel.Phone {
	return q.customer
}

// GetFacilityOrdersQuery is the staff dashboard of a facility, oldest first. With
// ActiveOnly it lists only the orders the kitchen still has to work on.
type GetFacilityOrdersQuery struct {
	facility   string
	activeOnly bool

	guard guard.ConstructorGuard
}

// NewGetFacilityOrdersQuery creates a query for the orders of a facility.
// With activeOnly set only Paid, InProgress and Ready orders are listed.
func NewGetFacilityOrdersQuery(facility string, activeOnly bool) (GetFacilityOrdersQuery, error) {
	facility = strings.TrimSpace(facility)
	if facility == "" {
		return GetFacilityOrdersQuery{}, errs.NewValueIsRequiredError("facility")
	}
	return GetFacilityOrdersQuery{facility: facility, activeOnly: activeOnly, guard: guard.NewConstructorGuard()}, nil
}

func (q GetFacilityOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetFacilityOrdersQueryIsNotConstructed)
}

func (q GetFacilityOrdersQuery) Facility() string {
	return q.facility
}

func (q GetFacilityOrdersQuery) ActiveOnly() bool {
	return q.activeOnly
}

// ListOrdersQueryHandler serves both order listings.
type ListOrdersQueryHandler struct {
	reader    ports.UnitOfWorkFactory
	freshness freshness
}

// NewListOrdersQueryHandler creates a handler for customer and facility listings.
// Requires the same expirer as NewGetOrderQueryHandler.
func NewListOrdersQueryHandler(
	reader ports.UnitOfWorkFactory,
	expirer OrderExpirer,
	paymentWindow time.Duration,
	clock ports.Clock,
) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{
		reader:    reader,
		freshness: freshness{reader: reader, expirer: expirer, paymentWindow: paymentWindow, clock: nowOr(clock)},
	}
}

// HandleCustomer lists the customer's orders newest first. Retired orders are left out.
func (h ListOrdersQueryHandler) HandleCustomer(ctx context.Context, query GetCustomerOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.Create().OrderRepository().ListByCustomer(ctx, query.Customer())
	if err != nil {
		return nil, err
	}
	return h.freshness.views(ctx, orders)
}

// HandleFacility lists the facility's orders. Only Paid, InProgress and Ready orders
// are active, so the lazy timeout cannot change an active listing and is skipped.
func (h ListOrdersQueryHandler) HandleFacility(ctx context.Context, query GetFacilityOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.Create().OrderRepository().ListByFacility(ctx, query.Facility(), query.ActiveOnly())
	if err != nil {
		return nil, err
	}
	if query.ActiveOnly() {
		views := make([]OrderView, 0, len(orders))
		for _, o := range orders {
			views = append(views, viewOf(o))
		}
		return views, nil
	}
	return h.freshness.views(ctx, orders)
}
