package queries

import (
	"context"
	"errors"
	"strings"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var ErrGetMenuQueryIsNotConstructed = errors.New(
	"GetMenuQuery must be created via NewGetMenuQuery constructor",
)

type GetMenuQuery struct {
	facility string

	guard guard.ConstructorGuard
}

// NewGetMenuQuery creates a query for a facility menu.
// Returns an error if the facility is blank.
func NewGetMenuQuery(facility string) (GetMenuQuery, error) {
	facility = strings.TrimSpace(facility)
	if facility == "" {
		return GetMenuQuery{}, errs.NewValueIsRequiredError("facility")
	}
	return GetMenuQuery{facility: facility, guard: guard.NewConstructorGuard()}, nil
}

func (q GetMenuQuery) Validate() error {
	return q.guard.Validate(ErrGetMenuQueryIsNotConstructed)
}

func (q GetMenuQuery) Facility() string {
	return q.facility
}

// MenuItem is a product as customers browse it. Remaining is product.Unmanaged for
// products without stock tracking.
type MenuItem struct {
	ID        kernel.UUID
	Name      string
	Price     kernel.Money
	Available bool
	Remaining int
}

// GetMenuQueryHandler reads a facility menu with its live stock.
type GetMenuQueryHandler struct {
	reader ports.UnitOfWorkFactory
}

// NewGetMenuQueryHandler creates a handler for facility menus.
func NewGetMenuQueryHandler(reader ports.UnitOfWorkFactory) GetMenuQueryHandler {
	return GetMenuQueryHandler{reader: reader}
}

// Handle lists the facility's products by name, unavailable ones included.
func (h GetMenuQueryHandler) Handle(ctx context.Context, query GetMenuQuery) ([]MenuItem, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	products, err := h.reader.Create().ProductRepository().ListByFacility(ctx, query.Facility())
	if err != nil {
		return nil, err
	}

	menu := make([]MenuItem, 0, len(products))
	for _, p := range products {
		menu = append(menu, MenuItem{
			ID:        p.ID(),
			Name:      p.Name(),
			Price:     p.Price(),
			Available: p.IsAvailable(),
			Remaining: remainingOf(p.IsStockManaged(), p.StockCount()),
		})
	}
	return menu, nil
}
