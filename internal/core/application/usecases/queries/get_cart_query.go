package queries

import (
	"context"
	"errors"
	"strings"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var ErrGetCartQueryIsNotConstructed = errors.New(
	"GetCartQuery must be created via NewGetCartQuery constructor",
)

type GetCartQuery struct {
	session string

	guard guard.ConstructorGuard
}

// NewGetCartQuery creates a query for the cart of a session.
func NewGetCartQuery(session string) (GetCartQuery, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return GetCartQuery{}, errs.NewValueIsRequiredError("session")
	}
	return GetCartQuery{session: session, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCartQuery) Validate() error {
	return q.guard.Validate(ErrGetCartQueryIsNotConstructed)
}

func (q GetCartQuery) Session() string {
	return q.session
}

type CartItemView struct {
	ProductID kernel.UUID
	Name      string
	UnitPrice kernel.Money
	Quantity  int
	Subtotal  kernel.Money
	Available bool
}

// CartSummary prices a cart at current catalog prices. Count is the number of units.
type CartSummary struct {
	Session string
	Items   []CartItemView
	Total   kernel.Money
	Count   int
}

// GetCartQueryHandler prices a session cart with current catalog data.
type GetCartQueryHandler struct {
	carts  ports.CartStore
	reader ports.UnitOfWorkFactory
}

// NewGetCartQueryHandler creates a handler for cart summaries.
func NewGetCartQueryHandler(carts ports.CartStore, reader ports.UnitOfWorkFactory) GetCartQueryHandler {
	return GetCartQueryHandler{carts: carts, reader: reader}
}

// Handle returns an empty summary for a session without a cart.
func (h GetCartQueryHandler) Handle(ctx context.Context, query GetCartQuery) (CartSummary, error) {
	if err := query.Validate(); err != nil {
		return CartSummary{}, err
	}

	summary := CartSummary{Session: query.Session(), Items: []CartItemView{}, Total: kernel.ZeroMoney()}

	c, err := h.carts.Get(ctx, query.Session())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return summary, nil
	}
	if err != nil {
		return CartSummary{}, err
	}
	if c.IsEmpty() {
		return summary, nil
	}

	products, err := h.reader.Create().ProductRepository().GetMany(ctx, c.ProductIDs())
	if err != nil {
		return CartSummary{}, err
	}
	catalog := make(map[kernel.UUID]*product.Product, len(products))
	for _, p := range products {
		catalog[p.ID()] = p
	}

	for _, line := range c.Lines() {
		p := catalog[line.ProductID]
		subtotal := p.Price().Mul(line.Quantity)
		summary.Items = append(summary.Items, CartItemView{
			ProductID: line.ProductID,
			Name:      p.Name(),
			UnitPrice: p.Price(),
			Quantity:  line.Quantity,
			Subtotal:  subtotal,
			Available: p.IsAvailable(),
		})
		summary.Total = summary.Total.Add(subtotal)
		summary.Count += line.Quantity
	}
	return summary, nil
}

func remainingOf(stockManaged bool, count int) int {
	if !stockManaged {
		return product.Unmanaged
	}
	return count
}
