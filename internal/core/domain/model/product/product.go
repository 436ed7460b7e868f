package product

import (
	"errors"
	"fmt"
	"strings"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/errs"
)

// Unmanaged is the remaining count reported for products without managed stock.
const Unmanaged = -1

// Product is a menu item offered by one facility.
//
// Invariants:
//   - id, name, facility and price are valid
//   - with managed stock, 0 <= stockCount <= stockCapacity
//   - version only moves forward and is advanced by repositories after each write
type Product struct {
	id       kernel.UUID
	name     string
	facility string
	price    kernel.Money

	available     bool
	stockManaged  bool
	stockCount    int
	stockCapacity int

	version int

	isConstructed bool
}

// NewProduct creates an available product. When stockManaged is true, stock is both the
// initial count and the capacity ceiling; otherwise it must be zero.
func NewProduct(
	id kernel.UUID,
	name string,
	facility string,
	price kernel.Money,
	stockManaged bool,
	stock int,
) (*Product, error) {
	p := &Product{
		available:     true,
		stockManaged:  stockManaged,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setFacility(facility),
		p.setPrice(price),
		p.setStock(stockManaged, stock, stock),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreProduct rebuilds a product from storage, re-checking every invariant.
func RestoreProduct(
	id kernel.UUID,
	name string,
	facility string,
	price kernel.Money,
	available bool,
	stockManaged bool,
	stockCount int,
	stockCapacity int,
	version int,
) (*Product, error) {
	p := &Product{
		available:     available,
		stockManaged:  stockManaged,
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setFacility(facility),
		p.setPrice(price),
		p.setStock(stockManaged, stockCount, stockCapacity),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

func (p *Product) ID() kernel.UUID {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Facility() string {
	return p.facility
}

func (p *Product) Price() kernel.Money {
	return p.price
}

func (p *Product) IsAvailable() bool {
	return p.available
}

func (p *Product) IsStockManaged() bool {
	return p.stockManaged
}

func (p *Product) StockCount() int {
	return p.stockCount
}

func (p *Product) StockCapacity() int {
	return p.stockCapacity
}

func (p *Product) Version() int {
	return p.version
}

// Reserve moves delta units of stock: a positive delta takes stock (cart add, order
// placement), a negative delta returns it (cart decrease or removal, cancellation).
//
// It returns ok=false with the state untouched when taking would push the count below
// zero. Returning more than the capacity is a bookkeeping bug and is reported as an
// out of range error. Products without managed stock always succeed and report Unmanaged.
func (p *Product) Reserve(delta int) (bool, int, error) {
	if delta == 0 {
		return false, p.remaining(), errs.NewValueIsInvalidErrorWithCause("delta", errors.New("must not be zero"))
	}

	if delta > 0 && !p.available {
		return false, p.remaining(), NewUnavailableError(p)
	}

	if !p.stockManaged {
		return true, Unmanaged, nil
	}

	next := p.stockCount - delta
	if next < 0 {
		return false, p.stockCount, nil
	}
	if next > p.stockCapacity {
		return false, p.stockCount, errs.NewValueIsOutOfRangeError("stock count", next, 0, p.stockCapacity)
	}

	p.stockCount = next
	return true, next, nil
}

// CanSupply reports whether quantity more units could be reserved right now.
func (p *Product) CanSupply(quantity int) error {
	if !p.available {
		return NewUnavailableError(p)
	}
	if p.stockManaged && p.stockCount < quantity {
		return NewInsufficientStockError(p, quantity)
	}
	return nil
}

// ChangePrice sets the catalog price. Placed orders keep the price they snapshotted.
func (p *Product) ChangePrice(price kernel.Money) error {
	return p.setPrice(price)
}

// SetAvailable switches the product on or off in the catalog.
func (p *Product) SetAvailable(available bool) {
	p.available = available
}

// AdvanceVersion is called by repositories once a write based on the current version
// has been stored.
func (p *Product) AdvanceVersion() {
	p.version++
}

func (p *Product) remaining() int {
	if !p.stockManaged {
		return Unmanaged
	}
	return p.stockCount
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Product) setFacility(facility string) error {
	facility = strings.TrimSpace(facility)
	if facility == "" {
		return errs.NewValueIsRequiredError("facility")
	}
	p.facility = facility
	return nil
}

func (p *Product) setPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	p.price = price
	return nil
}

func (p *Product) setStock(managed bool, count, capacity int) error {
	if !managed {
		if count != 0 || capacity != 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				"stock", fmt.Errorf("stock %d/%d given for a product without managed stock", count, capacity),
			)
		}
		return nil
	}

	if capacity < 0 {
		return errs.NewValueIsOutOfRangeError("stock capacity", capacity, 0, "unbounded")
	}
	if count < 0 || count > capacity {
		return errs.NewValueIsOutOfRangeError("stock count", count, 0, capacity)
	}

	p.stockCount = count
	p.stockCapacity = capacity
	return nil
}
