package product

import (
	"errors"
	"fmt"

	"canteen/internal/core/domain/model/kernel"
)

var (
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrProductUnavailable      = errors.New("product unavailable")
)

// InsufficientStockError names the product whose stock could not cover a reservation.
type InsufficientStockError struct {
	ProductID kernel.UUID
	Name      string
	Requested int
	Remaining int
}

func NewInsufficientStockError(p *Product, requested int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: p.ID(),
		Name:      p.Name(),
		Requested: requested,
		Remaining: p.StockCount(),
	}
}

func (e *InsufficientStockError) Error() string {
	item := e.Name
	if item == "" {
		item = e.ProductID.String()
	}
	return fmt.Sprintf("%s: %s requested %d, %d left", ErrInsufficientStock, item, e.Requested, e.Remaining)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// UnavailableError names a product that is switched off in the catalog.
type UnavailableError struct {
	ProductID kernel.UUID
	Name      string
}

func NewUnavailableError(p *Product) *UnavailableError {
	return &UnavailableError{ProductID: p.ID(), Name: p.Name()}
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrProductUnavailable, e.Name)
}

func (e *UnavailableError) Unwrap() error {
	return ErrProductUnavailable
}
