// Package cart models the ephemeral staging area a customer session fills before
// placing an order. A cart only tracks product quantities; prices are read from the
// catalog when the cart is summarized and snapshotted when an order is placed.
package cart

import (
	"errors"
	"slices"
	"strings"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/errs"
)

var (
	ErrCartIsNotConstructed = errors.New("Cart must be created via NewCart constructor")
	ErrEmptyCart            = errors.New("cart is empty")
)

// Line is one product of the cart with a positive quantity.
type Line struct {
	ProductID kernel.UUID
	Quantity  int
}

// Cart is keyed by the caller owned session id. Lines keep insertion order and a line
// disappears as soon as its quantity reaches zero.
type Cart struct {
	sessionID string
	lines     []Line
	touchedAt time.Time

	isConstructed bool
}

// NewCart creates an empty cart for a session, touched at now.
func NewCart(sessionID string, now time.Time) (*Cart, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errs.NewValueIsRequiredError("session")
	}
	return &Cart{sessionID: sessionID, touchedAt: now, isConstructed: true}, nil
}

// RestoreCart rebuilds a cart from a stored snapshot.
func RestoreCart(sessionID string, lines []Line, touchedAt time.Time) *Cart {
	return &Cart{sessionID: sessionID, lines: slices.Clone(lines), touchedAt: touchedAt, isConstructed: true}
}

func (c *Cart) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCartIsNotConstructed
	}
	return nil
}

func (c *Cart) SessionID() string {
	return c.sessionID
}

// TouchedAt is the time of the last mutation; idle carts expire relative to it.
func (c *Cart) TouchedAt() time.Time {
	return c.touchedAt
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	return slices.Clone(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Count is the total number of units in the cart.
func (c *Cart) Count() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Quantities maps every product of the cart to its quantity.
func (c *Cart) Quantities() map[kernel.UUID]int {
	quantities := make(map[kernel.UUID]int, len(c.lines))
	for _, l := range c.lines {
		quantities[l.ProductID] = l.Quantity
	}
	return quantities
}

// ProductIDs lists the products of the cart in insertion order.
func (c *Cart) ProductIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(c.lines))
	for _, l := range c.lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

func (c *Cart) Quantity(productID kernel.UUID) int {
	if i := c.indexOf(productID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// Add puts one more unit of the product in the cart.
func (c *Cart) Add(productID kernel.UUID, now time.Time) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	if i := c.indexOf(productID); i >= 0 {
		c.lines[i].Quantity++
	} else {
		c.lines = append(c.lines, Line{ProductID: productID, Quantity: 1})
	}
	c.touchedAt = now
	return nil
}

// Decrease takes one unit out. The line is dropped when it reaches zero.
func (c *Cart) Decrease(productID kernel.UUID, now time.Time) error {
	i := c.indexOf(productID)
	if i < 0 {
		return errs.NewObjectNotFoundError("cart item", productID.String())
	}

	c.lines[i].Quantity--
	if c.lines[i].Quantity == 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
	}
	c.touchedAt = now
	return nil
}

// Remove drops the whole line and returns how many units it held.
func (c *Cart) Remove(productID kernel.UUID, now time.Time) (int, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return 0, errs.NewObjectNotFoundError("cart item", productID.String())
	}

	quantity := c.lines[i].Quantity
	c.lines = slices.Delete(c.lines, i, i+1)
	c.touchedAt = now
	return quantity, nil
}

// IsExpired reports whether the cart has been idle for longer than ttl.
func (c *Cart) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.touchedAt) > ttl
}

func (c *Cart) indexOf(productID kernel.UUID) int {
	return slices.IndexFunc(c.lines, func(l Line) bool {
		return l.ProductID.IsEqual(productID)
	})
}
