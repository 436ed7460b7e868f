package order

import (
	"errors"
	"fmt"
	"strings"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/errs"
)

// LineItem is an immutable product line of an order. The unit price is a snapshot taken
// when the order was placed.
type LineItem struct {
	productID   kernel.UUID
	productName string
	quantity    int
	unitPrice   kernel.Money
}

// NewLineItem creates an order line with the unit price frozen at checkout.
func NewLineItem(productID kernel.UUID, productName string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	var nameErr, quantityErr error
	if strings.TrimSpace(productName) == "" {
		nameErr = errs.NewValueIsRequiredError("product name")
	}
	if quantity <= 0 {
		quantityErr = errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}

	if err := errors.Join(productID.Validate(), nameErr, quantityErr, unitPrice.Validate()); err != nil {
		return LineItem{}, err
	}

	return LineItem{
		productID:   productID,
		productName: strings.TrimSpace(productName),
		quantity:    quantity,
		unitPrice:   unitPrice,
	}, nil
}

// RestoreLineItem rebuilds a line item from storage without validation.
func RestoreLineItem(productID kernel.UUID, productName string, quantity int, unitPrice kernel.Money) LineItem {
	return LineItem{productID: productID, productName: productName, quantity: quantity, unitPrice: unitPrice}
}

func (l LineItem) ProductID() kernel.UUID {
	return l.productID
}

func (l LineItem) ProductName() string {
	return l.productName
}

func (l LineItem) Quantity() int {
	return l.quantity
}

func (l LineItem) UnitPrice() kernel.Money {
	return l.unitPrice
}

func (l LineItem) Subtotal() kernel.Money {
	return l.unitPrice.Mul(l.quantity)
}
