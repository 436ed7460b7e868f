package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/errs"
)

// MaxEstimatedReadyMinutes bounds the preparation estimate staff may announce.
const MaxEstimatedReadyMinutes = 240

// StatusChanged is raised by Apply for transitions the customer is told about.
// Persistent events stay in the notification queue until dismissed.
type StatusChanged struct {
	OrderID    kernel.UUID
	Customer   kernel.Phone
	Status     Status
	Message    string
	Persistent bool
	OccurredAt time.Time
}

// Order is the aggregate root of the ledger. Its status only changes through Apply.
type Order struct {
	id           kernel.UUID
	customer     kernel.Phone
	customerName string
	facility     string

	status           Status
	paymentMethod    PaymentMethod
	paymentStatus    PaymentStatus
	paymentReference string

	// estimatedReadyMinutes is zero until staff accepts the order.
	estimatedReadyMinutes int

	items     []LineItem
	createdAt time.Time
	updatedAt time.Time
	retired   bool

	events []StatusChanged

	isConstructed bool
}

// NewOrder creates a Pending order. Placement itself is the TriggerPlace transition.
func NewOrder(
	id kernel.UUID,
	customer kernel.Phone,
	customerName string,
	facility string,
	method PaymentMethod,
	items []LineItem,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentUnpaid,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomer(customer, customerName),
		o.setFacility(facility),
		o.setPaymentMethod(method),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order read from storage. Values are trusted as persisted.
func RestoreOrder(
	id kernel.UUID,
	customer kernel.Phone,
	customerName string,
	facility string,
	status Status,
	method PaymentMethod,
	paymentStatus PaymentStatus,
	paymentReference string,
	estimatedReadyMinutes int,
	items []LineItem,
	createdAt time.Time,
	updatedAt time.Time,
	retired bool,
) *Order {
	return &Order{
		id:                    id,
		customer:              customer,
		customerName:          customerName,
		facility:              facility,
		status:                status,
		paymentMethod:         method,
		paymentStatus:         paymentStatus,
		paymentReference:      paymentReference,
		estimatedReadyMinutes: estimatedReadyMinutes,
		items:                 slices.Clone(items),
		createdAt:             createdAt,
		updatedAt:             updatedAt,
		retired:               retired,
		isConstructed:         true,
	}
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Customer() kernel.Phone {
	return o.customer
}

func (o *Order) CustomerName() string {
	return o.customerName
}

func (o *Order) Facility() string {
	return o.facility
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

func (o *Order) PaymentReference() string {
	return o.paymentReference
}

func (o *Order) EstimatedReadyMinutes() int {
	return o.estimatedReadyMinutes
}

// Items returns a copy of the line items.
func (o *Order) Items() []LineItem {
	return slices.Clone(o.items)
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) IsRetired() bool {
	return o.retired
}

// Total is the sum of the line subtotals at their snapshot prices.
func (o *Order) Total() kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Quantities maps each product of the order to its ordered quantity.
func (o *Order) Quantities() map[kernel.UUID]int {
	quantities := make(map[kernel.UUID]int, len(o.items))
	for _, item := range o.items {
		quantities[item.ProductID()] += item.Quantity()
	}
	return quantities
}

// IsPaymentOverdue reports whether an online order has waited for the gateway longer
// than window.
func (o *Order) IsPaymentOverdue(now time.Time, window time.Duration) bool {
	return o.status == PaymentPending && now.Sub(o.createdAt) > window
}

// VerifyPayment checks that a gateway amount settles the order total exactly.
func (o *Order) VerifyPayment(amount kernel.Money) error {
	if !o.Total().IsEqual(amount) {
		return NewPaymentMismatchError(o.id, o.Total().String(), amount.String())
	}
	return nil
}

// ApplyOption carries the data some triggers record alongside the status change.
type ApplyOption func(*applyOptions)

type applyOptions struct {
	estimatedReadyMinutes int
	paymentReference      string
}

// WithEstimatedReadyMinutes records the preparation estimate on TriggerAccept.
func WithEstimatedReadyMinutes(minutes int) ApplyOption {
	return func(o *applyOptions) {
		o.estimatedReadyMinutes = minutes
	}
}

// WithPaymentReference records the gateway reference on TriggerPaymentConfirmed.
func WithPaymentReference(reference string) ApplyOption {
	return func(o *applyOptions) {
		o.paymentReference = strings.TrimSpace(reference)
	}
}

// Apply moves the order along the transition table. On failure the order is unchanged
// and the error is an *InvalidTransitionError carrying the current status.
func (o *Order) Apply(trigger Trigger, now time.Time, opts ...ApplyOption) error {
	var options applyOptions
	for _, opt := range opts {
		opt(&options)
	}

	next, err := o.status.Next(trigger, o.paymentMethod)
	if err != nil {
		var transitionErr *InvalidTransitionError
		if errors.As(err, &transitionErr) {
			transitionErr.OrderID = o.id
		}
		return err
	}

	if trigger == TriggerAccept && options.estimatedReadyMinutes != 0 {
		if options.estimatedReadyMinutes < 0 || options.estimatedReadyMinutes > MaxEstimatedReadyMinutes {
			return errs.NewValueIsOutOfRangeError(
				"estimated ready minutes", options.estimatedReadyMinutes, 0, MaxEstimatedReadyMinutes,
			)
		}
		o.estimatedReadyMinutes = options.estimatedReadyMinutes
	}

	switch {
	case trigger == TriggerPaymentConfirmed:
		o.paymentStatus = PaymentPaid
		o.paymentReference = options.paymentReference
	case trigger == TriggerPaymentFailed:
		o.paymentStatus = PaymentFailed
	case next.ReleasesStock() && o.paymentStatus == PaymentPaid:
		o.paymentStatus = PaymentRefunded
	}

	o.status = next
	o.updatedAt = now

	if trigger.notifies() {
		o.raise(now)
	}
	return nil
}

// Retire soft-deletes a finished order from active listings.
func (o *Order) Retire(now time.Time) error {
	if !o.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"order", fmt.Errorf("%s is not a terminal status, order cannot be retired", o.status),
		)
	}
	o.retired = true
	o.updatedAt = now
	return nil
}

// Events returns the status changes raised since the last ClearEvents.
func (o *Order) Events() []StatusChanged {
	return slices.Clone(o.events)
}

func (o *Order) ClearEvents() {
	o.events = nil
}

func (o *Order) raise(now time.Time) {
	message := o.status.Description()
	if o.status == InProgress && o.estimatedReadyMinutes > 0 {
		message = fmt.Sprintf("%s, ready in about %d minutes", message, o.estimatedReadyMinutes)
	}

	o.events = append(o.events, StatusChanged{
		OrderID:    o.id,
		Customer:   o.customer,
		Status:     o.status,
		Message:    message,
		Persistent: o.status == Ready,
		OccurredAt: now,
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomer(customer kernel.Phone, name string) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("customer name")
	}
	o.customer = customer
	o.customerName = name
	return nil
}

func (o *Order) setFacility(facility string) error {
	facility = strings.TrimSpace(facility)
	if facility == "" {
		return errs.NewValueIsRequiredError("facility")
	}
	o.facility = facility
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("line items")
	}
	for _, item := range items {
		if err := item.ProductID().Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("line item", err)
		}
	}
	o.items = slices.Clone(items)
	return nil
}
