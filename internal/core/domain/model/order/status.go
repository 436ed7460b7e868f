package order

import (
	"fmt"
	"slices"
	"strings"

	"canteen/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	PaymentPending
	Paid
	InProgress
	Ready
	Completed
	Declined
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Pending:        "Pending",
		PaymentPending: "PaymentPending",
		Paid:           "Paid",
		InProgress:     "InProgress",
		Ready:          "Ready",
		Completed:      "Completed",
		Declined:       "Declined",
		Cancelled:      "Cancelled",
	}
}

func getStatusDescriptions() map[Status]string {
	//nolint:exhaustive // Unknown has no description
	return map[Status]string{
		Pending:        "Order received, waiting for confirmation",
		PaymentPending: "Payment required to proceed",
		Paid:           "Payment confirmed, order queued",
		InProgress:     "Your order is being prepared",
		Ready:          "Order ready for pickup!",
		Completed:      "Order completed successfully",
		Declined:       "Order was declined by the canteen",
		Cancelled:      "Order has been cancelled",
	}
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, PaymentPending, Paid, InProgress, Ready, Completed, Declined, Cancelled}
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Description is the customer facing text for the status.
func (s Status) Description() string {
	if d, ok := getStatusDescriptions()[s]; ok {
		return d
	}
	return "Order status updated"
}

func (s Status) IsTerminal() bool {
	return s == Completed || s == Declined || s == Cancelled
}

// IsActive reports whether staff still has work to do on the order.
func (s Status) IsActive() bool {
	return s == Paid || s == InProgress || s == Ready
}

// ReleasesStock reports whether entering s gives the reserved quantities back to the catalog.
func (s Status) ReleasesStock() bool {
	return s == Cancelled || s == Declined
}

// Trigger is an event that may move an order to another status.
type Trigger int

const (
	UnknownTrigger Trigger = iota
	TriggerPlace
	TriggerPaymentConfirmed
	TriggerPaymentFailed
	TriggerAccept
	TriggerDecline
	TriggerMarkReady
	TriggerMarkCompleted
	TriggerCancel
)

func getTriggerStrings() map[Trigger]string {
	return map[Trigger]string{
		UnknownTrigger:          "unknown",
		TriggerPlace:            "place_order",
		TriggerPaymentConfirmed: "payment_confirmed",
		TriggerPaymentFailed:    "payment_timeout_or_failed",
		TriggerAccept:           "staff_accept",
		TriggerDecline:          "staff_decline",
		TriggerMarkReady:        "staff_mark_ready",
		TriggerMarkCompleted:    "staff_mark_completed",
		TriggerCancel:           "customer_cancel",
	}
}

// AllTriggers lists every valid trigger.
func AllTriggers() []Trigger {
	return []Trigger{
		TriggerPlace, TriggerPaymentConfirmed, TriggerPaymentFailed, TriggerAccept,
		TriggerDecline, TriggerMarkReady, TriggerMarkCompleted, TriggerCancel,
	}
}

func ParseTrigger(s string) (Trigger, error) {
	for trigger, name := range getTriggerStrings() {
		if trigger != UnknownTrigger && name == strings.TrimSpace(s) {
			return trigger, nil
		}
	}
	return UnknownTrigger, errs.NewValueIsInvalidErrorWithCause("trigger", fmt.Errorf("%q is not a valid trigger", s))
}

func (t Trigger) String() string {
	if str, ok := getTriggerStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// IsStaffTrigger reports whether the trigger belongs to the fulfillment staff flow.
func (t Trigger) IsStaffTrigger() bool {
	return t == TriggerAccept || t == TriggerDecline || t == TriggerMarkReady || t == TriggerMarkCompleted
}

// notifies reports whether an accepted transition by t is announced to the customer.
func (t Trigger) notifies() bool {
	return t == TriggerAccept || t == TriggerMarkReady || t == TriggerMarkCompleted
}

type transition struct {
	from []Status
	to   func(method PaymentMethod) Status
}

func to(s Status) func(PaymentMethod) Status {
	return func(PaymentMethod) Status { return s }
}

func getTransitions() map[Trigger]transition {
	return map[Trigger]transition{
		TriggerPlace: {
			from: []Status{Pending},
			to: func(method PaymentMethod) Status {
				if method == Online {
					return PaymentPending
				}
				return Paid
			},
		},
		TriggerPaymentConfirmed: {from: []Status{PaymentPending}, to: to(Paid)},
		TriggerPaymentFailed:    {from: []Status{PaymentPending}, to: to(Cancelled)},
		TriggerAccept:           {from: []Status{Paid}, to: to(InProgress)},
		TriggerDecline:          {from: []Status{Paid}, to: to(Declined)},
		TriggerMarkReady:        {from: []Status{InProgress}, to: to(Ready)},
		TriggerMarkCompleted:    {from: []Status{Ready}, to: to(Completed)},
		TriggerCancel:           {from: []Status{Pending, PaymentPending, Paid}, to: to(Cancelled)},
	}
}

// Next resolves the status reached from s by t. It fails with ErrInvalidTransition when
// the table has no edge for the pair.
func (s Status) Next(t Trigger, method PaymentMethod) (Status, error) {
	tr, ok := getTransitions()[t]
	if !ok || !slices.Contains(tr.from, s) {
		return s, &InvalidTransitionError{Trigger: t, Current: s}
	}
	return tr.to(method), nil
}

// CanApply reports whether Next would succeed without computing the target.
func (s Status) CanApply(t Trigger) bool {
	tr, ok := getTransitions()[t]
	return ok && slices.Contains(tr.from, s)
}
