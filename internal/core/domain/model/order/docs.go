// Package order contains the Order aggregate of the canteen and the state machine that
// drives it from checkout to pickup.
//
// An order is created from a cart in the Pending state and then only moves through
// Apply with one of the Trigger values. The transition table lives in status.go:
//
//	Pending ──place(online)──> PaymentPending ──payment_confirmed──> Paid
//	Pending ──place(cash)────> Paid
//	PaymentPending ──payment_timeout_or_failed──> Cancelled
//	Paid ──staff_accept──> InProgress ──staff_mark_ready──> Ready ──staff_mark_completed──> Completed
//	Paid ──staff_decline──> Declined
//	Pending, PaymentPending, Paid ──customer_cancel──> Cancelled
//
// Completed, Declined and Cancelled are terminal. Line items snapshot the unit price at
// placement, so later catalog price changes never alter an order total.
package order
