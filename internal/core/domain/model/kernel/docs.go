// Package kernel holds the value objects shared by every aggregate of the canteen
// ordering domain.
//
// The package includes:
//   - UUID: identifier of products, orders and line items
//   - Money: fixed-point amount used for prices and order totals
//   - Phone: normalized customer phone number, used as the customer reference and
//     as the notification recipient key
//
// Every value object is immutable. Zero values are invalid and are rejected by Validate,
// so a value that skipped its constructor cannot leak into an aggregate.
package kernel
