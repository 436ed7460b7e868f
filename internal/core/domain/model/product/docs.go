// Package product provides the catalog aggregate of the canteen: a menu item with a
// price, an availability flag and an optional managed stock count.
//
// Key business rules:
//   - A product with managed stock satisfies 0 <= stock count <= stock capacity at all times
//   - A product without managed stock is never stock-checked
//   - An unavailable product cannot be reserved, but stock may always be released back to it
//   - Prices are snapshotted by orders, so changing a price never affects placed orders
package product
