// Package services holds domain logic that spans several aggregates of the canteen.
//
// OrderMaterializer turns a session cart and the current catalog entries of its
// products into a placed Order, snapshotting every unit price.
package services
