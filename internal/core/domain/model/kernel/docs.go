// Package kernel contains shared value objects used across the fulfillment
// domain model.
//
// The kernel provides:
//   - UUID: validated entity identifiers over github.com/google/uuid
//   - GeoPoint: WGS84 delivery coordinates with bounds validation
//   - Money: integer-cent monetary amounts safe for recomputation
//
// All kernel types are immutable value objects. They are created through
// constructor functions that enforce their invariants, and expose Validate
// methods so aggregates can verify values reconstructed from persistence.
package kernel
