// Package metadata provides a heterogeneous, type-erased key/value store for
// table-level annotations.
//
// Values of any type are stored under string keys. The concrete type is
// recorded at insertion and retrieval requires the exact same type: a
// mismatch fails with ErrTypeMismatch rather than attempting a coercion.
// Beyond match/mismatch the store offers no type introspection; consumers
// enumerating a store need external knowledge of each value's concrete type.
//
// Access goes through the generic package-level functions:
//
//	store := metadata.NewStore()
//	_ = metadata.Insert(store, "subject-mass", 72.5)
//
//	mass, err := metadata.Get[float64](store, "subject-mass") // 72.5
//	_, err = metadata.Get[int](store, "subject-mass")         // ErrTypeMismatch
//
// The store is not safe for concurrent use; it is owned by a single table and
// shares that table's single-threaded contract.
package metadata
