package repositories

import "errors"

var (
	// ErrNotFound is wrapped by repositories when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStockConflict is returned by OrderRepository.Place when the
	// conditional stock decrement matches no row, meaning another checkout
	// claimed the units first. The whole transaction is rolled back.
	ErrStockConflict = errors.New("stock conflict")
)
