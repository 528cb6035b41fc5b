package report

import (
	"time"

	"github.com/vasiliy-maslov/ecommerce-microservices/report-service/internal/snapshot"
)

// Predicate is a pure boolean filter over a single entity. Predicates are
// built as data first and applied in a separate evaluation pass, so a query
// description can be inspected and tested without a snapshot.
type Predicate[T any] func(T) bool

func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

func Or[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if p(v) {
				return true
			}
		}
		return false
	}
}

func Not[T any](pred Predicate[T]) Predicate[T] {
	return func(v T) bool {
		return !pred(v)
	}
}

// Any is the existential quantifier over a related collection: true iff at
// least one element satisfies the predicate, vacuously false when empty.
func Any[T any](items []T, pred Predicate[T]) bool {
	for _, item := range items {
		if pred(item) {
			return true
		}
	}
	return false
}

// Filter returns the elements satisfying the predicate, preserving order.
func Filter[T any](items []T, pred Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Project maps each element to its output shape, preserving order.
func Project[T, R any](items []T, f func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, f(item))
	}
	return out
}

// StatusIs matches orders in the given status.
func StatusIs(status snapshot.OrderStatus) Predicate[snapshot.Order] {
	return func(o snapshot.Order) bool {
		return o.Status == status
	}
}

// PlacedSince matches orders dated at or after the cutoff (boundary inclusive).
func PlacedSince(cutoff time.Time) Predicate[snapshot.Order] {
	return func(o snapshot.Order) bool {
		return !o.OrderDate.Before(cutoff)
	}
}

// HasDiscount matches items with a recorded discount greater than zero.
// An absent discount does not satisfy the comparison — zero-coalescing is an
// aggregation rule, not a filter rule.
func HasDiscount(item snapshot.OrderItem) bool {
	return item.Discount.Valid && item.Discount.Decimal.IsPositive()
}
