package models

import "fmt"

// Result carries a component output. When Fallback is set, Value holds the
// documented safe default and Err the reason it was used.
type Result[T any] struct {
	Value    T
	Fallback bool
	Err      error
}

// OK wraps a computed value.
func OK[T any](v T) Result[T] { return Result[T]{Value: v} }

// Fallback wraps a safe default together with the failure that caused it.
func Fallback[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Fallback: true, Err: err}
}

// Guard converts a panic raised inside a component into the fallback result.
// It must be deferred directly: defer models.Guard(fb, &res).
func Guard[T any](fallback T, res *Result[T]) {
	if r := recover(); r != nil {
		*res = Fallback(fallback, fmt.Errorf("recovered: %v", r))
	}
}
