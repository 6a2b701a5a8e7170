package usecase

// Ring is a bounded FIFO; pushing past capacity evicts the oldest element.
// It is not safe for concurrent use; the engine guards it with its own mutex.
type Ring[T any] struct {
	items []T
	limit int
}

func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, 0, capacity), limit: capacity}
}

func (r *Ring[T]) Push(v T) {
	if len(r.items) == r.limit {
		copy(r.items, r.items[1:])
		r.items[len(r.items)-1] = v
		return
	}
	r.items = append(r.items, v)
}

func (r *Ring[T]) Len() int { return len(r.items) }

func (r *Ring[T]) Cap() int { return r.limit }

// Items returns a copy, oldest first.
func (r *Ring[T]) Items() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Tail returns a copy of the newest n elements, oldest first.
func (r *Ring[T]) Tail(n int) []T {
	if n > len(r.items) {
		n = len(r.items)
	}
	if n < 0 {
		n = 0
	}
	out := make([]T, n)
	copy(out, r.items[len(r.items)-n:])
	return out
}

// Last returns the newest element.
func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if len(r.items) == 0 {
		return zero, false
	}
	return r.items[len(r.items)-1], true
}

// Replace swaps the contents for vs, keeping only the newest elements that fit.
func (r *Ring[T]) Replace(vs []T) {
	if len(vs) > r.limit {
		vs = vs[len(vs)-r.limit:]
	}
	r.items = append(r.items[:0], vs...)
}

// Update rewrites the newest element matching pred in place.
func (r *Ring[T]) Update(pred func(T) bool, fn func(T) T) bool {
	for i := len(r.items) - 1; i >= 0; i-- {
		if pred(r.items[i]) {
			r.items[i] = fn(r.items[i])
			return true
		}
	}
	return false
}
