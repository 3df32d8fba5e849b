// Package collection holds the generic slice helpers used across the
// app layer: building order snapshots from cart lines, totalling
// carts, deduplicating ids for preloads.
package collection

// Map applies fn to every element and returns the results.
func Map[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(items[i])
	}
	return out
}

// Filter keeps the elements fn accepts.
func Filter[T any](items []T, fn func(T) bool) []T {
	out := items[:0:0]
	for _, item := range items {
		if fn(item) {
			out = append(out, item)
		}
	}
	return out
}

// First returns the first element fn accepts.
func First[T any](items []T, fn func(T) bool) (T, bool) {
	for _, item := range items {
		if fn(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Contains reports whether fn accepts any element.
func Contains[T any](items []T, fn func(T) bool) bool {
	_, ok := First(items, fn)
	return ok
}

// Reduce folds items into acc.
func Reduce[T, R any](items []T, acc R, fn func(R, T) R) R {
	for _, item := range items {
		acc = fn(acc, item)
	}
	return acc
}

// Sum totals the value fn extracts from each element.
func Sum[T any](items []T, fn func(T) float64) float64 {
	return Reduce(items, 0, func(total float64, item T) float64 {
		return total + fn(item)
	})
}

// Unique drops duplicate values, keeping first occurrences in order.
func Unique[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := items[:0:0]
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// KeyBy indexes items by the key fn produces; later elements win on
// collisions.
func KeyBy[T any, K comparable](items []T, fn func(T) K) map[K]T {
	out := make(map[K]T, len(items))
	for _, item := range items {
		out[fn(item)] = item
	}
	return out
}

// GroupBy buckets items by the key fn produces.
func GroupBy[T any, K comparable](items []T, fn func(T) K) map[K][]T {
	out := make(map[K][]T)
	for _, item := range items {
		k := fn(item)
		out[k] = append(out[k], item)
	}
	return out
}

// Chunk splits items into runs of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size < 1 {
		return nil
	}
	var out [][]T
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
