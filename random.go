package weighted

import (
	"math/rand"
	"time"
)

type randItem[T any] struct {
	item   T
	weight int
}

// Random selects items randomly with probability proportional to
// weight. Each call is independent, so the weight configuration is
// followed only over many calls and the output is not smooth.
type Random[T any] struct {
	items        []randItem[T]
	sumOfWeights int
	r            *rand.Rand
}

// NewRandom returns an empty Random selector.
func NewRandom[T any]() *Random[T] {
	return &Random[T]{
		r: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Add appends a weighted item for selection.
func (w *Random[T]) Add(item T, weight int) {
	w.items = append(w.items, randItem[T]{item: item, weight: weight})
	w.sumOfWeights += weight
}

// Next returns the next randomly selected item.
func (w *Random[T]) Next() (T, bool) {
	var zero T
	if len(w.items) == 0 {
		return zero, false
	}
	if len(w.items) == 1 {
		return w.items[0].item, true
	}
	if w.sumOfWeights <= 0 {
		return zero, false
	}

	n := w.r.Intn(w.sumOfWeights) + 1
	for _, it := range w.items {
		n -= it.weight
		if n <= 0 {
			return it.item, true
		}
	}
	// not reachable while sumOfWeights matches the entries
	return w.items[len(w.items)-1].item, true
}

// All returns a snapshot of the current entries.
func (w *Random[T]) All() []Item[T] {
	all := make([]Item[T], 0, len(w.items))
	for _, it := range w.items {
		all = append(all, Item[T]{Value: it.item, Weight: it.weight})
	}
	return all
}

// RemoveAll removes all weighted items.
func (w *Random[T]) RemoveAll() {
	w.items = nil
	w.sumOfWeights = 0
	w.r = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Reset resets the balancing algorithm.
func (w *Random[T]) Reset() {
	w.r = rand.New(rand.NewSource(time.Now().UnixNano()))
}
