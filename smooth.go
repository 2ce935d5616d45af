package weighted

type smoothItem[T any] struct {
	item            T
	weight          int
	currentWeight   int
	effectiveWeight int
}

// Smooth selects items with the smooth weighted round-robin balancing
// used by nginx: on each selection every entry's current weight grows
// by its effective weight, the entry with the greatest current weight
// wins and pays the total of all effective weights back. For weights
// {5, 1, 1} this yields the sequence a a b a c a a instead of the
// bursty a a a a a b c.
//
// https://github.com/phusion/nginx/commit/27e94984486058d73157038f7950a0a36ecc6e35
type Smooth[T any] struct {
	items []*smoothItem[T]
}

// NewSmooth returns an empty Smooth selector.
func NewSmooth[T any]() *Smooth[T] {
	return &Smooth[T]{}
}

// Add appends a weighted item for selection.
func (w *Smooth[T]) Add(item T, weight int) {
	w.items = append(w.items, &smoothItem[T]{
		item:            item,
		weight:          weight,
		currentWeight:   0,
		effectiveWeight: weight,
	})
}

// Next returns the next selected item.
func (w *Smooth[T]) Next() (T, bool) {
	var zero T
	if len(w.items) == 0 {
		return zero, false
	}
	if len(w.items) == 1 {
		return w.items[0].item, true
	}

	var best *smoothItem[T]
	total := 0
	for _, it := range w.items {
		it.currentWeight += it.effectiveWeight
		total += it.effectiveWeight

		// recover toward the nominal weight after throttling
		if it.effectiveWeight < it.weight {
			it.effectiveWeight++
		}

		if best == nil || it.currentWeight > best.currentWeight {
			best = it
		}
	}

	if best == nil {
		return zero, false
	}
	best.currentWeight -= total
	return best.item, true
}

// All returns a snapshot of the current entries.
func (w *Smooth[T]) All() []Item[T] {
	all := make([]Item[T], 0, len(w.items))
	for _, it := range w.items {
		all = append(all, Item[T]{Value: it.item, Weight: it.weight})
	}
	return all
}

// RemoveAll removes all weighted items.
func (w *Smooth[T]) RemoveAll() {
	w.items = nil
}

// Reset resets the balancing algorithm, the entries are retained.
func (w *Smooth[T]) Reset() {
	for _, it := range w.items {
		it.currentWeight = 0
		it.effectiveWeight = it.weight
	}
}
