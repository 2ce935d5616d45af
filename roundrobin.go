package weighted

type rrItem[T any] struct {
	item   T
	weight int
}

// RoundRobin selects items with the weighted round-robin scheduling
// used by LVS: the cursor sweeps the entries repeatedly while a
// countdown weight steps down by the GCD of all positive weights, so
// each entry is returned exactly weight times per cycle.
//
// http://kb.linuxvirtualserver.org/wiki/Weighted_Round-Robin_Scheduling
type RoundRobin[T any] struct {
	items []rrItem[T]
	gcd   int
	maxW  int
	i     int
	cw    int
}

// NewRoundRobin returns an empty RoundRobin selector.
func NewRoundRobin[T any]() *RoundRobin[T] {
	return &RoundRobin[T]{i: -1}
}

// Add appends a weighted item for selection.
func (w *RoundRobin[T]) Add(item T, weight int) {
	if weight > 0 {
		if w.gcd == 0 {
			// first eligible entry restarts the cycle
			w.gcd = weight
			w.maxW = weight
			w.i = -1
			w.cw = 0
		} else {
			w.gcd = gcd(w.gcd, weight)
			if w.maxW < weight {
				w.maxW = weight
			}
		}
	}

	w.items = append(w.items, rrItem[T]{item: item, weight: weight})
}

// Next returns the next selected item. When none of the entries has a
// positive weight it returns false.
func (w *RoundRobin[T]) Next() (T, bool) {
	var zero T
	if len(w.items) == 0 {
		return zero, false
	}
	if len(w.items) == 1 {
		return w.items[0].item, true
	}

	for {
		w.i = (w.i + 1) % len(w.items)
		if w.i == 0 {
			w.cw -= w.gcd
			if w.cw <= 0 {
				w.cw = w.maxW
				if w.cw == 0 {
					return zero, false
				}
			}
		}

		if w.items[w.i].weight >= w.cw {
			return w.items[w.i].item, true
		}
	}
}

// All returns a snapshot of the current entries.
func (w *RoundRobin[T]) All() []Item[T] {
	all := make([]Item[T], 0, len(w.items))
	for _, it := range w.items {
		all = append(all, Item[T]{Value: it.item, Weight: it.weight})
	}
	return all
}

// RemoveAll removes all weighted items.
func (w *RoundRobin[T]) RemoveAll() {
	w.items = nil
	w.gcd = 0
	w.maxW = 0
	w.i = -1
	w.cw = 0
}

// Reset resets the balancing algorithm, the entries are retained.
func (w *RoundRobin[T]) Reset() {
	w.i = -1
	w.cw = 0
}

func gcd(x, y int) int {
	for {
		t := x % y
		if t <= 0 {
			return y
		}
		x, y = y, t
	}
}
