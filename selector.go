package weighted

// Item is one weighted candidate as reported by All.
type Item[T any] struct {
	Value  T
	Weight int
}

// Selector selects one item per Next call such that over many calls
// each item is returned in proportion to its weight.
//
// Weight signs are not validated at Add time; entries with zero or
// negative weight are kept but never selected, except that a selector
// holding exactly one entry always returns it.
type Selector[T any] interface {
	// Add appends a weighted item for selection. Adding the same
	// item twice creates two independent entries.
	Add(item T, weight int)

	// Next returns the next selected item. The second return value
	// is false when there is no entry or no eligible weight.
	Next() (T, bool)

	// All returns a snapshot of the current entries in insertion
	// order. It never advances selection state.
	All() []Item[T]

	// RemoveAll removes every entry and resets all aggregate state
	// to its construction-time value.
	RemoveAll()

	// Reset clears only cursor and accumulator state, the entries
	// and their weights are retained.
	Reset()
}
