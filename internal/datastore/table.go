package datastore

import "sync"

// Cloner is implemented by every record held in the store so readers never
// share memory with the stored collection.
type Cloner[T any] interface {
	Clone() T
}

// Table is one collection of the store. All tables of a Store share the
// store's lock.
type Table[T Cloner[T]] struct {
	mu   *sync.RWMutex
	rows []T
}

func newTable[T Cloner[T]](mu *sync.RWMutex) *Table[T] {
	return &Table[T]{mu: mu}
}

// All returns a copy of every row in insertion order.
func (t *Table[T]) All() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return cloneRows(t.rows)
}

// Find returns a copy of the first row matching fn.
func (t *Table[T]) Find(fn func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		if fn(row) {
			return row.Clone(), true
		}
	}
	var zero T
	return zero, false
}

// Filter returns copies of every row matching fn.
func (t *Table[T]) Filter(fn func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0)
	for _, row := range t.rows {
		if fn(row) {
			out = append(out, row.Clone())
		}
	}
	return out
}

func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Replace swaps the whole collection.
func (t *Table[T]) Replace(rows []T) {
	next := cloneRows(rows)
	t.mu.Lock()
	t.rows = next
	t.mu.Unlock()
}

// Update hands fn a copy of the collection and stores what it returns. The
// collection is left untouched when fn fails.
func (t *Table[T]) Update(fn func(rows []T) ([]T, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := fn(cloneRows(t.rows))
	if err != nil {
		return err
	}
	t.rows = next
	return nil
}

func cloneRows[T Cloner[T]](rows []T) []T {
	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out
}

// Value is a single record of the store, such as integration settings.
type Value[T Cloner[T]] struct {
	mu  *sync.RWMutex
	val T
}

func newValue[T Cloner[T]](mu *sync.RWMutex) *Value[T] {
	return &Value[T]{mu: mu}
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.val.Clone()
}

func (v *Value[T]) Set(val T) {
	next := val.Clone()
	v.mu.Lock()
	v.val = next
	v.mu.Unlock()
}
