package memstore

import (
	"maps"
	"slices"
)

// table is one entity kind: rows keyed by id plus the id counter.
// Callers hold the Store lock.
type table[T any] struct {
	last uint
	rows map[uint]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uint]T)}
}

func (t *table[T]) nextID() uint {
	t.last++
	return t.last
}

func (t *table[T]) get(id uint) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id uint, v T) {
	t.rows[id] = v
}

func (t *table[T]) remove(id uint) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// where returns matching rows ordered by id.
func (t *table[T]) where(match func(T) bool) []T {
	out := make([]T, 0)
	for _, id := range slices.Sorted(maps.Keys(t.rows)) {
		if v := t.rows[id]; match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) exists(match func(T) bool) bool {
	for _, v := range t.rows {
		if match(v) {
			return true
		}
	}
	return false
}
