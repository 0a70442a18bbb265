package record

import (
	"iter"
	"maps"
	"slices"
)

// Extras stores the undeclared keys of a wildcat. Embed it into a struct to
// make the struct a wildcat:
//
//	type Organization struct {
//		record.Extras
//		Name string `json:"name"`
//	}
//
// Extras can only be changed through SetItem, DelItem and Update, which
// refuse keys that name declared fields. Its read methods are promoted to
// the embedding struct, so they are deliberately few.
type Extras struct {
	m map[string]any
}

// Extra returns the value stored under an undeclared key.
func (e Extras) Extra(key string) (any, bool) {
	v, ok := e.m[key]
	return v, ok
}

// Len is the number of undeclared keys.
func (e Extras) Len() int {
	return len(e.m)
}

// Keys lists the undeclared keys in sorted order.
func (e Extras) Keys() []string {
	return slices.Sorted(maps.Keys(e.m))
}

// All iterates the undeclared entries in key order.
func (e Extras) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range e.Keys() {
			if !yield(k, e.m[k]) {
				return
			}
		}
	}
}

// Map returns a copy of the undeclared entries.
func (e Extras) Map() map[string]any {
	if len(e.m) == 0 {
		return map[string]any{}
	}

	return maps.Clone(e.m)
}

func (e *Extras) set(key string, value any) {
	if e.m == nil {
		e.m = make(map[string]any)
	}

	e.m[key] = value
}

func (e *Extras) del(key string) {
	delete(e.m, key)

	if len(e.m) == 0 {
		e.m = nil
	}
}

// clone detaches the store from the one it was copied from.
func (e *Extras) clone() {
	if len(e.m) == 0 {
		e.m = nil
		return
	}

	e.m = maps.Clone(e.m)
}
