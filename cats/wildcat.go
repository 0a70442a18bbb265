package cats

import "typecats/record"

// Wildcat makes a record keep undeclared keys when embedded:
//
//	type Organization struct {
//		cats.Wildcat
//		ID string `json:"id"`
//	}
type Wildcat = record.Extras

type KeyError = record.KeyError

var (
	ErrDeclaredKey = record.ErrDeclaredKey
	ErrKeyNotFound = record.ErrKeyNotFound
	ErrNotWildcat  = record.ErrNotWildcat
)

// GetItem reads an undeclared key of a wildcat. Declared fields are read as
// struct fields, never through items.
func GetItem(w any, key string) (any, error) { return record.GetItem(w, key) }

// SetItem stores an undeclared key; w must be a pointer to a wildcat.
func SetItem(w any, key string, value any) error { return record.SetItem(w, key, value) }

func DelItem(w any, key string) error { return record.DelItem(w, key) }

// Update stores every entry of kv, or none of them when a key names a
// declared field.
func Update(w any, kv map[string]any) error { return record.Update(w, kv) }

// Truthy is false for empty values, and for wildcats with no extras and only
// empty fields.
func Truthy(v any) bool { return record.Truthy(v) }

// Equal compares records by declared fields and extras.
func Equal(a, b any) bool { return record.Equal(a, b) }

func Repr(v any) string { return record.Repr(v) }

func IsWildcat(v any) bool { return record.IsWildcat(v) }
