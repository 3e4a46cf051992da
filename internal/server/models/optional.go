package models

import "encoding/json"

// Optional marks whether a field was present in a partial update.
// A JSON key that is absent leaves Set false; a key that is present sets it,
// even when its value is null. For pointer types an explicit null therefore
// reads as Set with a nil Value.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	return json.Unmarshal(b, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// IsZero lets encoding/json drop absent fields tagged omitzero.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// Or returns the value if present and def otherwise.
func (o Optional[T]) Or(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}
