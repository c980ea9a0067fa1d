// Package optional provides a field wrapper that distinguishes "absent" from
// "present with the zero value". Request payloads use it for partial updates:
// an absent key leaves the stored value untouched, a present key (even an
// empty string) replaces it.
package optional

import "encoding/json"

// Value holds an optional T.
type Value[T any] struct {
	v   T
	set bool
}

// Of returns a present Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{v: v, set: true}
}

// Get returns the held value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.set
}

// Apply copies the held value into dst when present.
func (o Value[T]) Apply(dst *T) {
	if o.set {
		*dst = o.v
	}
}

// Map transforms a present value with f. Absent stays absent.
func Map[T, U any](o Value[T], f func(T) U) Value[U] {
	if !o.set {
		return Value[U]{}
	}
	return Of(f(o.v))
}

// UnmarshalJSON marks the value present. A JSON null is treated as absent.
func (o *Value[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		var zero T
		o.v, o.set = zero, false
		return nil
	}
	if err := json.Unmarshal(b, &o.v); err != nil {
		return err
	}
	o.set = true
	return nil
}

// MarshalJSON encodes an absent value as null.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}
