package domain

import "encoding/json"

// Optional distinguishes a field that was not supplied from one that was
// supplied with its zero value. When T is a pointer type, a supplied JSON
// null decodes to Set == true with a nil Value.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// UnmarshalJSON marks the field as supplied. encoding/json only calls it
// when the key is present in the object.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}
