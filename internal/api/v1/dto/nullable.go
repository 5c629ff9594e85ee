package dto

import (
	"encoding/json"
	"reflect"

	"github.com/danielgtaylor/huma/v2"
)

// Nullable is a PATCH field that tells apart a missing key, an explicit
// null and a value.
type Nullable[T any] struct {
	Sent  bool
	Null  bool
	Value T
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Sent = true
	if string(b) == "null" {
		n.Null = true
		var zero T
		n.Value = zero
		return nil
	}
	n.Null = false
	return json.Unmarshal(b, &n.Value)
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Sent || n.Null {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Schema documents the field as the wrapped type, nullable.
func (n Nullable[T]) Schema(r huma.Registry) *huma.Schema {
	s := r.Schema(reflect.TypeOf(n.Value), true, "")
	s.Nullable = true
	return s
}

// Set reports a non-null value.
func (n Nullable[T]) Set() bool {
	return n.Sent && !n.Null
}

// Cleared reports an explicit null.
func (n Nullable[T]) Cleared() bool {
	return n.Sent && n.Null
}
