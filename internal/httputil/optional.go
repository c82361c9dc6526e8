package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional tracks presence and value for JSON merge-patch semantics
// (RFC 7396), which a plain pointer cannot express:
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Null=true: field is JSON null
//   - Present=true, Null=false: Value holds the decoded field
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// UnmarshalJSON implements json.Unmarshaler.
// It is only called when the field was present in the JSON.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Null = true
		return nil
	}

	return json.Unmarshal(data, &o.Value)
}

// Ptr returns a pointer to the value when it was set to a non-null value.
func (o Optional[T]) Ptr() *T {
	if !o.Present || o.Null {
		return nil
	}
	v := o.Value
	return &v
}
