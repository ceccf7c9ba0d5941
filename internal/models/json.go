package models

import "encoding/json"

// NullableString distinguishes an absent JSON key from an explicit null.
// Partial updates use it so that `"logo": null` clears a field while an
// omitted key leaves it untouched.
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON records key presence and the (possibly null) value.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// MarshalJSON renders the wrapped value.
func (n NullableString) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
