// Package codec encodes list-valued record fields into a single blob.
//
// The contract is intentionally lossy-safe: an encode failure yields a
// nil blob and a decode of a nil or corrupt blob yields an empty list.
// Callers never see an error from this package.
package codec

import "encoding/json"

// EncodeStringList serializes the list as a compact JSON array.
// A nil or empty list encodes to nil so optional blob columns stay NULL.
func EncodeStringList(values []string) []byte {
	if len(values) == 0 {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return data
}

// DecodeStringList deserializes a blob produced by EncodeStringList.
// Nil input and undecodable input both yield an empty list.
func DecodeStringList(data []byte) []string {
	if len(data) == 0 {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return []string{}
	}
	if values == nil {
		return []string{}
	}
	return values
}
