package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONText stores an arbitrary JSON document in a single column, encoded
// as text/json under the hood depending on the dialect. It round-trips
// raw bytes rather than decoding eagerly, since callers either want the
// original bytes back (re-normalize) or parse on demand.
type JSONText []byte

func (j JSONText) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONText) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}
	switch v := src.(type) {
	case string:
		*j = JSONText(v)
		return nil
	case []byte:
		b := make([]byte, len(v))
		copy(b, v)
		*j = JSONText(b)
		return nil
	default:
		return errors.New("models: JSONText.Scan: unsupported source type")
	}
}

// MarshalJSON lets JSONText embed verbatim when the owning struct is
// serialized, instead of being base64-encoded as a raw []byte would be.
func (j JSONText) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSONText) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSONText) Decode(out interface{}) error {
	if len(j) == 0 {
		return nil
	}
	return json.Unmarshal(j, out)
}
