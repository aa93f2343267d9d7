package rawstore

import "encoding/json"

// ParsePayloadJSON accepts whatever the ingest path captured (a decoded
// value, a raw string, or raw bytes) and returns something safe to store
// in payload_json: the parsed structure on success, or a {_raw: ...}
// wrapper when the input isn't valid JSON. Nil input yields nil.
func ParsePayloadJSON(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return parseJSONText(v), nil
	case []byte:
		return parseJSONText(string(v)), nil
	default:
		return v, nil
	}
}

func parseJSONText(text string) interface{} {
	if text == "" {
		return map[string]interface{}{"_raw": text, "_empty": true}
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return map[string]interface{}{"_raw": text, "_format": "text/plain"}
	}
	return decoded
}
