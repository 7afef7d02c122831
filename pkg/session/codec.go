package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Decode parses a session record. Every mapping in the result, at any depth,
// has digit-only string keys promoted to int; all other keys pass through
// unchanged. Empty or whitespace-only input decodes to nil without error.
func Decode(data []byte) (map[any]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse session record: %w", err)
	}

	record, ok := promoteDigitKeys(raw).(map[any]any)
	if !ok {
		return nil, fmt.Errorf("session record is not an object")
	}

	return record, nil
}

// Encode serializes a session store to the durable JSON form. Integer keys
// produced by Decode's promotion are turned back into decimal strings so the
// whole tree is JSON-representable.
func Encode(store map[string]any) ([]byte, error) {
	normalized := make(map[string]any, len(store))
	for k, v := range store {
		normalized[k] = normalizeKeys(v)
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session record: %w", err)
	}

	return data, nil
}

// NormalizeRecord converts a decoded record back into a JSON-marshalable
// form, reversing the digit-key promotion.
func NormalizeRecord(record map[any]any) map[string]any {
	normalized, _ := normalizeKeys(record).(map[string]any)
	return normalized
}

// promoteDigitKeys is a pure recursive transform over the generic value tree
// produced by encoding/json.
func promoteDigitKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[any]any, len(val))
		for k, item := range val {
			if n, ok := digitKey(k); ok {
				out[n] = promoteDigitKeys(item)
			} else {
				out[k] = promoteDigitKeys(item)
			}
		}
		return out
	case []any:
		for i := range val {
			val[i] = promoteDigitKeys(val[i])
		}
		return val
	default:
		return v
	}
}

// digitKey reports whether s consists entirely of decimal digits and returns
// its integer value. Keys that overflow int pass through as strings.
func digitKey(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// normalizeKeys is the inverse transform: any-keyed and int-keyed mappings
// become string-keyed so encoding/json can marshal them.
func normalizeKeys(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			switch key := k.(type) {
			case string:
				out[key] = normalizeKeys(item)
			case int:
				out[strconv.Itoa(key)] = normalizeKeys(item)
			default:
				out[fmt.Sprint(key)] = normalizeKeys(item)
			}
		}
		return out
	case map[int]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[strconv.Itoa(k)] = normalizeKeys(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeKeys(item)
		}
		return out
	case []any:
		for i := range val {
			val[i] = normalizeKeys(val[i])
		}
		return val
	default:
		return v
	}
}
