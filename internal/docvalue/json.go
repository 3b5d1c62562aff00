package docvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// FromJSON decodes arbitrary JSON bytes into a Value, preserving object key
// sets and array order. Numbers are decoded as float64, matching the data
// model's single Number scalar (spec §3.1).
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("docvalue: decode json: %w", err)
	}
	return fromAny(raw), nil
}

func fromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case string:
		return String(t)
	case []any:
		items := make([]Value, len(t))
		for i, v := range t {
			items[i] = fromAny(v)
		}
		return NewSequence(items...)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, v := range t {
			m[k] = fromAny(v)
		}
		return NewMapping(m)
	default:
		return Null()
	}
}

// ToJSON encodes a Value back into JSON bytes, with mapping keys sorted for
// deterministic output.
func ToJSON(v Value) ([]byte, error) {
	return json.Marshal(toAny(v))
}

func toAny(v Value) any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.B
	case KindNumber:
		return v.N
	case KindString:
		return v.S
	case KindSequence:
		out := make([]any, len(v.Seq))
		for i, item := range v.Seq {
			out[i] = toAny(item)
		}
		return out
	case KindMapping:
		keys := make([]string, 0, len(v.Map))
		for k := range v.Map {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(v.Map))
		for _, k := range keys {
			out[k] = toAny(v.Map[k])
		}
		return out
	default:
		return nil
	}
}
