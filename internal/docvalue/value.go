// Package docvalue holds the autoresolve engine's data model: a Value
// variant over mappings, ordered sequences, strings and atomic scalars, and
// the Diff/DiffEntry types describing edits against it.
package docvalue

import "sort"

// Kind tags the variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a tagged variant over Mapping, Sequence, String, Number, Boolean
// and Null. Mappings and Sequences contain Values recursively. A Value is
// treated as immutable throughout the engine; resolvers build new
// containers rather than mutate existing ones.
type Value struct {
	Kind Kind
	B    bool
	N    float64
	S    string
	Seq  []Value
	Map  map[string]Value
}

// Null returns the Null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool wraps a boolean scalar.
func Bool(b bool) Value { return Value{Kind: KindBool, B: b} }

// Number wraps a numeric scalar.
func Number(n float64) Value { return Value{Kind: KindNumber, N: n} }

// String wraps a string scalar.
func String(s string) Value { return Value{Kind: KindString, S: s} }

// NewSequence builds a Sequence value from items, copying the slice so the
// caller's backing array can't alias engine-owned state.
func NewSequence(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{Kind: KindSequence, Seq: cp}
}

// NewMapping builds a Mapping value from m, shallow-copying so the caller's
// map can't alias engine-owned state.
func NewMapping(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{Kind: KindMapping, Map: cp}
}

// IsScalar reports whether v carries no nested Values.
func (v Value) IsScalar() bool {
	return v.Kind != KindMapping && v.Kind != KindSequence
}

// Equal reports structural equality, the one semantic shortcut the engine
// takes (spec §4.4 "equality shortcut"; §8.1 property 4).
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.B == o.B
	case KindNumber:
		return v.N == o.N
	case KindString:
		return v.S == o.S
	case KindSequence:
		if len(v.Seq) != len(o.Seq) {
			return false
		}
		for i := range v.Seq {
			if !v.Seq[i].Equal(o.Seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.Map) != len(o.Map) {
			return false
		}
		for k, vv := range v.Map {
			ov, ok := o.Map[k]
			if !ok || !vv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MappingKeys returns the mapping's keys in sorted (lexicographic) order,
// used wherever the engine needs deterministic iteration (spec §4.2 step 3).
func (v Value) MappingKeys() []string {
	keys := make([]string, 0, len(v.Map))
	for k := range v.Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
