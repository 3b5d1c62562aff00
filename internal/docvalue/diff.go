package docvalue

import (
	"errors"
	"sort"
	"strconv"
)

// ValidationError is returned by a builder's Validated() when the
// accumulated entries don't form a well-formed diff (spec §7 MalformedDiff;
// the resolve package wraps this into its own Error type with path context).
type ValidationError struct {
	Message string
	Details any
}

func (e ValidationError) Error() string { return e.Message }

func validationErr(msg string, details ...any) error {
	e := ValidationError{Message: msg}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// OpKind tags a DiffEntry's case, per spec §3.2.
type OpKind int

const (
	// OpAddRange inserts Values before the existing index named by Key.
	OpAddRange OpKind = iota
	// OpRemoveRange removes Length items starting at Key (inclusive).
	OpRemoveRange
	// OpReplace substitutes the value at Key wholesale.
	OpReplace
	// OpPatch applies a nested Diff to the value at Key.
	OpPatch
	// OpAdd introduces a new mapping key (§3.2's "Add" variant).
	OpAdd
	// OpRemove deletes a mapping key (§3.2's "Remove" variant).
	OpRemove
)

// Key addresses a DiffEntry's target: an integer index into a Sequence, or
// a string key into a Mapping. Exactly one of the two is meaningful,
// selected by IsIndex.
type Key struct {
	IsIndex bool
	Index   int
	Name    string
}

// SeqKey builds a sequence-addressed Key.
func SeqKey(i int) Key { return Key{IsIndex: true, Index: i} }

// MapKey builds a mapping-addressed Key.
func MapKey(name string) Key { return Key{Name: name} }

func (k Key) String() string {
	if k.IsIndex {
		return strconv.Itoa(k.Index)
	}
	return k.Name
}

// DiffEntry is a single tagged operation carrying the fields needed to
// re-apply the edit (spec §3.2).
type DiffEntry struct {
	Op     OpKind
	Key    Key
	Value  Value   // Replace, Add
	Values []Value // AddRange
	Length int     // RemoveRange
	Diff   Diff    // Patch
}

// Diff is a sequence of DiffOps sharing a target.
type Diff []DiffEntry

// OffsetOp returns a copy of e with a sequence Key shifted by delta, used
// when a sequence resolver forwards an untouched chunk's ops into a
// residual diff whose indices must track `resolved`'s growth (spec §4.3, §9).
func OffsetOp(e DiffEntry, delta int) DiffEntry {
	if !e.Key.IsIndex || delta == 0 {
		return e
	}
	e.Key = SeqKey(e.Key.Index + delta)
	return e
}

// AsMapping normalizes a mapping diff into a key-indexed view (at most one
// op per key). Per spec §9, callers may hand either an ordered list or an
// already-normalized view; either is accepted here since both are just a
// Diff with unique keys.
func AsMapping(d Diff) map[string]DiffEntry {
	out := make(map[string]DiffEntry, len(d))
	for _, e := range d {
		out[e.Key.Name] = e
	}
	return out
}

// SequenceDiffBuilder accumulates a sequence diff and validates it into
// canonical form (spec §6.4).
type SequenceDiffBuilder struct {
	entries []DiffEntry
}

func (b *SequenceDiffBuilder) Append(e DiffEntry) { b.entries = append(b.entries, e) }

func (b *SequenceDiffBuilder) AddRange(at int, values []Value) {
	if len(values) == 0 {
		return
	}
	vs := make([]Value, len(values))
	copy(vs, values)
	b.entries = append(b.entries, DiffEntry{Op: OpAddRange, Key: SeqKey(at), Values: vs})
}

func (b *SequenceDiffBuilder) RemoveRange(at, length int) {
	if length == 0 {
		return
	}
	b.entries = append(b.entries, DiffEntry{Op: OpRemoveRange, Key: SeqKey(at), Length: length})
}

func (b *SequenceDiffBuilder) Replace(at int, value Value) {
	b.entries = append(b.entries, DiffEntry{Op: OpReplace, Key: SeqKey(at), Value: value})
}

// Patch records a nested diff against the element at index `at`. An empty
// sub-diff is a no-op and is dropped.
func (b *SequenceDiffBuilder) Patch(at int, sub Diff) {
	if len(sub) == 0 {
		return
	}
	b.entries = append(b.entries, DiffEntry{Op: OpPatch, Key: SeqKey(at), Diff: sub})
}

// Validated returns the canonical, order-sorted diff, rejecting malformed
// accumulations (overlapping ranges, descending indices) per spec §4.3's
// validation requirement and §7's MalformedDiff error.
func (b *SequenceDiffBuilder) Validated() (Diff, error) {
	out := make(Diff, len(b.entries))
	copy(out, b.entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Key.Index != out[j].Key.Index {
			return out[i].Key.Index < out[j].Key.Index
		}
		// AddRange at an index logically precedes any other op at that index.
		return out[i].Op == OpAddRange && out[j].Op != OpAddRange
	})

	// A base index may carry at most one AddRange plus one of
	// {Patch, RemoveRange, Replace}; ranges must not overlap.
	seen := map[int]OpKind{}
	sawAdd := map[int]bool{}
	farthest := -1
	for _, e := range out {
		if !e.Key.IsIndex {
			return nil, validationErr("sequence diff entry missing index key")
		}
		idx := e.Key.Index
		if idx < farthest {
			return nil, validationErr("sequence diff indices out of order")
		}
		switch e.Op {
		case OpAddRange:
			if sawAdd[idx] {
				return nil, validationErr("duplicate insert at same index")
			}
			sawAdd[idx] = true
		default:
			if k, ok := seen[idx]; ok {
				return nil, validationErr("duplicate op at same index", k)
			}
			seen[idx] = e.Op
			end := idx + 1
			if e.Op == OpRemoveRange {
				end = idx + e.Length
			}
			if end > farthest {
				farthest = end
			} else if idx < farthest-1 {
				return nil, validationErr("overlapping sequence ranges")
			}
		}
	}
	return out, nil
}

// MappingDiffBuilder accumulates a mapping diff with at most one op per key.
type MappingDiffBuilder struct {
	entries map[string]DiffEntry
	order   []string
}

// NewSequenceDiffBuilder returns an empty sequence diff builder.
func NewSequenceDiffBuilder() *SequenceDiffBuilder { return &SequenceDiffBuilder{} }

// NewMappingDiffBuilder returns an empty mapping diff builder.
func NewMappingDiffBuilder() *MappingDiffBuilder {
	return &MappingDiffBuilder{entries: map[string]DiffEntry{}}
}

func (b *MappingDiffBuilder) Append(e DiffEntry) {
	if b.entries == nil {
		b.entries = map[string]DiffEntry{}
	}
	if _, exists := b.entries[e.Key.Name]; !exists {
		b.order = append(b.order, e.Key.Name)
	}
	b.entries[e.Key.Name] = e
}

func (b *MappingDiffBuilder) Add(key string, value Value) {
	b.Append(DiffEntry{Op: OpAdd, Key: MapKey(key), Value: value})
}

func (b *MappingDiffBuilder) Remove(key string) {
	b.Append(DiffEntry{Op: OpRemove, Key: MapKey(key)})
}

func (b *MappingDiffBuilder) Replace(key string, value Value) {
	b.Append(DiffEntry{Op: OpReplace, Key: MapKey(key), Value: value})
}

// Patch records a nested diff against mapping key `key`. An empty sub-diff
// is a no-op and is dropped.
func (b *MappingDiffBuilder) Patch(key string, sub Diff) {
	if len(sub) == 0 {
		return
	}
	b.Append(DiffEntry{Op: OpPatch, Key: MapKey(key), Diff: sub})
}

// Validated returns the canonical diff (list form, per spec §9's
// normalization note), rejecting a key addressed with an empty name.
func (b *MappingDiffBuilder) Validated() (Diff, error) {
	out := make(Diff, 0, len(b.order))
	for _, k := range b.order {
		e := b.entries[k]
		if e.Key.Name == "" {
			return nil, validationErr("mapping diff entry missing key")
		}
		out = append(out, e)
	}
	return out, nil
}
