// Package patch implements the patch primitive consumed by the autoresolve
// engine (spec §6.2): applying a well-formed diff to a value, returning a
// new value. It has no dependency on the engine itself, only on the shared
// document data model in internal/docvalue, mirroring the spec's framing of
// patch as an external collaborator to the resolver.
package patch

import (
	"fmt"

	"github.com/ashfield-docs/autoresolve/internal/docvalue"
)

// Apply applies diff to value and returns the patched result. It is total
// over well-formed inputs, as spec §6.2 assumes of the consumed primitive.
func Apply(value docvalue.Value, diff docvalue.Diff) (docvalue.Value, error) {
	if len(diff) == 0 {
		return value, nil
	}
	switch value.Kind {
	case docvalue.KindMapping:
		return applyMapping(value, diff)
	case docvalue.KindSequence:
		return applySequence(value, diff)
	default:
		return docvalue.Value{}, fmt.Errorf("patch: cannot apply diff to scalar of kind %s", value.Kind)
	}
}

func applyMapping(value docvalue.Value, diff docvalue.Diff) (docvalue.Value, error) {
	out := make(map[string]docvalue.Value, len(value.Map))
	for k, v := range value.Map {
		out[k] = v
	}
	for _, e := range diff {
		key := e.Key.Name
		switch e.Op {
		case docvalue.OpAdd, docvalue.OpReplace:
			out[key] = e.Value
		case docvalue.OpRemove:
			delete(out, key)
		case docvalue.OpPatch:
			cur, ok := out[key]
			if !ok {
				return docvalue.Value{}, fmt.Errorf("patch: key %q not present for nested patch", key)
			}
			patched, err := Apply(cur, e.Diff)
			if err != nil {
				return docvalue.Value{}, err
			}
			out[key] = patched
		default:
			return docvalue.Value{}, fmt.Errorf("patch: invalid mapping op %d", e.Op)
		}
	}
	return docvalue.NewMapping(out), nil
}

func applySequence(value docvalue.Value, diff docvalue.Diff) (docvalue.Value, error) {
	// Ops are addressed against the original (pre-patch) indices. Walk the
	// base sequence left to right, splicing in inserts, replacements,
	// patches and removals as their base index is reached.
	byIndex := map[int][]docvalue.DiffEntry{}
	for _, e := range diff {
		if !e.Key.IsIndex {
			return docvalue.Value{}, fmt.Errorf("patch: sequence diff entry missing index key")
		}
		byIndex[e.Key.Index] = append(byIndex[e.Key.Index], e)
	}

	var out []docvalue.Value
	i := 0
	n := len(value.Seq)
	for i <= n {
		for _, e := range byIndex[i] {
			if e.Op == docvalue.OpAddRange {
				out = append(out, e.Values...)
			}
		}
		if i == n {
			break
		}
		handled := false
		for _, e := range byIndex[i] {
			switch e.Op {
			case docvalue.OpReplace:
				out = append(out, e.Value)
				handled = true
			case docvalue.OpPatch:
				patched, err := Apply(value.Seq[i], e.Diff)
				if err != nil {
					return docvalue.Value{}, err
				}
				out = append(out, patched)
				handled = true
			case docvalue.OpRemoveRange:
				i += e.Length - 1 // loop increment adds the remaining 1
				handled = true
			}
		}
		if !handled {
			out = append(out, value.Seq[i])
		}
		i++
	}
	return docvalue.NewSequence(out...), nil
}
