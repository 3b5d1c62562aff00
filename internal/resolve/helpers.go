package resolve

import (
	"strings"

	"github.com/ashfield-docs/autoresolve/internal/patch"
)

// Maybe holds either a resolved Value or the Deleted sentinel (spec §3.5,
// §9 "Sentinel Deleted"). Deleted never escapes as a bare Value; callers
// must check Deleted before touching V.
type Maybe struct {
	V       Value
	Deleted bool
}

// some wraps a concrete Value.
func some(v Value) Maybe { return Maybe{V: v} }

// deleted is the sentinel result: "omit this slot".
var deleted = Maybe{Deleted: true}

// PatchItem applies a single mapping-item diff entry to value (spec §4.6).
// entry may be nil, meaning "no change on this side".
func PatchItem(value Value, entry *DiffEntry) (Maybe, error) {
	if entry == nil {
		return some(value), nil
	}
	switch entry.Op {
	case OpReplace, OpAdd:
		return some(entry.Value), nil
	case OpPatch:
		v, err := patch.Apply(value, entry.Diff)
		if err != nil {
			return Maybe{}, err
		}
		return some(v), nil
	case OpRemove:
		return deleted, nil
	default:
		return Maybe{}, invalidOp("", entry.Op)
	}
}

// entriesEqual reports whether two optional diff entries describe the same
// edit, used for the spec's "equality shortcut" (le == re).
func entriesEqual(a, b *DiffEntry) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Op != b.Op {
		return false
	}
	switch a.Op {
	case OpReplace, OpAdd:
		return a.Value.Equal(b.Value)
	case OpRemove:
		return true
	case OpPatch:
		return diffEqual(a.Diff, b.Diff)
	default:
		return false
	}
}

func diffEqual(a, b Diff) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Op != b[i].Op || a[i].Key != b[i].Key {
			return false
		}
		switch a[i].Op {
		case OpReplace, OpAdd:
			if !a[i].Value.Equal(b[i].Value) {
				return false
			}
		case OpPatch:
			if !diffEqual(a[i].Diff, b[i].Diff) {
				return false
			}
		case OpAddRange:
			if len(a[i].Values) != len(b[i].Values) {
				return false
			}
			for j := range a[i].Values {
				if !a[i].Values[j].Equal(b[i].Values[j]) {
					return false
				}
			}
		case OpRemoveRange:
			if a[i].Length != b[i].Length {
				return false
			}
		}
	}
	return true
}

// ClearedValue builds a new "cleared" value of the right type (spec §4.6):
// Sequence -> empty sequence, Mapping -> empty mapping, String -> empty
// string, else -> Null.
func ClearedValue(v Value) Value {
	switch v.Kind {
	case KindSequence:
		return NewSequence()
	case KindMapping:
		return NewMapping(nil)
	case KindString:
		return String("")
	default:
		return Null()
	}
}

// textLines splits a scalar string value into lines, preserving line
// terminators, or returns a sequence value's items verbatim if it is
// already a line sequence (spec §4.6 "Inputs that are bare strings are
// split into lines preserving line terminators").
func textLines(v Value) []Value {
	if v.Kind == KindSequence {
		return v.Seq
	}
	if v.Kind != KindString {
		return nil
	}
	lines := splitKeepEnds(v.S)
	out := make([]Value, len(lines))
	for i, l := range lines {
		out[i] = String(l)
	}
	return out
}

func splitKeepEnds(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// InlineDisplay implements make_inline_source_value / format_text_merge_display
// (spec §4.4 `inline-source`, §4.6): a 7-fence 3-way conflict marker block.
func InlineDisplay(base, local, remote Value) Value {
	const n = 7
	fence := func(ch byte, title string) Value {
		return String(strings.Repeat(string(ch), n) + " " + title + "\n")
	}

	var out []Value
	out = append(out, fence('<', "local"))
	out = append(out, textLines(local)...)
	out = append(out, fence('=', "base"))
	out = append(out, textLines(base)...)
	out = append(out, fence('=', "remote"))
	out = append(out, textLines(remote)...)
	out = append(out, String(strings.Repeat(">", n)+"\n"))
	return NewSequence(out...)
}

// InlineOutputs implements make_inline_outputs_value (spec §4.4
// `inline-outputs`): a join of both sides' values interleaved with
// notebook-shaped stream-output marker records.
func InlineOutputs(base, local, remote Value) Value {
	marker := func(text string) Value {
		return NewMapping(map[string]Value{
			"output_type": String("stream"),
			"name":        String("stderr"),
			"text":        NewSequence(String(text)),
		})
	}
	var out []Value
	out = append(out, marker(strings.Repeat("<", 7)+"local"))
	out = append(out, local.Seq...)
	out = append(out, marker(strings.Repeat("=", 7)))
	out = append(out, remote.Seq...)
	out = append(out, marker(strings.Repeat("<", 7)+"remote"))
	return NewSequence(out...)
}

// AddConflictsRecord shallow-copies value and adds an "nbdime-conflicts" key
// recording whichever of le/re are present (spec §4.4 `record-conflict`).
func AddConflictsRecord(value Value, le, re *DiffEntry) Value {
	out := make(map[string]Value, len(value.Map)+1)
	for k, v := range value.Map {
		out[k] = v
	}
	c := map[string]Value{}
	if le != nil {
		c["local"] = encodeDiffEntry(*le)
	}
	if re != nil {
		c["remote"] = encodeDiffEntry(*re)
	}
	out["nbdime-conflicts"] = NewMapping(c)
	return NewMapping(out)
}

// encodeDiffEntry renders a single diff entry into a Value for display
// inside a record-conflict annotation; it is a lossy, human-facing summary,
// not a round-trippable encoding.
func encodeDiffEntry(e DiffEntry) Value {
	m := map[string]Value{
		"op": String(opName(e.Op)),
	}
	switch e.Op {
	case OpReplace, OpAdd:
		m["value"] = e.Value
	case OpAddRange:
		m["values"] = NewSequence(e.Values...)
	case OpRemoveRange:
		m["length"] = Number(float64(e.Length))
	case OpPatch:
		m["diff"] = encodeDiff(e.Diff)
	}
	return NewMapping(m)
}

// encodeDiff renders a full diff (the nested payload of a Patch entry) as a
// sequence of {"key", "op", ...} records, recursing through nested Patch
// entries so record-conflict never silently drops a patched subtree.
func encodeDiff(d Diff) Value {
	out := make([]Value, len(d))
	for i, e := range d {
		entry := encodeDiffEntry(e)
		entry.Map["key"] = String(e.Key.String())
		out[i] = entry
	}
	return NewSequence(out...)
}

func opName(op OpKind) string {
	switch op {
	case OpAddRange:
		return "addrange"
	case OpRemoveRange:
		return "removerange"
	case OpReplace:
		return "replace"
	case OpPatch:
		return "patch"
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}
