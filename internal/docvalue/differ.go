package docvalue

import "sort"

// Diff3 computes the diff that transforms a into b, expressed in the same
// DiffEntry vocabulary the engine consumes (spec §3.2). It is the upstream
// structural differ the spec treats as an external collaborator (§1): no
// reference implementation travelled with the distilled spec, so mapping
// diffing follows the builder/Validated contract already established by
// SequenceDiffBuilder/MappingDiffBuilder, and sequence diffing uses a
// prefix/suffix trim rather than a full LCS, trading optimality for a diff
// that is always well-formed and cheap to compute.
func Diff3(a, b Value) (Diff, error) {
	if a.Kind != b.Kind {
		return Diff{{Op: OpReplace, Value: b}}, nil
	}
	switch a.Kind {
	case KindMapping:
		return diffMapping(a, b)
	case KindSequence:
		return diffSequence(a, b)
	default:
		if a.Equal(b) {
			return nil, nil
		}
		return Diff{{Op: OpReplace, Value: b}}, nil
	}
}

func diffMapping(a, b Value) (Diff, error) {
	builder := NewMappingDiffBuilder()

	keys := map[string]bool{}
	for k := range a.Map {
		keys[k] = true
	}
	for k := range b.Map {
		keys[k] = true
	}
	ordered := make([]string, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	for _, k := range ordered {
		av, inA := a.Map[k]
		bv, inB := b.Map[k]
		switch {
		case !inA:
			builder.Add(k, bv)
		case !inB:
			builder.Remove(k)
		case av.Equal(bv):
			// unchanged
		case av.Kind == bv.Kind && (av.Kind == KindMapping || av.Kind == KindSequence):
			sub, err := Diff3(av, bv)
			if err != nil {
				return nil, err
			}
			builder.Patch(k, sub)
		default:
			builder.Replace(k, bv)
		}
	}
	return builder.Validated()
}

func diffSequence(a, b Value) (Diff, error) {
	builder := NewSequenceDiffBuilder()

	// Trim the longest common prefix and suffix so only the genuinely
	// changed middle span needs to be described.
	prefix := 0
	for prefix < len(a.Seq) && prefix < len(b.Seq) && a.Seq[prefix].Equal(b.Seq[prefix]) {
		prefix++
	}
	suffix := 0
	for suffix < len(a.Seq)-prefix && suffix < len(b.Seq)-prefix &&
		a.Seq[len(a.Seq)-1-suffix].Equal(b.Seq[len(b.Seq)-1-suffix]) {
		suffix++
	}

	aMid := a.Seq[prefix : len(a.Seq)-suffix]
	bMid := b.Seq[prefix : len(b.Seq)-suffix]

	// Within the changed span, patch element-wise where both sides keep a
	// container of the same kind at that position; otherwise fall back to
	// remove-then-insert for the remaining length mismatch.
	common := len(aMid)
	if len(bMid) < common {
		common = len(bMid)
	}
	for i := 0; i < common; i++ {
		av, bv := aMid[i], bMid[i]
		if av.Equal(bv) {
			continue
		}
		if av.Kind == bv.Kind && (av.Kind == KindMapping || av.Kind == KindSequence) {
			sub, err := Diff3(av, bv)
			if err != nil {
				return nil, err
			}
			builder.Patch(prefix+i, sub)
		} else {
			builder.Replace(prefix+i, bv)
		}
	}
	if len(aMid) > common {
		builder.RemoveRange(prefix+common, len(aMid)-common)
	}
	if len(bMid) > common {
		builder.AddRange(prefix+common, bMid[common:])
	}

	return builder.Validated()
}
