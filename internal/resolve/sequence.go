package resolve

// resolveSequence implements the sequence resolver (spec §4.3).
func (e *Engine) resolveSequence(merged Value, localDiff, remoteDiff Diff, path string) (Value, Diff, Diff, error) {
	subpath := WildcardPath(path)
	if strategy, ok := e.Strategies.Lookup(subpath); ok {
		v, ld, rd, err := e.resolveListItemConflicts(merged, localDiff, remoteDiff, strategy, path)
		return v, ld, rd, err
	}

	newLocal := NewSequenceDiffBuilder()
	newRemote := NewSequenceDiffBuilder()

	var resolved []Value
	mergedOffset := 0

	chunks := MakeMergeChunks(merged.Seq, localDiff, remoteDiff)
	for _, c := range chunks {
		lpatches := opsOfKind(c.LocalOps, OpPatch)
		rpatches := opsOfKind(c.RemoteOps, OpPatch)

		switch {
		case len(c.LocalOps) == 0 && len(c.RemoteOps) == 0:
			// Untouched chunk.
			resolved = append(resolved, merged.Seq[c.Begin:c.End]...)

		case len(lpatches) == 1 && len(rpatches) == 1:
			linserts := opsOfKind(c.LocalOps, OpAddRange)
			rinserts := opsOfKind(c.RemoteOps, OpAddRange)

			le := lpatches[0]
			re := rpatches[0]
			elemPath := JoinPath(path, "*")
			newValue, ldi, rdi, err := e.Autoresolve(merged.Seq[c.Begin], le.Diff, re.Diff, elemPath)
			if err != nil {
				return Value{}, nil, nil, err
			}

			residualEmpty := len(ldi) == 0 && len(rdi) == 0
			if residualEmpty {
				// Patch conflicts fully resolved: accept inserts from
				// both sides, local first then remote.
				for _, ins := range linserts {
					resolved = append(resolved, ins.Values...)
					mergedOffset += len(ins.Values)
				}
				for _, ins := range rinserts {
					resolved = append(resolved, ins.Values...)
					mergedOffset += len(ins.Values)
				}
			} else {
				// Keep inserts as residual conflicts, at their original
				// (unshifted) index: `resolved` has not grown by them.
				for _, ins := range linserts {
					newLocal.Append(ins)
				}
				for _, ins := range rinserts {
					newRemote.Append(ins)
				}
			}

			resolved = append(resolved, newValue)
			if len(ldi) > 0 {
				newLocal.Patch(len(resolved)-1, ldi)
			}
			if len(rdi) > 0 {
				newRemote.Patch(len(resolved)-1, rdi)
			}

		default:
			// Keep input and conflicts, offsetting conflict indices by
			// the accumulated insertion/removal offset (spec §9: "hard
			// to follow" case — preserve exactly this shape).
			resolved = append(resolved, merged.Seq[c.Begin:c.End]...)
			for _, op := range c.LocalOps {
				newLocal.Append(OffsetOp(op, mergedOffset))
			}
			for _, op := range c.RemoteOps {
				newRemote.Append(OffsetOp(op, mergedOffset))
			}
		}
	}

	ld, err := newLocal.Validated()
	if err != nil {
		return Value{}, nil, nil, malformedDiff(path, err)
	}
	rd, err := newRemote.Validated()
	if err != nil {
		return Value{}, nil, nil, malformedDiff(path, err)
	}

	return NewSequence(resolved...), ld, rd, nil
}

func opsOfKind(d Diff, op OpKind) Diff {
	var out Diff
	for _, e := range d {
		if e.Op == op {
			out = append(out, e)
		}
	}
	return out
}
