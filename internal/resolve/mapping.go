package resolve

import "sort"

// resolveMapping implements the mapping resolver (spec §4.2).
func (e *Engine) resolveMapping(merged Value, localDiff, remoteDiff Diff, path string) (Value, Diff, Diff, error) {
	lcd := AsMapping(localDiff)
	rcd := AsMapping(remoteDiff)

	dkeys := map[string]bool{}
	for k := range lcd {
		dkeys[k] = true
	}
	for k := range rcd {
		dkeys[k] = true
	}

	resolved := make(map[string]Value, len(merged.Map))
	for k, v := range merged.Map {
		if !dkeys[k] {
			resolved[k] = v
		}
	}

	newLocal := NewMappingDiffBuilder()
	newRemote := NewMappingDiffBuilder()

	keys := make([]string, 0, len(dkeys))
	for k := range dkeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		subpath := JoinPath(path, k)
		strategy, hasStrategy := e.Strategies.Lookup(subpath)

		value, hasValue := merged.Map[k]
		var lePtr, rePtr *DiffEntry
		if le, ok := lcd[k]; ok {
			lePtr = &le
		}
		if re, ok := rcd[k]; ok {
			rePtr = &re
		}

		var newValue Maybe
		var err error

		switch {
		case hasStrategy:
			var le, re *DiffEntry
			newValue, le, re, err = e.resolveItemConflict(value, lePtr, rePtr, strategy, subpath)
			if err != nil {
				return Value{}, nil, nil, err
			}
			if le != nil {
				newLocal.Append(*le)
			}
			if re != nil {
				newRemote.Append(*re)
			}
		case lePtr != nil && rePtr != nil && lePtr.Op == OpPatch && rePtr.Op == OpPatch:
			nv, ldi, rdi, err2 := e.Autoresolve(value, lePtr.Diff, rePtr.Diff, subpath)
			if err2 != nil {
				return Value{}, nil, nil, err2
			}
			newValue = some(nv)
			newLocal.Patch(k, ldi)
			newRemote.Patch(k, rdi)
		case lePtr == nil || rePtr == nil || entriesEqual(lePtr, rePtr):
			// One-sided change, or both sides make the same edit: apply it
			// once and leave no residual.
			one := lePtr
			if one == nil {
				one = rePtr
			}
			newValue, err = PatchItem(value, one)
			if err != nil {
				return Value{}, nil, nil, err
			}
		default:
			// No resolution: keep conflicts, keep the base value.
			if !hasValue {
				// Add-only case (spec §9): no base value exists yet.
				newValue = deleted
			} else {
				newValue = some(value)
			}
			if lePtr != nil {
				newLocal.Append(*lePtr)
			}
			if rePtr != nil {
				newRemote.Append(*rePtr)
			}
		}

		if newValue.Deleted {
			delete(resolved, k)
		} else {
			resolved[k] = newValue.V
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

	return NewMapping(resolved), ld, rd, nil
}
