package resolve

// debugf logs a diagnostic event through the engine's injected sink (spec
// §7: "never to a fixed stream"). A nil logger makes this a no-op, which
// keeps the engine usable in tests without wiring a sink.
func (e *Engine) debugf(event, path string, fields map[string]any) {
	if e.Log == nil {
		return
	}
	ev := e.Log.Debug().Str("path", path)
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(event)
}

// resolveItemConflict is the strategy interpreter for a single mapping-item
// conflict (spec §4.4). It returns the new value (or Deleted), and the
// residual local/remote entries (nil when there is none).
func (e *Engine) resolveItemConflict(value Value, le, re *DiffEntry, strategy Strategy, path string) (Maybe, *DiffEntry, *DiffEntry, error) {
	e.debugf("autoresolving conflict", path, map[string]any{"strategy": string(strategy)})

	noConflict := func() {
		e.debugf("no actual conflict", path, nil)
	}

	switch strategy {
	case StrategyClear:
		return some(ClearedValue(value)), nil, nil, nil
	case StrategyUseBase:
		return some(value), nil, nil, nil
	case StrategyUseLocal:
		v, err := PatchItem(value, le)
		return v, nil, nil, err
	case StrategyUseRemote:
		v, err := PatchItem(value, re)
		return v, nil, nil, err
	}

	// Cutoffs before cases using changes from both sides (spec §4.4
	// "Early shortcuts").
	if le == nil {
		noConflict()
		v, err := PatchItem(value, re)
		return v, nil, nil, err
	}
	if re == nil {
		noConflict()
		v, err := PatchItem(value, le)
		return v, nil, nil, err
	}
	if entriesEqual(le, re) {
		noConflict()
		v, err := PatchItem(value, le)
		return v, nil, nil, err
	}

	switch strategy {
	case StrategyInlineSource:
		lv, err := resolveSide(value, le)
		if err != nil {
			return Maybe{}, nil, nil, err
		}
		rv, err := resolveSide(value, re)
		if err != nil {
			return Maybe{}, nil, nil, err
		}
		return some(InlineDisplay(value, lv, rv)), nil, nil, nil
	case StrategyInlineOutputs:
		lv, err := resolveSide(value, le)
		if err != nil {
			return Maybe{}, nil, nil, err
		}
		rv, err := resolveSide(value, re)
		if err != nil {
			return Maybe{}, nil, nil, err
		}
		return some(InlineOutputs(value, lv, rv)), nil, nil, nil
	case StrategyJoin:
		jv, err := joinValue(value, le, re)
		if err != nil {
			return Maybe{}, nil, nil, err
		}
		return some(jv), nil, nil, nil
	case StrategyRecordConflict:
		return some(AddConflictsRecord(value, le, re)), nil, nil, nil
	case StrategyMergetool:
		// Leave this conflict for an external tool to resolve.
		return some(value), le, re, nil
	case StrategyFail:
		return Maybe{}, nil, nil, unexpectedConflict(path)
	default:
		return Maybe{}, nil, nil, invalidStrategy(path, strategy)
	}
}

// resolveSide renders one side of an inline-source conflict: Replace uses
// the literal value, Patch applies against base, Remove yields an empty
// sequence (spec's make_inline_source_value).
func resolveSide(base Value, entry *DiffEntry) (Value, error) {
	m, err := PatchItem(base, entry)
	if err != nil {
		return Value{}, err
	}
	if m.Deleted {
		return NewSequence(), nil
	}
	return m.V, nil
}

// joinValue implements make_join_value (spec §4.4 `join`): concatenate
// value, the local post-patch value, and the remote post-patch value.
// Deleted sides are treated as empty.
func joinValue(value Value, le, re *DiffEntry) (Value, error) {
	lv, err := PatchItem(value, le)
	if err != nil {
		return Value{}, err
	}
	if lv.Deleted {
		lv = some(NewSequence())
	}
	rv, err := PatchItem(value, re)
	if err != nil {
		return Value{}, err
	}
	if rv.Deleted {
		rv = some(NewSequence())
	}
	var out []Value
	out = append(out, value.Seq...)
	out = append(out, lv.V.Seq...)
	out = append(out, rv.V.Seq...)
	return NewSequence(out...), nil
}
