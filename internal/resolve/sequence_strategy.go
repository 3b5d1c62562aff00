package resolve

import "github.com/ashfield-docs/autoresolve/internal/patch"

// resolveListItemConflicts applies when the sequence itself is addressed by
// a ".../*" strategy rule (spec §4.5).
func (e *Engine) resolveListItemConflicts(merged Value, lcd, rcd Diff, strategy Strategy, path string) (Value, Diff, Diff, error) {
	switch strategy {
	case StrategyMergetool:
		return merged, lcd, rcd, nil
	case StrategyUseBase:
		return merged, nil, nil, nil
	case StrategyUseLocal:
		v, err := patch.Apply(merged, lcd)
		if err != nil {
			return Value{}, nil, nil, err
		}
		return v, nil, nil, nil
	case StrategyUseRemote:
		v, err := patch.Apply(merged, rcd)
		if err != nil {
			return Value{}, nil, nil, err
		}
		return v, nil, nil, nil
	case StrategyFail:
		return Value{}, nil, nil, unexpectedConflict(path)
	default:
		// clear/join/inline-* belong to the parent item, not the list
		// itself (spec §4.5).
		return Value{}, nil, nil, invalidStrategy(path, strategy)
	}
}
