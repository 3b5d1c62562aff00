package resolve

import "github.com/ashfield-docs/autoresolve/internal/logging"

// Engine holds the StrategyMap and logging sink for a resolution run (spec
// §5: "a single resolution is a pure function of its inputs" — Engine
// itself carries no mutable state beyond these two read-only fields, so
// concurrent resolutions with distinct Engines over disjoint inputs are
// trivially safe per spec §5).
type Engine struct {
	Strategies StrategyMap
	Log        *logging.Logger
}

// New builds an Engine. A nil logger silences diagnostic output rather than
// falling back to a fixed stream (spec §7).
func New(strategies StrategyMap, log *logging.Logger) *Engine {
	return &Engine{Strategies: strategies, Log: log}
}

// Autoresolve is the dispatcher (spec §4.1, §6.1): the sole recursion
// point. Mapping nodes delegate to the mapping resolver, Sequence nodes to
// the sequence resolver; any other node type at this level is an error,
// since scalars never carry sub-diffs.
func (e *Engine) Autoresolve(merged Value, localDiff, remoteDiff Diff, path string) (Value, Diff, Diff, error) {
	switch merged.Kind {
	case KindMapping:
		return e.resolveMapping(merged, localDiff, remoteDiff, path)
	case KindSequence:
		return e.resolveSequence(merged, localDiff, remoteDiff, path)
	default:
		return Value{}, nil, nil, invalidNode(path, merged.Kind)
	}
}

// Autoresolve is the package-level entry point matching spec §6.1's literal
// signature: autoresolve(merged, local_diff, remote_diff, strategies, path).
// Top-level callers pass path="" (root).
func Autoresolve(merged Value, localDiff, remoteDiff Diff, strategies StrategyMap, path string, log *logging.Logger) (Value, Diff, Diff, error) {
	return New(strategies, log).Autoresolve(merged, localDiff, remoteDiff, path)
}
