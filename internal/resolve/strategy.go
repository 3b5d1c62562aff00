package resolve

import "strings"

// Strategy is a named, user-selected conflict-resolution policy (spec §3.3).
type Strategy string

const (
	StrategyClear          Strategy = "clear"
	StrategyUseBase        Strategy = "use-base"
	StrategyUseLocal       Strategy = "use-local"
	StrategyUseRemote      Strategy = "use-remote"
	StrategyJoin           Strategy = "join"
	StrategyInlineSource   Strategy = "inline-source"
	StrategyInlineOutputs  Strategy = "inline-outputs"
	StrategyRecordConflict Strategy = "record-conflict"
	StrategyMergetool      Strategy = "mergetool"
	StrategyFail           Strategy = "fail"
)

// StrategyMap maps a slash-delimited absolute path to a Strategy. Absence of
// a path means "no strategy; recurse or keep conflict" (spec §3.3). Lookup
// is literal exact match (spec §6.5) — the encoder is expected to rewrite
// every sequence-element path to use "*" before it reaches the map.
type StrategyMap map[string]Strategy

// Lookup returns the strategy registered for path, and whether one exists.
func (m StrategyMap) Lookup(path string) (Strategy, bool) {
	s, ok := m[path]
	return s, ok
}

// JoinPath appends a mapping-key segment to an absolute path (spec §6.5).
// The root path is "".
func JoinPath(path, key string) string {
	return path + "/" + key
}

// WildcardPath appends the sequence-element wildcard segment "*" to path.
func WildcardPath(path string) string {
	return path + "/*"
}

// SplitPath returns a path's segments, ignoring the leading slash.
func SplitPath(path string) []string {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
