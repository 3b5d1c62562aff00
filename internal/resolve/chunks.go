package resolve

import "sort"

// MergeChunk is an indivisible aligned segment of two sequence diffs
// sharing a base index range [Begin, End) (spec §6.3, §4.3).
type MergeChunk struct {
	Begin, End   int
	LocalOps     Diff
	RemoteOps    Diff
}

// MakeMergeChunks partitions local and remote sequence diffs into aligned
// chunks over base indices 0..len(seq) (spec §6.3). It is the chunk-aligner
// external collaborator the spec treats as out of scope (§1); no reference
// implementation was retrieved alongside the distilled spec (chunks.py was
// not part of the pack), so this is a from-scratch implementation of the
// stated contract using ordinary interval-merging: every op whose span
// (index, index+width) overlaps another op's span lands in one merged
// chunk, so a two-sided Patch/Patch pair or an overlapping RemoveRange
// always ends up considered together. Chunks cover [0, len(seq)) in order;
// each entry appears in exactly one chunk's side list; AddRange entries
// bind to the chunk that starts at their index (or, when the index falls
// strictly inside a merged span, to that span's chunk). Inserts at
// len(seq) bind to a trailing empty chunk [len(seq), len(seq)).
func MakeMergeChunks(seq []Value, local, remote Diff) []MergeChunk {
	n := len(seq)

	type span struct{ start, end int }
	var spans []span
	collectSpans := func(d Diff) {
		for _, e := range d {
			if !e.Key.IsIndex {
				continue
			}
			switch e.Op {
			case OpReplace, OpPatch:
				spans = append(spans, span{e.Key.Index, e.Key.Index + 1})
			case OpRemoveRange:
				spans = append(spans, span{e.Key.Index, e.Key.Index + e.Length})
			}
		}
	}
	collectSpans(local)
	collectSpans(remote)

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	var merged []span
	for _, s := range spans {
		if len(merged) > 0 && s.start < merged[len(merged)-1].end {
			if s.end > merged[len(merged)-1].end {
				merged[len(merged)-1].end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}

	boundarySet := map[int]bool{0: true, n: true}
	for _, s := range merged {
		boundarySet[s.start] = true
		boundarySet[s.end] = true
	}
	insideSpan := func(idx int) bool {
		for _, s := range merged {
			if s.start < idx && idx < s.end {
				return true
			}
		}
		return false
	}
	addInsertBoundaries := func(d Diff) {
		for _, e := range d {
			if e.Op == OpAddRange && e.Key.IsIndex && !insideSpan(e.Key.Index) {
				boundarySet[e.Key.Index] = true
			}
		}
	}
	addInsertBoundaries(local)
	addInsertBoundaries(remote)

	boundaries := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		boundaries = append(boundaries, b)
	}
	sort.Ints(boundaries)

	opsIn := func(d Diff, j, k int) Diff {
		var out Diff
		for _, e := range d {
			if !e.Key.IsIndex {
				continue
			}
			idx := e.Key.Index
			switch e.Op {
			case OpAddRange:
				if idx == j || (idx > j && idx < k) {
					out = append(out, e)
				}
			case OpRemoveRange:
				if idx >= j && idx < k {
					out = append(out, e)
				}
			default: // Replace, Patch
				if idx >= j && idx < k {
					out = append(out, e)
				}
			}
		}
		return out
	}

	chunks := make([]MergeChunk, 0, len(boundaries))
	for i := 0; i+1 < len(boundaries); i++ {
		j, k := boundaries[i], boundaries[i+1]
		chunks = append(chunks, MergeChunk{
			Begin:     j,
			End:       k,
			LocalOps:  opsIn(local, j, k),
			RemoteOps: opsIn(remote, j, k),
		})
	}
	// Inserts at n (appends) bind to a trailing empty chunk; with n == 0 and
	// no other boundary this is the single degenerate chunk.
	tail := MergeChunk{Begin: n, End: n, LocalOps: opsIn(local, n, n), RemoteOps: opsIn(remote, n, n)}
	if len(chunks) == 0 || len(tail.LocalOps) > 0 || len(tail.RemoteOps) > 0 {
		chunks = append(chunks, tail)
	}
	return chunks
}
