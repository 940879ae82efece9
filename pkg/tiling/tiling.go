package tiling

import "github.com/tomoemon/emil/pkg/rule"

// RootTail is the sentinel EntryNode BuildIndexBasedInputtable starts
// recursion from: an empty, non-direct-inputtable entry standing in
// for "nothing typed yet beyond the end of the display string".
func RootTail() *EntryNode {
	return &EntryNode{Entry: &rule.DependentEntry{}}
}

// Index holds, for each position (measured in runes from the start of
// the display string being tiled), the distinct EntryNodes that can be
// typed starting there — in first-discovered order. graph.Build wires
// edges from that order, since construction order is what the
// automaton's cursor tie-break is defined over.
type Index struct {
	seen  map[int]map[EntryNode]struct{}
	order map[int][]EntryNode
}

// NewIndex returns an empty Index ready for BuildIndexBasedInputtable.
func NewIndex() *Index {
	return &Index{
		seen:  make(map[int]map[EntryNode]struct{}),
		order: make(map[int][]EntryNode),
	}
}

// At returns the EntryNodes recorded for position i, in discovery
// order.
func (idx *Index) At(i int) []EntryNode {
	return idx.order[i]
}

// add records n at position i, returning false if n was already
// present there.
func (idx *Index) add(i int, n EntryNode) bool {
	bucket, ok := idx.seen[i]
	if !ok {
		bucket = make(map[EntryNode]struct{})
		idx.seen[i] = bucket
	}
	if _, dup := bucket[n]; dup {
		return false
	}
	bucket[n] = struct{}{}
	idx.order[i] = append(idx.order[i], n)
	return true
}

// BuildIndexBasedInputtable recursively enumerates every way to tile
// text from the right, filling inputtables with, for each position
// (measured in runes from the start of the original display string),
// the EntryNodes that can be typed starting there.
//
// inputtables is mutated in place and also returned for convenience.
// A candidate EntryNode already recorded at its position is skipped
// without recursing again (its prefix was tiled when it was first
// recorded); the remaining candidates at the current recursion level
// are still processed, since the candidates SearchParents admits
// depend on the tail they were searched from.
func BuildIndexBasedInputtable(r *rule.Rule, text []rune, tail *EntryNode, inputtables *Index) (*Index, error) {
	if len(text) == 0 {
		return inputtables, nil
	}

	parents, err := SearchParents(r, text, tail)
	if err != nil {
		return nil, err
	}

	for _, p := range parents {
		idx := len(text) - len([]rune(p.Entry.Output))
		if !inputtables.add(idx, *p) {
			continue
		}

		nextText := text[:idx]
		if _, err := BuildIndexBasedInputtable(r, nextText, p, inputtables); err != nil {
			return nil, err
		}
	}
	return inputtables, nil
}
