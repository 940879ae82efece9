package tiling

import "github.com/tomoemon/emil/pkg/rule"

// EntryNode is one candidate tile: the entry being placed, and
// optionally a child node it depends on via its Next string priming
// the following position. EntryNode is a plain comparable value so it
// can be used directly as a map key for tiling-position memoization;
// two EntryNodes compare equal exactly when they reference the same
// entry and the same child, which holds for structurally identical
// candidates because Rule interns its entries and search chains reuse
// the same tail pointer.
type EntryNode struct {
	Entry *rule.DependentEntry
	Child *EntryNode
}

// TotalLength is the combined output length, in runes, of n and every
// node in its child chain.
func (n EntryNode) TotalLength() int {
	length := len([]rune(n.Entry.Output))
	if n.Child == nil {
		return length
	}
	return length + n.Child.TotalLength()
}

// Children returns n's entry followed by every entry in its child
// chain, in that order.
func (n EntryNode) Children() []*rule.DependentEntry {
	out := []*rule.DependentEntry{n.Entry}
	if n.Child == nil {
		return out
	}
	return append(out, n.Child.Children()...)
}

// FlattenDependencies enumerates every way to satisfy n.Entry's
// dependency chain by backtracking through dependencies and
// substitutables, not including n.Entry itself. Each returned slice is
// ordered earliest-typed first.
func (n EntryNode) FlattenDependencies() [][]*rule.DependentEntry {
	var result [][]*rule.DependentEntry
	var backtrack func(entry *rule.DependentEntry, stack []*rule.DependentEntry)
	backtrack = func(entry *rule.DependentEntry, stack []*rule.DependentEntry) {
		if len(entry.Dependencies) == 0 || len(entry.Substitutables) > 0 {
			result = append(result, stack)
		}
		for _, d := range entry.Dependencies {
			newStack := prepend(stack, d)
			backtrack(d, newStack)
		}
		for _, s := range entry.Substitutables {
			newStack := prepend(stack, s)
			backtrack(s, newStack)
		}
	}
	backtrack(n.Entry, nil)
	return result
}

func prepend(stack []*rule.DependentEntry, e *rule.DependentEntry) []*rule.DependentEntry {
	out := make([]*rule.DependentEntry, 0, len(stack)+1)
	out = append(out, e)
	return append(out, stack...)
}
