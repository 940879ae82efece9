package automaton

import (
	"strings"

	"github.com/tomoemon/emil/pkg/rule"
)

// cursor is a position within one Edge: which entry in the edge's chain
// is being typed, and how far into that entry's input string.
type cursor struct {
	edge       *Edge
	entryIndex int
	inputIndex int
}

// State is an immutable snapshot of automaton progress: the current
// Node, every Edge still admissible from it along with how far each has
// been typed, and the entries fully typed so far.
type State struct {
	node           *Node
	availableEdges []cursor
	passedEntries  []rule.Entry
}

func newState(n *Node) *State {
	return &State{node: n, availableEdges: initialCursors(n)}
}

// Finished reports whether s's node still has outgoing edges, i.e.
// there is more to type.
func (s *State) Finished() bool {
	return s.node.Finished()
}

// Inputted returns the keystroke string typed so far, reconstructed
// from the passed entries plus the partially-typed head of the first
// available cursor.
func (s *State) Inputted() string {
	var parts []string
	next := 0
	for _, e := range s.passedEntries {
		input := []rune(e.Input)
		from := next
		if from > len(input) {
			from = len(input)
		}
		parts = append(parts, string(input[from:]))
		next = len([]rune(e.Next))
	}
	if len(s.availableEdges) > 0 {
		c := s.availableEdges[0]
		input := []rune(c.edge.Entries[c.entryIndex].Input)
		lo, hi := next, c.inputIndex
		if lo > len(input) {
			lo = len(input)
		}
		if hi > len(input) {
			hi = len(input)
		}
		if lo > hi {
			lo = hi
		}
		parts = append(parts, string(input[lo:hi]))
	}
	return strings.Join(parts, "")
}

// Outputted returns the display string produced so far.
func (s *State) Outputted() string {
	var sb strings.Builder
	for _, e := range s.passedEntries {
		sb.WriteString(e.Output)
	}
	return sb.String()
}

// consumeStep consumes keystroke runes i against one entry chain,
// starting at edge.Entries[entryIndex] offset inputIndex runes in.
// When an entry is fully typed it rolls over into the entry's Next
// string and advances to the following entry in the chain, recursively
// consuming any leftover runes of i.
func consumeStep(i []rune, edge *Edge, entryIndex, inputIndex int, finished []rule.Entry) (succeeded bool, newEntryIndex, newInputIndex int, finishedOut []rule.Entry) {
	if len(i) == 0 || entryIndex >= len(edge.Entries) {
		return len(finished) > 0, entryIndex, inputIndex, finished
	}

	entry := edge.Entries[entryIndex]
	input := []rune(entry.Input)
	rest := input[inputIndex:]
	if !hasRunePrefix(rest, i) {
		return false, entryIndex, inputIndex, finished
	}

	if len(input) == inputIndex+len(i) {
		nextFinished := append(append([]rule.Entry{}, finished...), entry)
		return consumeStep([]rune(entry.Next), edge, entryIndex+1, 0, nextFinished)
	}
	return true, entryIndex, inputIndex + len(i), finished
}

func hasRunePrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}

// InputResult is the outcome of testing or applying one keystroke.
type InputResult struct {
	Succeeded bool
	NewState  *State
	// PassedEntries holds the entries that were fully typed by this
	// keystroke; a single keystroke can complete more than one entry
	// when a Next chain resolves automatically.
	PassedEntries []rule.Entry
}

// test evaluates keystroke i against s without mutating s, returning
// the resulting InputResult. Cursors are tried in order; the first one
// to complete its edge wins immediately and short-circuits the rest,
// matching the reference implementation's early-return behavior.
func (s *State) test(i string) InputResult {
	iRunes := []rune(i)
	var newAvailable []cursor
	var finishedEntries []rule.Entry

	for _, c := range s.availableEdges {
		succeeded, newEntryIndex, newInputIndex, tmpFinished := consumeStep(iRunes, c.edge, c.entryIndex, c.inputIndex, nil)
		if !succeeded {
			continue
		}
		finishedEntries = tmpFinished
		if newEntryIndex == len(c.edge.Entries) {
			next := c.edge.Next
			newState := &State{
				node:           next,
				availableEdges: initialCursors(next),
				passedEntries:  appendEntries(s.passedEntries, tmpFinished),
			}
			return InputResult{Succeeded: true, NewState: newState, PassedEntries: tmpFinished}
		}
		newAvailable = append(newAvailable, cursor{edge: c.edge, entryIndex: newEntryIndex, inputIndex: newInputIndex})
	}

	if len(newAvailable) > 0 {
		newState := &State{
			node:           s.node,
			availableEdges: newAvailable,
			passedEntries:  appendEntries(s.passedEntries, finishedEntries),
		}
		return InputResult{Succeeded: true, NewState: newState, PassedEntries: finishedEntries}
	}
	return InputResult{Succeeded: false, NewState: s}
}

func initialCursors(n *Node) []cursor {
	cursors := make([]cursor, len(n.NextEdges))
	for i, e := range n.NextEdges {
		cursors[i] = cursor{edge: e, entryIndex: 0, inputIndex: 0}
	}
	return cursors
}

func appendEntries(base, extra []rule.Entry) []rule.Entry {
	out := make([]rule.Entry, 0, len(base)+len(extra))
	out = append(out, base...)
	out = append(out, extra...)
	return out
}
