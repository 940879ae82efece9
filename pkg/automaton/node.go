package automaton

import "github.com/tomoemon/emil/pkg/rule"

// Node represents one point of progress through the display string: the
// set of keystrokes typed so far uniquely determines which Node the
// automaton is at.
type Node struct {
	NextEdges []*Edge
}

// Finished reports whether n has any outgoing edges. The end node of an
// automaton has none.
func (n *Node) Finished() bool {
	return len(n.NextEdges) > 0
}

// Edge is one admissible keystroke sequence from Previous to Next,
// expressed as the chain of rule entries that must be typed in order to
// take it.
type Edge struct {
	Entries  []rule.Entry
	Previous *Node
	Next     *Node
}
