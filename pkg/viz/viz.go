package viz

import (
	"fmt"
	"strings"

	"github.com/tomoemon/emil/pkg/automaton"
)

// Render walks a's DAG from its start node and emits a Graphviz DOT
// description of it. Node names encode the cumulative output length
// (in runes) at which they are first reached; since the DAG is built
// so that every path to a given node accumulates the same output
// length, this is a stable, human-readable label.
func Render(a *automaton.Automaton) string {
	var nodeOrder []*automaton.Node
	var edgeOrder []*automaton.Edge
	names := map[*automaton.Node]string{}
	seenEdges := map[*automaton.Edge]bool{}

	var trace func(n *automaton.Node, outputLen int)
	trace = func(n *automaton.Node, outputLen int) {
		if _, ok := names[n]; !ok {
			names[n] = fmt.Sprintf("n%d", outputLen)
			nodeOrder = append(nodeOrder, n)
		}
		for _, e := range n.NextEdges {
			if !seenEdges[e] {
				seenEdges[e] = true
				edgeOrder = append(edgeOrder, e)
			}
			trace(e.Next, outputLen+edgeOutputLength(e))
		}
	}
	trace(a.Start(), 0)

	var nodeDefs []string
	for _, n := range nodeOrder {
		nodeDefs = append(nodeDefs, names[n])
	}

	var edgeDefs []string
	for _, e := range edgeOrder {
		edgeDefs = append(edgeDefs, fmt.Sprintf(
			"%s -> %s [\n    label = %s\n  ]",
			names[e.Previous], names[e.Next], quoteEdge(e),
		))
	}

	return fmt.Sprintf(`digraph graph_name {
  graph [
    ranksep = 1.0
  ];

  //node define
  %s;

  // edge define
  %s;
}`, strings.Join(nodeDefs, ";\n  "), strings.Join(edgeDefs, ";\n  "))
}

func edgeOutputLength(e *automaton.Edge) int {
	n := 0
	for _, entry := range e.Entries {
		n += len([]rune(entry.Output))
	}
	return n
}

func quoteEdge(e *automaton.Edge) string {
	parts := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		parts[i] = fmt.Sprintf("%s/%s/%s", entry.Input, entry.Output, entry.Next)
	}
	s := strings.Join(parts, " | ")
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
