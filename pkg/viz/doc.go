// Package viz renders an automaton's Node/Edge DAG as a Graphviz DOT
// graph, for visual inspection of the tilings a rule set admits.
package viz
