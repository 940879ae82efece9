// Package graph wires a tiling map into the final Node/Edge DAG and
// wraps it into a ready-to-drive *automaton.Automaton.
package graph
