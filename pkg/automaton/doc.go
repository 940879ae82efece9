// Package automaton implements the keystroke-matching state machine:
// a DAG of Node/Edge wired by pkg/graph, and the pure, idempotent
// State.test that walks it one keystroke at a time.
package automaton
