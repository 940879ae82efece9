// Package server drives the core rule/graph/automaton API over HTTP:
// upload a rule pack, build automatons from it, and step them by
// keystroke. It is a thin layer over pkg/rule, pkg/graph, and
// pkg/automaton, not a reimplementation of them.
package server
