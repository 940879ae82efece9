// Package rule implements the romanization table that drives the
// typing automaton: parsing raw (input, output, next) triples from a
// tab-separated rule file, and preprocessing them into the dependency,
// substitutable, and common-prefix metadata the tiling and graph
// packages consume.
package rule
