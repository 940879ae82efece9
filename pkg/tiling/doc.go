// Package tiling enumerates the ways a display string can be tiled,
// right to left, by a Rule's entries: parent search finds every entry
// whose output could end the remaining text, and the tiling enumerator
// recursively covers every resulting position.
package tiling
