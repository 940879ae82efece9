package tiling

import (
	"fmt"
	"strings"

	"github.com/tomoemon/emil/pkg/rule"
	"github.com/tomoemon/emil/pkg/stringutil"
)

// SearchParents finds every entry that could produce some suffix of
// text, given that tail is the EntryNode already committed to
// following it. It returns one EntryNode per admissible candidate,
// wired to tail as its Child when the candidate's Next string primes
// tail's input.
func SearchParents(r *rule.Rule, text []rune, tail *EntryNode) ([]*EntryNode, error) {
	if len(text) == 0 {
		return nil, nil
	}

	var current []*EntryNode
	tailInput := []rune(tail.Entry.Input)
	tailInputPrefixes := stringutil.Prefixes(tailInput, len(tailInput))
	textSuffixes := stringutil.Suffixes(text, r.MaxOutputLength())

	for _, suffix := range textSuffixes {
		s := string(suffix)
		for _, e := range r.OutputEntries(s) {
			if e.Next == "" && e.HasOnlyCommonPrefix {
				// An entry that is only a common prefix of others cannot
				// stand alone at the tail of the input.
				if len(tailInput) == 0 {
					continue
				}
				// If this entry's input, extended by any prefix of what
				// tail expects next, names a registered entry, skip it:
				// e.g. typing "ん" alone must not shadow "んい"/"んに".
				shadowed := false
				for _, p := range tailInputPrefixes {
					if _, ok := r.InputEntry(e.Input + string(p)); ok {
						shadowed = true
						break
					}
				}
				if shadowed {
					continue
				}
			}

			switch {
			case e.Next == "":
				current = append(current, &EntryNode{Entry: e})
			case strings.HasPrefix(string(tailInput), e.Next):
				if !tail.Entry.IsDirectInputtable || r.AllowDirectNextInput() {
					current = append(current, &EntryNode{Entry: e, Child: tail})
				}
			}
		}

		if len(suffix) == 1 {
			if de, ok := r.DirectEntry(suffix[0]); ok {
				current = append(current, &EntryNode{Entry: de})
			}
		}
	}

	if len(current) == 0 {
		return nil, fmt.Errorf("%w: no entry matches any suffix of %q", ErrNoTiling, string(text))
	}
	return current, nil
}
