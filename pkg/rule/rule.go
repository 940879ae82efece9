// Package rule implements the romanization rule table: parsing raw
// (input, output, next) triples, deriving per-entry dependencies,
// substitutables and common-prefix flags, and exposing the lookup
// tables the tiling and graph packages need.
package rule

import (
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/tomoemon/emil/pkg/config"
	"github.com/tomoemon/emil/pkg/logging"
	"github.com/tomoemon/emil/pkg/stringutil"
)

// Rule owns the preprocessed entry list plus the lookup tables the
// tiling enumerator and parent search consult. It is immutable once
// returned from New or ParseFile, and safely shared across any number
// of automaton builds.
type Rule struct {
	entries []*DependentEntry

	inputEdict    map[string]*DependentEntry
	outputEdict   map[string][]*DependentEntry
	onlyNextEdict map[string][]*DependentEntry

	directEntries map[rune]*DependentEntry

	allowDirectNextInput bool
	maxOutputLength      int
}

// New preprocesses a flat entry list into a Rule, deriving
// dependencies, substitutables, and common-prefix flags per §4.1.
func New(rawEntries []Entry, cfg config.RuleConfig) (*Rule, error) {
	return NewWithLogger(rawEntries, cfg, nil)
}

// NewWithLogger is New with an optional structured logger; a nil logger
// is treated as a no-op sink.
func NewWithLogger(rawEntries []Entry, cfg config.RuleConfig, logger *logging.Logger) (*Rule, error) {
	start := time.Now()
	logger = logger.OrNop()

	if cfg.MaxEntries > 0 && len(rawEntries) > cfg.MaxEntries {
		return nil, fmt.Errorf("rule has %d entries, exceeds max %d", len(rawEntries), cfg.MaxEntries)
	}

	direct, err := resolveDirectInputtable(cfg)
	if err != nil {
		return nil, err
	}

	r := &Rule{
		allowDirectNextInput: cfg.AllowDirectNextInput,
	}
	if err := r.makeDict(normalizeEntries(rawEntries)); err != nil {
		return nil, err
	}
	r.directEntries = internDirectEntries(direct)
	if err := r.fillDependencies(); err != nil {
		return nil, err
	}
	r.fillSubstitutables()
	r.fillCommonPrefix()

	logger.Debug("rule loaded", "entries", len(r.entries), "duration", time.Since(start))
	return r, nil
}

func normalizeEntries(raw []Entry) []Entry {
	out := make([]Entry, len(raw))
	for i, e := range raw {
		out[i] = Entry{
			Input:  norm.NFC.String(e.Input),
			Output: norm.NFC.String(e.Output),
			Next:   norm.NFC.String(e.Next),
		}
	}
	return out
}

func internDirectEntries(direct map[rune]struct{}) map[rune]*DependentEntry {
	entries := make(map[rune]*DependentEntry, len(direct))
	for r := range direct {
		s := string(r)
		entries[r] = &DependentEntry{
			Entry:              Entry{Input: s, Output: s, Next: ""},
			IsDirectInputtable: true,
		}
	}
	return entries
}

// makeDict is pass 1 of §4.1: dictionary construction.
func (r *Rule) makeDict(rawEntries []Entry) error {
	r.inputEdict = make(map[string]*DependentEntry, len(rawEntries))
	r.outputEdict = make(map[string][]*DependentEntry)
	r.onlyNextEdict = make(map[string][]*DependentEntry)
	r.entries = make([]*DependentEntry, 0, len(rawEntries))

	maxOutputLength := 0
	for _, e := range rawEntries {
		if e.Input == "" {
			return fmt.Errorf("%w: %+v", ErrEmptyInput, e)
		}
		if e.Output == "" && e.Next == "" {
			return fmt.Errorf("%w: %+v", ErrMissingOutputAndNext, e)
		}
		if existing, ok := r.inputEdict[e.Input]; ok && existing.Entry.key() == e.key() {
			return fmt.Errorf("%w: %+v", ErrDuplicateEntry, e)
		}

		de := &DependentEntry{Entry: e}
		r.inputEdict[e.Input] = de
		r.entries = append(r.entries, de)
		if de.Output != "" {
			r.outputEdict[de.Output] = append(r.outputEdict[de.Output], de)
			if n := len([]rune(de.Output)); n > maxOutputLength {
				maxOutputLength = n
			}
		}
		if de.Output == "" && de.Next != "" {
			r.onlyNextEdict[de.Next] = append(r.onlyNextEdict[de.Next], de)
		}
	}
	r.maxOutputLength = maxOutputLength
	return nil
}

// fillDependencies is pass 2 of §4.1.
func (r *Rule) fillDependencies() error {
	for _, e := range r.entries {
		input := []rune(e.Input)
		for i := 0; i < len(input); i++ {
			c := input[len(input)-1-i]
			if r.isDirectRune(c) {
				continue
			}
			prefixLen := len(input) - i
			substr := string(input[:prefixLen])
			deps, ok := r.onlyNextEdict[substr]
			if !ok {
				return fmt.Errorf("%w: %+v", ErrUnresolvedDependency, e.Entry)
			}
			e.Dependencies = append(e.Dependencies, deps...)
			break
		}
	}
	return nil
}

// fillSubstitutables is pass 3 of §4.1.
func (r *Rule) fillSubstitutables() {
	for _, e := range r.entries {
		if len(e.Dependencies) > 0 {
			continue
		}
		input := []rune(e.Input)
		for _, p := range stringutil.Prefixes(input, len(input)) {
			if deps, ok := r.onlyNextEdict[string(p)]; ok {
				e.Substitutables = append(e.Substitutables, deps...)
			}
		}
	}
}

// fillCommonPrefix is pass 4 of §4.1.
func (r *Rule) fillCommonPrefix() {
	for _, e := range r.entries {
		input := []rune(e.Input)
		for _, p := range stringutil.Prefixes(input, len(input)-1) {
			if prefixEntry, ok := r.inputEdict[string(p)]; ok {
				prefixEntry.HasOnlyCommonPrefix = true
			}
		}
	}
}

func (r *Rule) isDirectRune(c rune) bool {
	_, ok := r.directEntries[c]
	return ok
}

// OutputEntries returns the entries that produce the given output
// string, or nil if none do.
func (r *Rule) OutputEntries(output string) []*DependentEntry {
	return r.outputEdict[output]
}

// InputEntry returns the entry registered for the given input string,
// if any. Per §4.1 pass 1, when multiple raw entries share an input but
// differ in output, only the last one registered is kept here.
func (r *Rule) InputEntry(input string) (*DependentEntry, bool) {
	e, ok := r.inputEdict[input]
	return e, ok
}

// DirectEntry returns the canonical synthetic identity entry for a
// direct-inputtable rune, if r permits typing it literally.
func (r *Rule) DirectEntry(c rune) (*DependentEntry, bool) {
	e, ok := r.directEntries[c]
	return e, ok
}

// AllowDirectNextInput reports the policy flag from §4.3.
func (r *Rule) AllowDirectNextInput() bool {
	return r.allowDirectNextInput
}

// MaxOutputLength is the longest Output, in runes, over all entries.
func (r *Rule) MaxOutputLength() int {
	return r.maxOutputLength
}

// Entries returns the full preprocessed entry list, in load order.
func (r *Rule) Entries() []*DependentEntry {
	return r.entries
}
