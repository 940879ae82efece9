// Package config centralizes the tunables for rule loading, graph
// construction limits, and the HTTP driver service.
package config

import "time"

// RuleConfig controls how a rule pack is parsed and preprocessed.
type RuleConfig struct {
	// DirectInputtable is the set of runes the user may type literally,
	// bypassing the rule table (an identity entry is synthesized on the
	// fly for each). Ignored if DirectInputtableExpr is non-empty.
	DirectInputtable map[rune]struct{}

	// DirectInputtableExpr is an optional expr-lang boolean expression
	// evaluated over each rune of Alphabet to derive DirectInputtable.
	// The expression environment exposes `char` (the rune's code point)
	// and `printable` (unicode.IsPrint(r)).
	DirectInputtableExpr string

	// Alphabet is the candidate rune set DirectInputtableExpr is
	// evaluated over. Ignored when DirectInputtableExpr is empty.
	Alphabet []rune

	// AllowDirectNextInput permits an entry with a non-empty Next to
	// follow a direct-inputtable entry (read by tiling.SearchParents).
	AllowDirectNextInput bool

	// MaxEntries guards against pathological rule packs. 0 means
	// unlimited.
	MaxEntries int
}

// DefaultRuleConfig returns the policy used by the original reference
// implementation's demo: ASCII-printable direct input, no direct-next-input.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		DirectInputtable:     ASCIIPrintableAlphabetSet(),
		AllowDirectNextInput: false,
		MaxEntries:           0,
	}
}

// ASCIIPrintableAlphabet returns the printable ASCII runes (0x20-0x7e),
// mirroring the original Python demo's `{chr(i) for i in range(128) if
// chr(i).isprintable()}`.
func ASCIIPrintableAlphabet() []rune {
	runes := make([]rune, 0, 0x7f-0x20)
	for r := rune(0x20); r < 0x7f; r++ {
		runes = append(runes, r)
	}
	return runes
}

// ASCIIPrintableAlphabetSet is ASCIIPrintableAlphabet as a membership set.
func ASCIIPrintableAlphabetSet() map[rune]struct{} {
	alphabet := ASCIIPrintableAlphabet()
	set := make(map[rune]struct{}, len(alphabet))
	for _, r := range alphabet {
		set[r] = struct{}{}
	}
	return set
}

// RuntimeConfig guards graph construction against pathological inputs.
type RuntimeConfig struct {
	// MaxDisplayStringLength limits the text a single Build call will
	// tile. 0 means unlimited.
	MaxDisplayStringLength int

	// MaxBuildDuration aborts a graph build that runs longer than this.
	// 0 means unlimited.
	MaxBuildDuration time.Duration
}

// DefaultRuntimeConfig returns generous, non-restrictive defaults.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		MaxDisplayStringLength: 256,
		MaxBuildDuration:       5 * time.Second,
	}
}

// ServerConfig controls the HTTP driver service.
type ServerConfig struct {
	Address            string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
	// AutomatonTTL is how long a built automaton survives in the
	// in-memory registry without being touched before eviction.
	AutomatonTTL time.Duration
}

// DefaultServerConfig mirrors common production defaults for a small
// internal HTTP service.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:            ":8080",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
		AutomatonTTL:       30 * time.Minute,
	}
}
