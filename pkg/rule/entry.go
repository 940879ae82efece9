package rule

// Entry is a single row of the romanization table: what the user types
// (Input), what appears on screen (Output), and what is virtually
// prepended to the following entry's input stream (Next).
//
// Exactly one of Output or Next must be non-empty; Input must be
// non-empty. An entry is identified by the triple (Input, Output, Next).
type Entry struct {
	Input  string
	Output string
	Next   string
}

func (e Entry) key() string {
	return e.Input + "\x00" + e.Output + "\x00" + e.Next
}

// DependentEntry extends Entry with the fields rule preprocessing fills
// in: the chain of entries that must be typed first to prime it, the
// alternative entries that could prime it instead, whether it is a
// strict prefix of another entry's input, and whether it is a
// synthetic direct-input entry.
//
// DependentEntry is mutable only during preprocessing (pkg/rule.New);
// once a Rule is constructed it is treated as frozen and must not be
// modified by callers.
type DependentEntry struct {
	Entry

	Dependencies   []*DependentEntry
	Substitutables []*DependentEntry

	HasOnlyCommonPrefix bool
	IsDirectInputtable  bool
}
