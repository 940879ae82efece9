package automaton

// Automaton drives keystroke matching over a fixed Node/Edge DAG built
// by pkg/graph for a single display string. It is not safe for
// concurrent use without external synchronization: Input mutates the
// current state.
type Automaton struct {
	start *Node
	end   *Node
	state *State
}

// New wraps a start/end Node pair, built by pkg/graph, into an
// Automaton positioned at its initial state.
func New(start, end *Node) *Automaton {
	a := &Automaton{start: start, end: end}
	a.Reset()
	return a
}

// Start returns the automaton's initial node, for viz traversal.
func (a *Automaton) Start() *Node {
	return a.start
}

// End returns the automaton's terminal node.
func (a *Automaton) End() *Node {
	return a.end
}

// Inputted returns the keystroke string typed so far.
func (a *Automaton) Inputted() string {
	return a.state.Inputted()
}

// Outputted returns the display string produced so far.
func (a *Automaton) Outputted() string {
	return a.state.Outputted()
}

// Finished reports whether the display string has been fully typed.
func (a *Automaton) Finished() bool {
	return !a.state.Finished()
}

// Test evaluates keystroke i against the current state without
// mutating it.
func (a *Automaton) Test(i string) InputResult {
	return a.state.test(i)
}

// Input applies keystroke i, advancing the current state, and returns
// the same InputResult Test would have.
func (a *Automaton) Input(i string) InputResult {
	result := a.Test(i)
	a.state = result.NewState
	return result
}

// Reset returns the automaton to its initial state.
func (a *Automaton) Reset() {
	a.state = newState(a.start)
}

// Inputtable returns the set of keystrokes that would currently be
// accepted. Unimplemented, same as the reference implementation.
func (a *Automaton) Inputtable() []string {
	return nil
}

// HeadPrintStr returns the display string produced so far.
// Unimplemented, same as the reference implementation.
func (a *Automaton) HeadPrintStr() string {
	return ""
}

// HeadInputStr returns the keystroke string consumed so far.
// Unimplemented, same as the reference implementation.
func (a *Automaton) HeadInputStr() string {
	return ""
}

// TailPrintStr returns the remaining, not-yet-typed display string.
// Unimplemented, same as the reference implementation.
func (a *Automaton) TailPrintStr() string {
	return ""
}

// TailInputStr returns one plausible remaining keystroke string. More
// than one can exist when substitutable entries are available; this
// would need to pick one. Unimplemented, same as the reference
// implementation.
func (a *Automaton) TailInputStr() string {
	return ""
}
