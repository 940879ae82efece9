package rule

import "errors"

// Sentinel errors for rule parsing and preprocessing.
var (
	// ErrMalformedLine is returned when a rule file line has a column
	// count other than 2 or 3.
	ErrMalformedLine = errors.New("malformed rule line")

	// ErrEmptyInput is returned when an entry's input is empty.
	ErrEmptyInput = errors.New("entry input is empty")

	// ErrMissingOutputAndNext is returned when an entry has neither an
	// output nor a next.
	ErrMissingOutputAndNext = errors.New("entry has neither output nor next")

	// ErrDuplicateEntry is returned when an entry repeats the full
	// (Input, Output, Next) triple of the entry most recently registered
	// under the same input.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrUnresolvedDependency is returned when an entry's input contains
	// a non-direct-inputtable rune with no priming entry to supply it.
	ErrUnresolvedDependency = errors.New("entry cannot be primed by any rule")

	// ErrInvalidExpression is returned when DirectInputtableExpr fails
	// to compile or does not evaluate to a boolean.
	ErrInvalidExpression = errors.New("invalid direct-inputtable expression")
)
