package tiling

import "errors"

// ErrNoTiling is returned when no entry in a Rule can produce any
// suffix of the remaining display text, meaning the text cannot be
// typed under that rule set at all.
var ErrNoTiling = errors.New("no rule entry matches any suffix of the remaining text")
