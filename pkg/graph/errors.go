package graph

import (
	"errors"

	"github.com/tomoemon/emil/pkg/tiling"
)

// ErrNoTiling is returned when the display text contains a position
// that no rule entry can cover.
var ErrNoTiling = tiling.ErrNoTiling

// ErrDisplayTextTooLong is returned when the display text exceeds
// RuntimeConfig.MaxDisplayStringLength.
var ErrDisplayTextTooLong = errors.New("display text exceeds configured maximum length")
