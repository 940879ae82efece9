package rule

import (
	"fmt"
	"unicode"

	"github.com/expr-lang/expr"

	"github.com/tomoemon/emil/pkg/config"
)

// resolveDirectInputtable derives the direct-inputtable rune set for a
// RuleConfig. When DirectInputtableExpr is set, it is compiled once via
// expr-lang and evaluated for every rune in Alphabet; otherwise the
// literal DirectInputtable set is used as-is.
func resolveDirectInputtable(cfg config.RuleConfig) (map[rune]struct{}, error) {
	if cfg.DirectInputtableExpr == "" {
		return cfg.DirectInputtable, nil
	}

	env := map[string]interface{}{"char": 0, "printable": false}
	program, err := expr.Compile(cfg.DirectInputtableExpr, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidExpression, cfg.DirectInputtableExpr, err)
	}

	direct := make(map[rune]struct{})
	for _, r := range cfg.Alphabet {
		out, err := expr.Run(program, map[string]interface{}{
			"char":      int(r),
			"printable": unicode.IsPrint(r),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: evaluating for rune %q: %v", ErrInvalidExpression, r, err)
		}
		ok, isBool := out.(bool)
		if !isBool {
			return nil, fmt.Errorf("%w: expression did not evaluate to a boolean", ErrInvalidExpression)
		}
		if ok {
			direct[r] = struct{}{}
		}
	}
	return direct, nil
}
