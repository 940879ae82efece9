package rule

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tomoemon/emil/pkg/config"
	"github.com/tomoemon/emil/pkg/logging"
)

// ParseFile reads a tab-separated rule file (§6) and preprocesses it
// into a Rule.
func ParseFile(path string, cfg config.RuleConfig) (*Rule, error) {
	return ParseFileWithLogger(path, cfg, nil)
}

// ParseFileWithLogger is ParseFile with an optional structured logger.
func ParseFileWithLogger(path string, cfg config.RuleConfig, logger *logging.Logger) (*Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule file: %w", err)
	}
	defer f.Close()

	entries, err := ParseLines(f)
	if err != nil {
		return nil, fmt.Errorf("parse rule file %s: %w", path, err)
	}
	return NewWithLogger(entries, cfg, logger)
}

// ParseLines reads tab-separated rule lines (§6) from r into a raw
// Entry list, without preprocessing. Blank lines and lines beginning
// with '#' are skipped; every other line must have exactly 2 or 3
// tab-separated columns with a non-empty first column.
func ParseLines(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		var e Entry
		switch len(cols) {
		case 2:
			e = Entry{Input: cols[0], Output: cols[1], Next: ""}
		case 3:
			e = Entry{Input: cols[0], Output: cols[1], Next: cols[2]}
		default:
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedLine, lineNo, line)
		}
		if e.Input == "" {
			return nil, fmt.Errorf("%w: line %d: %q", ErrEmptyInput, lineNo, line)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan rule lines: %w", err)
	}
	return entries, nil
}
