package graph

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomoemon/emil/pkg/config"
	"github.com/tomoemon/emil/pkg/rule"
)

// kanaTable is a small, hand-verified subset of a romaji table: か via
// ka/ca, さ via sa, and っち via the tt/ti and cc/chi doubling chains.
func kanaTable() []rule.Entry {
	return []rule.Entry{
		{Input: "a", Output: "あ"},
		{Input: "i", Output: "い"},
		{Input: "ka", Output: "か"},
		{Input: "ca", Output: "か"},
		{Input: "sa", Output: "さ"},
		{Input: "tt", Output: "っ", Next: "t"},
		{Input: "cc", Output: "っ", Next: "c"},
		{Input: "ti", Output: "ち"},
		{Input: "chi", Output: "ち"},
	}
}

func mustRule(t *testing.T) *rule.Rule {
	t.Helper()
	r, err := rule.New(kanaTable(), config.DefaultRuleConfig())
	if err != nil {
		t.Fatalf("rule.New() error = %v", err)
	}
	return r
}

func TestBuildEndToEndScenarios(t *testing.T) {
	r := mustRule(t)

	tests := []struct {
		name  string
		text  string
		steps []struct {
			key       string
			succeeded bool
			outputted string
		}
	}{
		{
			name: "ka",
			text: "か",
			steps: []struct {
				key       string
				succeeded bool
				outputted string
			}{
				{"k", true, ""},
				{"a", true, "か"},
			},
		},
		{
			name: "ca",
			text: "か",
			steps: []struct {
				key       string
				succeeded bool
				outputted string
			}{
				{"c", true, ""},
				{"a", true, "か"},
			},
		},
		{
			name: "sa",
			text: "さ",
			steps: []struct {
				key       string
				succeeded bool
				outputted string
			}{
				{"s", true, ""},
				{"a", true, "さ"},
			},
		},
		{
			name: "tt+ti",
			text: "っち",
			steps: []struct {
				key       string
				succeeded bool
				outputted string
			}{
				{"t", true, ""},
				{"t", true, "っ"},
				{"i", true, "っち"},
			},
		},
		{
			name: "cc+chi",
			text: "っち",
			steps: []struct {
				key       string
				succeeded bool
				outputted string
			}{
				{"c", true, ""},
				{"c", true, "っ"},
				{"h", true, "っ"},
				{"i", true, "っち"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Build(r, tt.text)
			if err != nil {
				t.Fatalf("Build(%q) error = %v", tt.text, err)
			}
			for _, step := range tt.steps {
				result := a.Input(step.key)
				if result.Succeeded != step.succeeded {
					t.Fatalf("Input(%q).Succeeded = %v, want %v", step.key, result.Succeeded, step.succeeded)
				}
				if got := a.Outputted(); got != step.outputted {
					t.Errorf("after Input(%q): Outputted() = %q, want %q", step.key, got, step.outputted)
				}
			}
			if !a.Finished() {
				t.Error("Finished() = false after all steps, want true")
			}
		})
	}
}

func TestBuildRejectsWrongKeystroke(t *testing.T) {
	r := mustRule(t)
	a, err := Build(r, "か")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	result := a.Input("x")
	if result.Succeeded {
		t.Fatal("Input(\"x\").Succeeded = true, want false")
	}
	if a.Outputted() != "" {
		t.Errorf("Outputted() = %q after rejected keystroke, want empty", a.Outputted())
	}
	if a.Finished() {
		t.Error("Finished() = true after rejected keystroke, want false")
	}
}

func TestBuildRejectsUncoverableText(t *testing.T) {
	r := mustRule(t)
	_, err := Build(r, "ぬ")
	if !errors.Is(err, ErrNoTiling) {
		t.Fatalf("Build() error = %v, want %v", err, ErrNoTiling)
	}
}

func TestBuildResetReturnsToStart(t *testing.T) {
	r := mustRule(t)
	a, err := Build(r, "か")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	a.Input("k")
	a.Input("a")
	if !a.Finished() {
		t.Fatal("expected automaton finished before reset")
	}
	a.Reset()
	if a.Finished() || a.Outputted() != "" || a.Inputted() != "" {
		t.Errorf("after Reset(): finished=%v outputted=%q inputted=%q, want all zero",
			a.Finished(), a.Outputted(), a.Inputted())
	}
	// The reset automaton must still accept the same text from scratch.
	a.Input("k")
	a.Input("a")
	if !a.Finished() || a.Outputted() != "か" {
		t.Errorf("after re-input: finished=%v outputted=%q, want true/%q", a.Finished(), a.Outputted(), "か")
	}
}

func TestBuildWithObserversRejectsOversizedText(t *testing.T) {
	r := mustRule(t)
	cfg := config.DefaultRuntimeConfig()
	cfg.MaxDisplayStringLength = 3

	_, err := BuildWithObservers(context.Background(), r, strings.Repeat("あ", 4), cfg, nil, nil)
	if !errors.Is(err, ErrDisplayTextTooLong) {
		t.Fatalf("BuildWithObservers() error = %v, want %v", err, ErrDisplayTextTooLong)
	}
}

func TestBuildWithObserversAbortsOnBuildDeadline(t *testing.T) {
	r := mustRule(t)
	cfg := config.DefaultRuntimeConfig()
	cfg.MaxDisplayStringLength = 0

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond) // make sure the deadline has already passed

	_, err := BuildWithObservers(ctx, r, "か", cfg, nil, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("BuildWithObservers() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestBuildStartAndEndAreDistinctNodes(t *testing.T) {
	r := mustRule(t)
	a, err := Build(r, "か")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	start, end := a.Start(), a.End()
	if start == end {
		t.Error("Start() and End() are the same node")
	}
	if len(start.NextEdges) != 2 {
		t.Errorf("Start() has %d outgoing edges, want 2 (ka, ca)", len(start.NextEdges))
	}
	if len(end.NextEdges) != 0 {
		t.Errorf("End() has %d outgoing edges, want 0", len(end.NextEdges))
	}
}
