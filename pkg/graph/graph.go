package graph

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/tomoemon/emil/pkg/automaton"
	"github.com/tomoemon/emil/pkg/config"
	"github.com/tomoemon/emil/pkg/logging"
	"github.com/tomoemon/emil/pkg/rule"
	"github.com/tomoemon/emil/pkg/telemetry"
	"github.com/tomoemon/emil/pkg/tiling"
)

// Build tiles text against r and wires the tiling into a DAG, returning
// an Automaton ready to drive it. text is NFC-normalized before tiling,
// matching the normalization already applied to r's entries.
func Build(r *rule.Rule, text string) (*automaton.Automaton, error) {
	return BuildWithObservers(context.Background(), r, text, config.DefaultRuntimeConfig(), nil, nil)
}

// BuildWithObservers is Build with an explicit context, a RuntimeConfig
// guarding against pathological builds, plus optional structured
// logging and telemetry; either observer may be nil.
func BuildWithObservers(ctx context.Context, r *rule.Rule, text string, cfg config.RuntimeConfig, logger *logging.Logger, telem *telemetry.Provider) (*automaton.Automaton, error) {
	start := time.Now()
	logger = logger.OrNop()

	textRunes := []rune(norm.NFC.String(text))
	if cfg.MaxDisplayStringLength > 0 && len(textRunes) > cfg.MaxDisplayStringLength {
		err := fmt.Errorf("%w: %d runes exceeds max %d", ErrDisplayTextTooLong, len(textRunes), cfg.MaxDisplayStringLength)
		if telem != nil {
			telem.RecordAutomatonBuild(ctx, len(textRunes), time.Since(start), false)
		}
		logger.Warn("automaton build rejected", "text", text, "error", err)
		return nil, err
	}

	if cfg.MaxBuildDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxBuildDuration)
		defer cancel()
	}

	indexes, err := tileWithDeadline(ctx, r, textRunes)
	if err != nil {
		if telem != nil {
			telem.RecordAutomatonBuild(ctx, len(textRunes), time.Since(start), false)
		}
		logger.Warn("automaton build failed", "text", text, "error", err)
		return nil, fmt.Errorf("build tiling for %q: %w", text, err)
	}

	startNode := &automaton.Node{}
	endNode := &automaton.Node{}
	indexedNodes := map[int]*automaton.Node{}

	var buildNodes func(previous, end *automaton.Node, index int)
	buildNodes = func(previous, end *automaton.Node, index int) {
		if previous == end {
			return
		}
		for _, n := range indexes.At(index) {
			build := false
			nextIndex := index + n.TotalLength()

			var next *automaton.Node
			switch {
			case nextIndex == len(textRunes):
				next = end
			default:
				if existing, ok := indexedNodes[nextIndex]; ok {
					next = existing
				} else {
					next = &automaton.Node{}
					indexedNodes[nextIndex] = next
					build = true
				}
			}

			children := n.Children()
			for _, dependencyChain := range n.FlattenDependencies() {
				entries := make([]rule.Entry, 0, len(dependencyChain)+len(children))
				for _, e := range dependencyChain {
					entries = append(entries, e.Entry)
				}
				for _, e := range children {
					entries = append(entries, e.Entry)
				}
				previous.NextEdges = append(previous.NextEdges, &automaton.Edge{
					Entries:  entries,
					Previous: previous,
					Next:     next,
				})
			}

			if build {
				buildNodes(next, end, nextIndex)
			}
		}
	}
	buildNodes(startNode, endNode, 0)

	if telem != nil {
		telem.RecordAutomatonBuild(ctx, len(textRunes), time.Since(start), true)
	}
	logger.Debug("automaton built", "text", text, "duration", time.Since(start))
	return automaton.New(startNode, endNode), nil
}

// tileWithDeadline runs the tiling recursion on its own goroutine and
// races it against ctx, so a RuntimeConfig.MaxBuildDuration deadline
// aborts a pathological build instead of blocking the caller
// indefinitely. The tiling goroutine itself is not preemptible and may
// keep running after a timeout is reported; it holds no resources
// beyond its own stack and map, so it is left to finish and be
// collected.
func tileWithDeadline(ctx context.Context, r *rule.Rule, textRunes []rune) (*tiling.Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		indexes *tiling.Index
		err     error
	}
	done := make(chan result, 1)
	go func() {
		indexes, err := tiling.BuildIndexBasedInputtable(r, textRunes, tiling.RootTail(), tiling.NewIndex())
		done <- result{indexes, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.indexes, res.err
	}
}
