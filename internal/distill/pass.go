package distill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrUnknownProduct is returned when a pass reads a product that no earlier
// pass writes.
var ErrUnknownProduct = errors.New("distill: unknown product")

// SourcePrefix marks reads of faithful-store tables. They are always
// available and impose no ordering.
const SourcePrefix = "faithful."

// Pass is one read-aggregate step. Reads and Writes name products (or
// faithful.<table> sources); the scheduler derives the execution order from
// them, so passes never rely on their position in a list to see their
// inputs.
type Pass struct {
	Name   string
	Reads  []string
	Writes []string
	Run    func(ctx context.Context, s *state) error
}

// Plan groups passes into dependency levels: every pass in level n reads only
// sources and products written in levels < n. Passes within a level are
// independent and may run concurrently.
func Plan(passes []Pass) ([][]Pass, error) {
	writer := map[string]int{} // product -> level of the pass writing it
	owner := map[string]string{}
	var levels [][]Pass
	for _, p := range passes {
		level := 0
		for _, r := range p.Reads {
			if strings.HasPrefix(r, SourcePrefix) {
				continue
			}
			l, ok := writer[r]
			if !ok {
				return nil, fmt.Errorf("%w: pass %s reads %q", ErrUnknownProduct, p.Name, r)
			}
			if l+1 > level {
				level = l + 1
			}
		}
		for _, w := range p.Writes {
			if strings.HasPrefix(w, SourcePrefix) {
				return nil, fmt.Errorf("distill: pass %s writes source %q", p.Name, w)
			}
			if prev, dup := owner[w]; dup {
				return nil, fmt.Errorf("distill: product %q written by both %s and %s", w, prev, p.Name)
			}
			owner[w] = p.Name
			writer[w] = level
		}
		for len(levels) <= level {
			levels = append(levels, nil)
		}
		levels[level] = append(levels[level], p)
	}
	return levels, nil
}

// observer receives the outcome of every pass.
type observer func(name string, d time.Duration, err error)

// schedule runs passes level by level. Within a level passes run concurrently
// (at most workers at a time when workers > 0); the first error cancels the
// rest of the level and stops the run.
func schedule(ctx context.Context, passes []Pass, s *state, workers int, observe observer) error {
	levels, err := Plan(passes)
	if err != nil {
		return err
	}
	var mu sync.Mutex
	for _, level := range levels {
		g, gctx := errgroup.WithContext(ctx)
		if workers > 0 {
			g.SetLimit(workers)
		}
		for _, p := range level {
			p := p
			g.Go(func() error {
				start := time.Now()
				err := p.Run(gctx, s)
				if observe != nil {
					mu.Lock()
					observe(p.Name, time.Since(start), err)
					mu.Unlock()
				}
				if err != nil {
					return fmt.Errorf("distill: pass %s: %w", p.Name, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}
