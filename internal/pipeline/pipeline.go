package pipeline

import (
	"context"
	"errors"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"rase/internal/block"
	"rase/internal/propagate"
)

// Config controls the pipeline.
type Config struct {
	Threads  int // expansion workers; <=1 runs everything on the caller's goroutine
	InFlight int // max blocks read but not yet fed; 0 picks Threads*4
}

// BlockSource yields read blocks until io.EOF. *block.Grouper satisfies it.
type BlockSource interface {
	Next() (block.Block, error)
}

// Expander turns a block into leaf contributions. It must be safe for
// concurrent use when Threads > 1.
type Expander interface {
	Expand(block.Block) (propagate.Expansion, error)
}

// Sink consumes expansions in order. *window.Scheduler satisfies it.
type Sink interface {
	Feed(propagate.Expansion) error
	Drain() error
}

// Summary reports what reached the sink.
type Summary struct {
	Blocks     int
	Alignments int
}

// Run streams src through exp into sink and drains the sink at the end of
// the stream. Cancellation is observed between blocks; a block is either
// fed whole or not at all, and a cancelled run is not drained.
func Run(ctx context.Context, cfg Config, src BlockSource, exp Expander, sink Sink) (Summary, error) {
	var (
		sum Summary
		err error
	)
	if cfg.Threads <= 1 {
		sum, err = runSerial(ctx, src, exp, sink)
	} else {
		sum, err = runParallel(ctx, cfg, src, exp, sink)
	}
	if err != nil {
		return sum, err
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, sink.Drain()
}

func runSerial(ctx context.Context, src BlockSource, exp Expander, sink Sink) (Summary, error) {
	var sum Summary
	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		b, err := src.Next()
		if errors.Is(err, io.EOF) {
			return sum, nil
		}
		if err != nil {
			return sum, err
		}
		e, err := exp.Expand(b)
		if err != nil {
			return sum, err
		}
		if err := sink.Feed(e); err != nil {
			return sum, err
		}
		sum.Blocks++
		sum.Alignments += e.Alignments
	}
}

func runParallel(ctx context.Context, cfg Config, src BlockSource, exp Expander, sink Sink) (Summary, error) {
	depth := cfg.InFlight
	if depth <= 0 {
		depth = cfg.Threads * 4
	}

	type job struct {
		seq int
		b   block.Block
	}
	type result struct {
		seq int
		e   propagate.Expansion
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan job, cfg.Threads*2)
	results := make(chan result, cfg.Threads*2)
	tokens := make(chan struct{}, depth)

	// Reader
	g.Go(func() error {
		defer close(jobs)
		for seq := 0; ; seq++ {
			select {
			case tokens <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			b, err := src.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			select {
			case jobs <- job{seq: seq, b: b}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		g.Go(func() error {
			defer wg.Done()
			for j := range jobs {
				e, err := exp.Expand(j.b)
				if err != nil {
					return err
				}
				select {
				case results <- result{seq: j.seq, e: e}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collector: the only goroutine touching sink.
	var sum Summary
	g.Go(func() error {
		pending := make(map[int]propagate.Expansion, depth)
		next := 0
		for r := range results {
			pending[r.seq] = r.e
			for {
				e, ok := pending[next]
				if !ok {
					break
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				delete(pending, next)
				if err := sink.Feed(e); err != nil {
					return err
				}
				next++
				sum.Blocks++
				sum.Alignments += e.Alignments
				<-tokens
			}
		}
		return nil
	})

	err := g.Wait()
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return sum, err
}
