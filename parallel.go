package tabula

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the number of elements handed to a worker at a time.
const DefaultChunkSize = 256

// ParallelOption configures CollectParallel.
type ParallelOption func(*parallelConfig)

type parallelConfig struct {
	workers   int
	chunkSize int
	shared    bool
}

// WithWorkers bounds the number of concurrent workers. Defaults to
// runtime.NumCPU().
func WithWorkers(n int) ParallelOption {
	return func(cfg *parallelConfig) {
		cfg.workers = n
	}
}

// WithChunkSize sets how many elements each worker accumulates per task.
func WithChunkSize(n int) ParallelOption {
	return func(cfg *parallelConfig) {
		cfg.chunkSize = n
	}
}

// WithSharedContainer makes every worker accumulate into one partial instead
// of merging per-chunk partials. Only valid for Concurrent collectors.
func WithSharedContainer() ParallelOption {
	return func(cfg *parallelConfig) {
		cfg.shared = true
	}
}

func newParallelConfig(opts []ParallelOption) parallelConfig {
	cfg := parallelConfig{
		workers:   runtime.NumCPU(),
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (cfg parallelConfig) validate(ch Characteristics) error {
	if cfg.workers < 1 {
		return newOptionError("workers", "must be at least 1")
	}
	if cfg.chunkSize < 1 {
		return newOptionError("chunk size", "must be at least 1")
	}
	if cfg.shared && !ch.Has(Concurrent) {
		return newOptionError("shared container", "collector is not concurrent")
	}
	return nil
}

// chunkPartial is a finished per-chunk partial tagged with its chunk number.
type chunkPartial[A any] struct {
	seq     int
	partial A
}

// CollectParallel drives c over src with a bounded pool of workers. The
// source is read on the calling goroutine and split into chunks; each chunk
// is accumulated into its own partial, and partials are combined once all
// workers finish.
//
// Every element contributes exactly once. Positional order is guaranteed
// only for collectors that are not Unordered, whose partials are combined
// in chunk order. For Unordered collectors, such as the row and column
// collectors, partials are combined in completion order.
//
// The first failure cancels the remaining work and no result is returned.
func CollectParallel[T, A, R any](ctx context.Context, src Source[T], c Collector[T, A, R], opts ...ParallelOption) (R, error) {
	var zero R

	cfg := newParallelConfig(opts)
	ch := c.Characteristics()
	if err := cfg.validate(ch); err != nil {
		return zero, err
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	var (
		mu       sync.Mutex
		partials []chunkPartial[A]
		shared   A
	)
	if cfg.shared {
		shared = c.New()
	}

	dispatch := func(items []T, base, seq int) {
		g.Go(func() error {
			acc := shared
			if !cfg.shared {
				acc = c.New()
			}
			for i, elem := range items {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := c.Accumulate(acc, elem); err != nil {
					return atIndex(err, base+i)
				}
			}
			if !cfg.shared {
				mu.Lock()
				partials = append(partials, chunkPartial[A]{seq: seq, partial: acc})
				mu.Unlock()
			}
			return nil
		})
	}

	chunk := make([]T, 0, cfg.chunkSize)
	base, chunks := 0, 0
	for elem := range src.All() {
		if gctx.Err() != nil {
			break
		}
		chunk = append(chunk, elem)
		if len(chunk) == cfg.chunkSize {
			dispatch(chunk, base, chunks)
			base += len(chunk)
			chunks++
			chunk = make([]T, 0, cfg.chunkSize)
		}
	}
	if len(chunk) > 0 {
		dispatch(chunk, base, chunks)
		chunks++
	}

	if err := g.Wait(); err != nil {
		return zero, err
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if err := src.Err(); err != nil {
		return zero, err
	}

	acc := shared
	if !cfg.shared {
		if !ch.Has(Unordered) {
			sort.Slice(partials, func(i, j int) bool { return partials[i].seq < partials[j].seq })
		}
		acc = c.New()
		for _, p := range partials {
			acc = c.Combine(acc, p.partial)
		}
	}

	emitCollectParallel(ctx, cfg.workers, chunks, time.Since(start))
	return c.Finish(acc), nil
}
