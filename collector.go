package tabula

// Characteristics describe how a collector may be driven.
type Characteristics uint8

const (
	// Unordered means Combine may be applied in any order; the result then
	// reflects merge order rather than source order.
	Unordered Characteristics = 1 << iota

	// Concurrent means a single partial may be fed by several goroutines.
	Concurrent

	// IdentityFinish means Finish returns the partial itself.
	IdentityFinish
)

// Has reports whether every flag in f is set.
func (c Characteristics) Has(f Characteristics) bool {
	return c&f == f
}

// Collector is a mergeable accumulator in three phases: Accumulate elements
// into a partial, Combine two isolated partials, Finish a partial into the
// result. It does not depend on any concurrency runtime; Collect and
// CollectParallel are the two drivers.
type Collector[T, A, R any] interface {
	// New returns an empty partial.
	New() A

	// Accumulate adds one element to the partial.
	Accumulate(partial A, elem T) error

	// Combine merges two partials that are no longer being written to.
	Combine(left, right A) A

	// Finish seals the partial into the result.
	Finish(partial A) R

	// Characteristics reports how the collector may be driven.
	Characteristics() Characteristics
}

// Collect drives c sequentially over src. The result preserves source order.
// Any failure returns the zero R; no partial table is produced.
func Collect[T, A, R any](src Source[T], c Collector[T, A, R]) (R, error) {
	var zero R

	acc := c.New()
	i := 0
	for elem := range src.All() {
		if err := c.Accumulate(acc, elem); err != nil {
			return zero, atIndex(err, i)
		}
		i++
	}
	if err := src.Err(); err != nil {
		return zero, err
	}

	return c.Finish(acc), nil
}
