package tabula

import (
	"context"
	"iter"
	"reflect"
	"time"
)

// Layout names the shape of a produced table.
type Layout string

const (
	LayoutRow    Layout = "row"
	LayoutColumn Layout = "column"
	LayoutKeyed  Layout = "keyed"
)

// ConverterOption configures a Converter.
type ConverterOption func(*converterConfig)

type converterConfig struct {
	parallel bool
	popts    []ParallelOption
}

// WithParallel makes the converter use CollectParallel with opts instead of
// a sequential traversal. Output order is then not guaranteed.
func WithParallel(opts ...ParallelOption) ConverterOption {
	return func(cfg *converterConfig) {
		cfg.parallel = true
		cfg.popts = append(cfg.popts, opts...)
	}
}

// shaped is implemented by every table type.
type shaped interface {
	Len() int
	Width() int
}

// Converter applies one collector to any supported input shape. Every entry
// point funnels into Source. A Converter is safe for concurrent use.
type Converter[T, R any] struct {
	layout   Layout
	typeName string
	run      func(ctx context.Context, src Source[T]) (R, error)
}

func newConverter[T, A, R any](layout Layout, c Collector[T, A, R], opts []ConverterOption) *Converter[T, R] {
	var cfg converterConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	run := func(_ context.Context, src Source[T]) (R, error) {
		return Collect(src, c)
	}
	if cfg.parallel {
		popts := cfg.popts
		run = func(ctx context.Context, src Source[T]) (R, error) {
			return CollectParallel(ctx, src, c, popts...)
		}
	}

	return &Converter[T, R]{
		layout:   layout,
		typeName: reflect.TypeFor[T]().String(),
		run:      run,
	}
}

// ToRowMajor returns a converter producing one record per element.
func ToRowMajor[T any](rules RuleSet[T], opts ...ConverterOption) *Converter[T, *RowTable] {
	return newConverter(LayoutRow, NewRowCollector(rules), opts)
}

// ToColumnMajor returns a converter producing one array per label.
func ToColumnMajor[T any](rules RuleSet[T], opts ...ConverterOption) *Converter[T, *ColumnTable] {
	return newConverter(LayoutColumn, NewColumnCollector(rules), opts)
}

// ToDataframe is ToColumnMajor; column-major is the preferred dataframe layout.
func ToDataframe[T any](rules RuleSet[T], opts ...ConverterOption) *Converter[T, *ColumnTable] {
	return ToColumnMajor(rules, opts...)
}

// RowMajorOf returns a row-major converter over the rules derived from T.
func RowMajorOf[T any](opts ...ConverterOption) *Converter[T, *RowTable] {
	return ToRowMajor(Derive[T](), opts...)
}

// ColumnMajorOf returns a column-major converter over the rules derived from T.
func ColumnMajorOf[T any](opts ...ConverterOption) *Converter[T, *ColumnTable] {
	return ToColumnMajor(Derive[T](), opts...)
}

// Layout returns the shape this converter produces.
func (c *Converter[T, R]) Layout() Layout { return c.layout }

// Source converts every element of src. On failure the zero R is returned.
func (c *Converter[T, R]) Source(ctx context.Context, src Source[T]) (R, error) {
	start := time.Now()
	emitConvertStart(ctx, c.layout, c.typeName)

	out, err := c.run(ctx, src)

	var rows, cols int
	if s, ok := any(out).(shaped); ok && err == nil {
		rows, cols = s.Len(), s.Width()
	}
	emitConvertComplete(ctx, c.layout, c.typeName, rows, cols, time.Since(start), err)

	if err != nil {
		var zero R
		return zero, err
	}
	return out, nil
}

// Instance converts a single element.
func (c *Converter[T, R]) Instance(ctx context.Context, v T) (R, error) {
	return c.Source(ctx, Of(v))
}

// Slice converts a slice; pass arrays as arr[:].
func (c *Converter[T, R]) Slice(ctx context.Context, s []T) (R, error) {
	return c.Source(ctx, FromSlice(s))
}

// Collection converts a Collection.
func (c *Converter[T, R]) Collection(ctx context.Context, coll Collection[T]) (R, error) {
	return c.Source(ctx, FromCollection(coll))
}

// Seq converts a lazy sequence.
func (c *Converter[T, R]) Seq(ctx context.Context, seq iter.Seq[T]) (R, error) {
	return c.Source(ctx, FromSeq(seq))
}

// Iterator converts a manually driven iterator.
func (c *Converter[T, R]) Iterator(ctx context.Context, it Iterator[T]) (R, error) {
	return c.Source(ctx, FromIterator(it))
}
