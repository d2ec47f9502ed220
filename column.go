package tabula

import (
	"iter"
	"slices"
	"sync"
)

// ColumnTable is the column-major handoff structure: one array per label,
// every array holding exactly Len() values aligned by element position.
type ColumnTable struct {
	head *header
	cols [][]Value
	rows int
}

// Len returns the number of elements that were converted.
func (t *ColumnTable) Len() int { return t.rows }

// Width returns the number of columns.
func (t *ColumnTable) Width() int { return len(t.head.labels) }

// Labels returns the column labels in rule order.
func (t *ColumnTable) Labels() []string { return slices.Clone(t.head.labels) }

// Column returns a copy of the named column.
func (t *ColumnTable) Column(label string) ([]Value, bool) {
	i, ok := t.head.index[label]
	if !ok {
		return nil, false
	}
	return slices.Clone(t.cols[i]), true
}

// Values returns the raw values of the named column, nil for Null cells.
func (t *ColumnTable) Values(label string) []any {
	i, ok := t.head.index[label]
	if !ok {
		return nil
	}
	out := make([]any, len(t.cols[i]))
	for j, v := range t.cols[i] {
		out[j] = v.Any()
	}
	return out
}

// All iterates the columns in label order.
func (t *ColumnTable) All() iter.Seq2[string, []Value] {
	return func(yield func(string, []Value) bool) {
		for i, l := range t.head.labels {
			if !yield(l, slices.Clone(t.cols[i])) {
				return
			}
		}
	}
}

// Map returns the table as label -> raw value array.
func (t *ColumnTable) Map() map[string][]any {
	out := make(map[string][]any, len(t.head.labels))
	for _, l := range t.head.labels {
		out[l] = t.Values(l)
	}
	return out
}

// ColumnPartial accumulates one growing array per label. It is only
// produced and consumed by ColumnCollector.
type ColumnPartial struct {
	mu   sync.Mutex
	head *header
	cols [][]Value
	rows int
}

// ColumnCollector aggregates elements into a ColumnTable.
// It is Unordered and Concurrent: a partial may be fed by several
// goroutines, and merged partials keep merge order, not source order.
type ColumnCollector[T any] struct {
	rules RuleSet[T]
}

// NewColumnCollector creates a column-major collector for rules. It returns
// the Collector instantiation so Collect and CollectParallel can infer their
// types.
func NewColumnCollector[T any](rules RuleSet[T]) Collector[T, *ColumnPartial, *ColumnTable] {
	return ColumnCollector[T]{rules: rules}
}

// New returns an empty partial with one empty column per label.
func (c ColumnCollector[T]) New() *ColumnPartial {
	h := c.rules.header()
	return &ColumnPartial{head: h, cols: make([][]Value, len(h.labels))}
}

// Accumulate evaluates every rule against elem and appends one value per
// label. Extraction happens outside the partial's lock.
func (c ColumnCollector[T]) Accumulate(p *ColumnPartial, elem T) error {
	vals, err := c.rules.values(elem)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i, v := range vals {
		p.cols[i] = append(p.cols[i], v)
	}
	p.rows++
	return nil
}

// Combine concatenates same-label columns into a new partial.
func (c ColumnCollector[T]) Combine(left, right *ColumnPartial) *ColumnPartial {
	out := &ColumnPartial{
		head: left.head,
		cols: make([][]Value, len(left.cols)),
		rows: left.rows + right.rows,
	}
	for i := range left.cols {
		out.cols[i] = slices.Concat(left.cols[i], right.cols[i])
	}
	return out
}

// Finish seals each column into a fixed-size array.
func (c ColumnCollector[T]) Finish(p *ColumnPartial) *ColumnTable {
	cols := make([][]Value, len(p.cols))
	for i, col := range p.cols {
		cols[i] = slices.Clip(col)
		if cols[i] == nil {
			cols[i] = []Value{}
		}
	}
	return &ColumnTable{head: p.head, cols: cols, rows: p.rows}
}

// Characteristics reports Unordered|Concurrent.
func (c ColumnCollector[T]) Characteristics() Characteristics {
	return Unordered | Concurrent
}
