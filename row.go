package tabula

import (
	"iter"
	"slices"
	"sync"
)

// Record is one row: an ordered label -> value mapping. All records of a
// table share the same label set in the same order.
type Record struct {
	head   *header
	values []Value
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.values) }

// Labels returns the field labels in order.
func (r *Record) Labels() []string { return slices.Clone(r.head.labels) }

// Get returns the value stored under label.
func (r *Record) Get(label string) (Value, bool) {
	i, ok := r.head.index[label]
	if !ok {
		return Null, false
	}
	return r.values[i], true
}

// At returns the i-th field value.
func (r *Record) At(i int) Value { return r.values[i] }

// All iterates the fields in order.
func (r *Record) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i, l := range r.head.labels {
			if !yield(l, r.values[i]) {
				return
			}
		}
	}
}

// Map returns the record as label -> raw value.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for i, l := range r.head.labels {
		out[l] = r.values[i].Any()
	}
	return out
}

// RowTable is the row-major handoff structure. It is also the partial used
// while collecting, so its Finish is the identity.
type RowTable struct {
	mu   sync.Mutex
	head *header
	rows []*Record
}

// Len returns the number of records.
func (t *RowTable) Len() int { return len(t.rows) }

// Width returns the number of fields per record.
func (t *RowTable) Width() int { return len(t.head.labels) }

// Labels returns the field labels shared by every record.
func (t *RowTable) Labels() []string { return slices.Clone(t.head.labels) }

// Row returns the i-th record.
func (t *RowTable) Row(i int) *Record { return t.rows[i] }

// Rows returns the records in order.
func (t *RowTable) Rows() []*Record { return slices.Clone(t.rows) }

// All iterates the records with their position.
func (t *RowTable) All() iter.Seq2[int, *Record] {
	return func(yield func(int, *Record) bool) {
		for i, r := range t.rows {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Maps returns the table as a slice of label -> raw value maps.
func (t *RowTable) Maps() []map[string]any {
	out := make([]map[string]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Map()
	}
	return out
}

// RowCollector aggregates elements into a RowTable.
// It is Unordered, Concurrent and IdentityFinish.
type RowCollector[T any] struct {
	rules RuleSet[T]
}

// NewRowCollector creates a row-major collector for rules. It returns the
// Collector instantiation so Collect and CollectParallel can infer their types.
func NewRowCollector[T any](rules RuleSet[T]) Collector[T, *RowTable, *RowTable] {
	return RowCollector[T]{rules: rules}
}

// New returns an empty table.
func (c RowCollector[T]) New() *RowTable {
	return &RowTable{head: c.rules.header()}
}

// Accumulate builds one record for elem and appends it.
func (c RowCollector[T]) Accumulate(t *RowTable, elem T) error {
	rec, err := c.rules.record(elem)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, rec)
	return nil
}

// Combine appends right's records to left and returns left.
func (c RowCollector[T]) Combine(left, right *RowTable) *RowTable {
	left.rows = append(left.rows, right.rows...)
	return left
}

// Finish returns t unchanged.
func (c RowCollector[T]) Finish(t *RowTable) *RowTable {
	return t
}

// Characteristics reports Unordered|Concurrent|IdentityFinish.
func (c RowCollector[T]) Characteristics() Characteristics {
	return Unordered | Concurrent | IdentityFinish
}
