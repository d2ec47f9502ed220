package tabula

import (
	"context"
	"iter"
	"maps"
	"reflect"
	"slices"
	"time"
)

// KeyedTable maps every input key to a record whose first field is the key
// itself, followed by one field per rule label.
type KeyedTable[K comparable] struct {
	head *header
	keys []K
	rows map[K]*Record
}

// Len returns the number of keys.
func (t *KeyedTable[K]) Len() int { return len(t.keys) }

// Width returns the number of fields per record, key column included.
func (t *KeyedTable[K]) Width() int { return len(t.head.labels) }

// Labels returns the field labels, key column first.
func (t *KeyedTable[K]) Labels() []string { return slices.Clone(t.head.labels) }

// Keys returns the keys in the order they were visited.
func (t *KeyedTable[K]) Keys() []K { return slices.Clone(t.keys) }

// Get returns the record for key.
func (t *KeyedTable[K]) Get(key K) (*Record, bool) {
	r, ok := t.rows[key]
	return r, ok
}

// All iterates the records in visit order.
func (t *KeyedTable[K]) All() iter.Seq2[K, *Record] {
	return func(yield func(K, *Record) bool) {
		for _, k := range t.keys {
			if !yield(k, t.rows[k]) {
				return
			}
		}
	}
}

// Map returns the table as key -> (label -> raw value).
func (t *KeyedTable[K]) Map() map[K]map[string]any {
	out := make(map[K]map[string]any, len(t.rows))
	for k, r := range t.rows {
		out[k] = r.Map()
	}
	return out
}

// ConvertMapValues applies rules to every value of input, producing one
// record per key. The key is stored under keyLabel ahead of the rule fields.
// Entries are visited in Go's map iteration order; use ConvertEntries for a
// deterministic order. The output key set equals the input key set.
func ConvertMapValues[K comparable, V any](input map[K]V, keyLabel string, rules RuleSet[V]) (*KeyedTable[K], error) {
	return ConvertEntries(maps.All(input), keyLabel, rules)
}

// ConvertEntries is ConvertMapValues over an ordered key/value sequence.
// A key seen twice keeps its first position and its last record. A nil
// sequence is empty.
func ConvertEntries[K comparable, V any](entries iter.Seq2[K, V], keyLabel string, rules RuleSet[V]) (*KeyedTable[K], error) {
	ctx := context.Background()
	typeName := reflect.TypeFor[V]().String()
	start := time.Now()
	emitConvertStart(ctx, LayoutKeyed, typeName)

	h := newHeader(append([]string{keyLabel}, rules.Labels()...)...)
	slot := h.slots(rules.ruleLabels())
	keySlot := h.index[keyLabel]

	out := &KeyedTable[K]{head: h, rows: make(map[K]*Record)}
	if entries == nil {
		entries = func(func(K, V) bool) {}
	}

	i := 0
	for k, v := range entries {
		vals := make([]Value, len(h.labels))
		vals[keySlot] = ValueOf(k)
		if err := rules.fill(vals, slot, v); err != nil {
			err = atIndex(err, i)
			emitConvertComplete(ctx, LayoutKeyed, typeName, 0, 0, time.Since(start), err)
			return nil, err
		}
		if _, seen := out.rows[k]; !seen {
			out.keys = append(out.keys, k)
		}
		out.rows[k] = &Record{head: h, values: vals}
		i++
	}

	emitConvertComplete(ctx, LayoutKeyed, typeName, out.Len(), out.Width(), time.Since(start), nil)
	return out, nil
}
