package tabula

import (
	"fmt"
	"slices"
)

// Rule pairs a label with an extraction function.
// Rules are immutable and safe to share between goroutines.
type Rule[T any] struct {
	label   string
	extract func(T) (any, error)
}

// Mapping creates a rule from an infallible extractor.
//
//	tabula.Mapping("name", func(p Person) any { return p.Name })
func Mapping[T any](label string, fn func(T) any) Rule[T] {
	var extract func(T) (any, error)
	if fn != nil {
		extract = func(elem T) (any, error) { return fn(elem), nil }
	}
	return Rule[T]{label: label, extract: extract}
}

// MappingErr creates a rule from an extractor that may fail. A returned error
// aborts the whole conversion.
func MappingErr[T any](label string, fn func(T) (any, error)) Rule[T] {
	return Rule[T]{label: label, extract: fn}
}

// Label returns the column or field name the rule writes to.
func (r Rule[T]) Label() string { return r.label }

// Apply runs the extractor against elem. Returned errors and panics are
// reported as *ExtractionError.
func (r Rule[T]) Apply(elem T) (v Value, err error) {
	if r.extract == nil {
		return Null, newExtractionError(r.label, errNilExtractor)
	}
	defer func() {
		if rec := recover(); rec != nil {
			v, err = Null, newExtractionError(r.label, fmt.Errorf("panic: %v", rec))
		}
	}()

	raw, err := r.extract(elem)
	if err != nil {
		return Null, newExtractionError(r.label, err)
	}
	return ValueOf(raw), nil
}

// header is the ordered, de-duplicated label set shared by every record of a
// table. It is never mutated after construction.
type header struct {
	labels []string
	index  map[string]int
}

// newHeader keeps the first position of each label.
func newHeader(labels ...string) *header {
	h := &header{index: make(map[string]int, len(labels))}
	for _, l := range labels {
		if _, ok := h.index[l]; ok {
			continue
		}
		h.index[l] = len(h.labels)
		h.labels = append(h.labels, l)
	}
	return h
}

// slots maps each rule onto its header position.
func (h *header) slots(labels []string) []int {
	out := make([]int, len(labels))
	for i, l := range labels {
		out[i] = h.index[l]
	}
	return out
}

// RuleSet is an ordered, immutable collection of rules applied together to
// every element. Rules sharing a label collapse onto one column; the last
// one in declaration order determines the value.
type RuleSet[T any] struct {
	rules []Rule[T]
	head  *header
	slot  []int
}

// NewRuleSet creates a rule set in the given order.
func NewRuleSet[T any](rules ...Rule[T]) RuleSet[T] {
	rules = slices.Clone(rules)
	labels := make([]string, len(rules))
	for i, r := range rules {
		labels[i] = r.label
	}
	h := newHeader(labels...)
	return RuleSet[T]{rules: rules, head: h, slot: h.slots(labels)}
}

// With returns a new set with extra rules appended; s is left untouched.
func (s RuleSet[T]) With(rules ...Rule[T]) RuleSet[T] {
	return NewRuleSet(append(slices.Clone(s.rules), rules...)...)
}

// Len returns the number of rules, including ones shadowed by a later label.
func (s RuleSet[T]) Len() int { return len(s.rules) }

// Rules returns the rules in declaration order.
func (s RuleSet[T]) Rules() []Rule[T] { return slices.Clone(s.rules) }

// Labels returns the distinct labels in first-declaration order. This is the
// field order of every row-major record.
func (s RuleSet[T]) Labels() []string {
	if s.head == nil {
		return nil
	}
	return slices.Clone(s.head.labels)
}

// header returns the shared label header, building an empty one for the zero set.
func (s RuleSet[T]) header() *header {
	if s.head == nil {
		return newHeader()
	}
	return s.head
}

// fill applies every rule to elem and writes each result to its slot in
// vals. Later rules overwrite earlier ones that share a slot.
func (s RuleSet[T]) fill(vals []Value, slot []int, elem T) error {
	for i, r := range s.rules {
		v, err := r.Apply(elem)
		if err != nil {
			return err
		}
		vals[slot[i]] = v
	}
	return nil
}

// values returns one value per distinct label for elem.
func (s RuleSet[T]) values(elem T) ([]Value, error) {
	h := s.header()
	vals := make([]Value, len(h.labels))
	if err := s.fill(vals, s.slot, elem); err != nil {
		return nil, err
	}
	return vals, nil
}

// record builds the row-major record for elem.
func (s RuleSet[T]) record(elem T) (*Record, error) {
	vals, err := s.values(elem)
	if err != nil {
		return nil, err
	}
	return &Record{head: s.header(), values: vals}, nil
}

// ruleLabels returns the label of each rule, duplicates included.
func (s RuleSet[T]) ruleLabels() []string {
	out := make([]string, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.label
	}
	return out
}
