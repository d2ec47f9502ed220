package tabula

// RuleProvider lets a type bypass reflection in Derive by supplying its own
// rules. It is the hook for generated code: a generator can emit a
// TabulaRules method per type with plain function extractors.
//
// The method is looked up on the zero value of T and of *T, so it must not
// read the receiver.
type RuleProvider[T any] interface {
	TabulaRules() RuleSet[T]
}

// ruleProvider reports whether T or *T implements RuleProvider[T].
func ruleProvider[T any]() (RuleProvider[T], bool) {
	var zero T
	if p, ok := any(zero).(RuleProvider[T]); ok {
		return p, true
	}
	if p, ok := any(&zero).(RuleProvider[T]); ok {
		return p, true
	}
	return nil, false
}
