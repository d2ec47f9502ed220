// Package tabula shapes collections of arbitrary Go values into in-memory
// tables for a tabular-data host.
//
// A RuleSet of labelled extraction rules is applied to every element, and a
// collector aggregates the results into one of three layouts:
//
//   - row-major: a RowTable of Records, one per element, fields in rule order
//   - column-major: a ColumnTable with one value array per label
//   - keyed: a KeyedTable built from an existing map, one record per key
//
// # Rules
//
// Rules are written by hand or derived from a type:
//
//	rules := tabula.NewRuleSet(
//	    tabula.Mapping("name", func(p Person) any { return p.Name }),
//	    tabula.Mapping("age", func(p Person) any { return p.Age }),
//	)
//
//	derived := tabula.Derive[*Person]()        // exported zero-argument methods
//	fields := tabula.DeriveFields[Person]()    // exported struct fields
//
// Derivation only admits accessors returning a supported scalar (integers,
// floats, strings, *big.Int, *big.Float, *big.Rat, decimal.Decimal), a slice
// or array of one, or a map keyed and valued by them. Method rules are
// labelled with the method name verbatim. Rules sharing a label collapse onto
// one field; the last one declared wins.
//
// # Inputs
//
// Converters accept a single instance, a slice, a Collection, an iter.Seq,
// an Iterator, a pull function or a channel. All of them are normalised into
// a Source and traversed the same way:
//
//	conv := tabula.ToColumnMajor(rules)
//	table, err := conv.Slice(ctx, people)
//
// # Concurrency
//
// Collect traverses sequentially and preserves source order.
// CollectParallel, or a converter built WithParallel, fans chunks out to a
// bounded worker pool and merges the partials. Every element is still
// converted exactly once, but row and column order then follow merge order.
//
// # Errors
//
// A failing extractor aborts the whole conversion with an *ExtractionError
// and no table is produced. A type with nothing to derive yields an empty
// rule set; DeriveStrict reports it as a *DerivationError instead.
//
// # Observability
//
// Derivation and conversion emit capitan signals (SignalRulesDerived,
// SignalConvertStart, SignalConvertComplete, SignalCollectParallel).
package tabula
