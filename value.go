package tabula

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ratDigits is the number of fractional digits kept when a *big.Rat is
// read back as a decimal.
const ratDigits = 34

// Value is a tagged variant holding one extracted cell.
// The zero Value is Null.
type Value struct {
	kind    Kind
	raw     any
	items   []Value
	entries []Entry
}

// Entry is one key/value pair of a KindMap value.
type Entry struct {
	Key   Value
	Value Value
}

// Null is the absent value.
var Null = Value{kind: KindNull}

// ValueOf wraps x in a Value. Supported scalars, scalar collections and
// scalar maps get their own kind; nil and nil pointers become Null; anything
// else is passed through as KindOther without coercion.
func ValueOf(x any) Value {
	switch v := x.(type) {
	case nil:
		return Null
	case Value:
		return v
	}
	return valueOf(reflect.ValueOf(x))
}

func valueOf(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Null
	}
	rt := rv.Type()

	if k, ok := scalarKind(rt); ok {
		if rt.Kind() == reflect.Ptr && rv.IsNil() {
			return Null
		}
		return Value{kind: k, raw: rv.Interface()}
	}

	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		if !IsSupportedScalar(rt.Elem()) {
			break
		}
		if rt.Kind() == reflect.Slice && rv.IsNil() {
			return Null
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = valueOf(rv.Index(i))
		}
		return Value{kind: KindList, raw: rv.Interface(), items: items}

	case reflect.Map:
		if !IsSupportedScalar(rt.Key()) || !IsSupportedScalar(rt.Elem()) {
			break
		}
		if rv.IsNil() {
			return Null
		}
		entries := make([]Entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(entries, Entry{Key: valueOf(iter.Key()), Value: valueOf(iter.Value())})
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return lessScalar(entries[i].Key, entries[j].Key)
		})
		return Value{kind: KindMap, raw: rv.Interface(), entries: entries}

	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null
		}
	}

	return Value{kind: KindOther, raw: rv.Interface()}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is absent.
func (v Value) IsNull() bool { return v.Kind() == KindNull }

// Any returns the value as originally extracted, or nil for Null.
func (v Value) Any() any { return v.raw }

// Int returns the value of a signed integer kind.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return reflect.ValueOf(v.raw).Int(), true
	}
	return 0, false
}

// Uint returns the value of an unsigned integer kind.
func (v Value) Uint() (uint64, bool) {
	switch v.kind {
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return reflect.ValueOf(v.raw).Uint(), true
	}
	return 0, false
}

// Float returns the value of a floating point kind.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return reflect.ValueOf(v.raw).Float(), true
	}
	return 0, false
}

// Str returns the value of a string kind.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return reflect.ValueOf(v.raw).String(), true
}

// BigInt returns the value of a KindBigInt.
func (v Value) BigInt() (*big.Int, bool) {
	if v.kind != KindBigInt {
		return nil, false
	}
	return v.raw.(*big.Int), true
}

// Decimal returns a KindBigDecimal as a decimal.Decimal.
func (v Value) Decimal() (decimal.Decimal, bool) {
	if v.kind != KindBigDecimal {
		return decimal.Zero, false
	}
	switch d := v.raw.(type) {
	case decimal.Decimal:
		return d, true
	case *big.Float:
		out, err := decimal.NewFromString(d.Text('f', -1))
		return out, err == nil
	case *big.Rat:
		out, err := decimal.NewFromString(d.FloatString(ratDigits))
		return out, err == nil
	}
	return decimal.Zero, false
}

// Items returns the elements of a KindList.
func (v Value) Items() []Value { return v.items }

// Entries returns the entries of a KindMap ordered by key.
func (v Value) Entries() []Entry { return v.entries }

// Len returns the element count of a list or map, 1 for a present scalar and
// 0 for Null.
func (v Value) Len() int {
	switch v.Kind() {
	case KindNull:
		return 0
	case KindList:
		return len(v.items)
	case KindMap:
		return len(v.entries)
	}
	return 1
}

func (v Value) String() string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindList:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KindMap:
		parts := make([]string, len(v.entries))
		for i, e := range v.entries {
			parts[i] = e.Key.String() + ":" + e.Value.String()
		}
		return "map[" + strings.Join(parts, " ") + "]"
	}
	return fmt.Sprint(v.raw)
}

// lessScalar orders map keys: numbers numerically, everything else by text.
func lessScalar(a, b Value) bool {
	if x, ok := a.BigInt(); ok {
		if y, ok := b.BigInt(); ok {
			return x.Cmp(y) < 0
		}
	}
	if x, ok := a.Decimal(); ok {
		if y, ok := b.Decimal(); ok {
			return x.Cmp(y) < 0
		}
	}
	if x, ok := a.Int(); ok {
		if y, ok := b.Int(); ok {
			return x < y
		}
	}
	if x, ok := a.Uint(); ok {
		if y, ok := b.Uint(); ok {
			return x < y
		}
	}
	if x, ok := a.Float(); ok {
		if y, ok := b.Float(); ok {
			return x < y
		}
	}
	return a.String() < b.String()
}
