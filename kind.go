package tabula

import (
	"math/big"
	"reflect"

	"github.com/shopspring/decimal"
)

// Kind identifies the variant held by a Value.
type Kind string

const (
	// KindNull marks an absent value (nil result, nil pointer, nil slice or map).
	KindNull Kind = "null"

	KindInt   Kind = "int"
	KindInt8  Kind = "int8"
	KindInt16 Kind = "int16"
	// KindInt32 also covers rune, Go's character type.
	KindInt32 Kind = "int32"
	KindInt64 Kind = "int64"

	KindUint   Kind = "uint"
	KindUint8  Kind = "uint8"
	KindUint16 Kind = "uint16"
	KindUint32 Kind = "uint32"
	KindUint64 Kind = "uint64"

	KindFloat32 Kind = "float32"
	KindFloat64 Kind = "float64"

	// KindBigInt holds a *big.Int.
	KindBigInt Kind = "bigint"

	// KindBigDecimal holds a decimal.Decimal, *big.Float or *big.Rat.
	KindBigDecimal Kind = "bigdecimal"

	KindString Kind = "string"

	// KindList holds a slice or array whose elements are a supported scalar.
	KindList Kind = "list"

	// KindMap holds a map whose keys and values are supported scalars.
	KindMap Kind = "map"

	// KindOther passes through anything an explicit rule returns that is not
	// one of the kinds above. Derived rules never produce it.
	KindOther Kind = "other"
)

var (
	bigIntType   = reflect.TypeFor[*big.Int]()
	bigFloatType = reflect.TypeFor[*big.Float]()
	bigRatType   = reflect.TypeFor[*big.Rat]()
	decimalType  = reflect.TypeFor[decimal.Decimal]()
)

// scalarKinds maps reflect kinds onto the supported scalar kinds.
// Named types are classified by their underlying kind.
var scalarKinds = map[reflect.Kind]Kind{
	reflect.Int:     KindInt,
	reflect.Int8:    KindInt8,
	reflect.Int16:   KindInt16,
	reflect.Int32:   KindInt32,
	reflect.Int64:   KindInt64,
	reflect.Uint:    KindUint,
	reflect.Uint8:   KindUint8,
	reflect.Uint16:  KindUint16,
	reflect.Uint32:  KindUint32,
	reflect.Uint64:  KindUint64,
	reflect.Float32: KindFloat32,
	reflect.Float64: KindFloat64,
	reflect.String:  KindString,
}

// scalarKind classifies rt against the supported scalar whitelist.
func scalarKind(rt reflect.Type) (Kind, bool) {
	if rt == nil {
		return "", false
	}
	switch rt {
	case bigIntType:
		return KindBigInt, true
	case bigFloatType, bigRatType, decimalType:
		return KindBigDecimal, true
	}
	k, ok := scalarKinds[rt.Kind()]
	return k, ok
}

// resultKind classifies rt as a scalar, a scalar collection or a scalar map.
func resultKind(rt reflect.Type) (Kind, bool) {
	if k, ok := scalarKind(rt); ok {
		return k, true
	}
	if rt == nil {
		return "", false
	}
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		if _, ok := scalarKind(rt.Elem()); ok {
			return KindList, true
		}
	case reflect.Map:
		_, keyOK := scalarKind(rt.Key())
		_, elemOK := scalarKind(rt.Elem())
		if keyOK && elemOK {
			return KindMap, true
		}
	}
	return "", false
}

// IsSupportedScalar reports whether rt is one of the scalar kinds recognised
// by rule derivation.
func IsSupportedScalar(rt reflect.Type) bool {
	_, ok := scalarKind(rt)
	return ok
}

// IsEligibleResult reports whether an accessor returning rt can be turned
// into a rule: a supported scalar, a collection of one, or a map of them.
func IsEligibleResult(rt reflect.Type) bool {
	_, ok := resultKind(rt)
	return ok
}

// IsScalar reports whether k is a single scalar kind.
func (k Kind) IsScalar() bool {
	switch k {
	case KindNull, KindList, KindMap, KindOther, "":
		return false
	}
	return true
}
