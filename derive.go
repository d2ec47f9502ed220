package tabula

import (
	"context"
	"fmt"
	"reflect"

	"github.com/zoobzio/sentinel"
)

// tagName is the struct tag read by DeriveFields: `tabula:"label"` renames a
// field and `tabula:"-"` skips it.
const tagName = "tabula"

func init() {
	sentinel.Tag(tagName)
}

var errorType = reflect.TypeFor[error]()

// MemberSource says where a derived member comes from.
type MemberSource string

const (
	// MemberMethod is an exported zero-argument method.
	MemberMethod MemberSource = "method"

	// MemberField is an exported struct field.
	MemberField MemberSource = "field"
)

// Member is one eligible accessor of a type.
type Member struct {
	Name     string       // Go name of the method or field
	Label    string       // Label the derived rule writes to
	Source   MemberSource // Method or field
	Result   reflect.Type // Declared result type
	Kind     Kind         // Scalar kind, KindList or KindMap
	Fallible bool         // Method returns (R, error)

	// Read extracts the member from an addressable value of the described type.
	Read func(v reflect.Value) (any, error)
}

// TypeDescriptor lists the eligible members of a type: readable, taking no
// arguments and returning a supported scalar, scalar collection or scalar map.
type TypeDescriptor interface {
	TypeName() string
	Members() []Member
}

// methodDescriptor enumerates exported methods through reflection.
type methodDescriptor struct {
	typ reflect.Type
}

// Describe returns a descriptor over the exported methods of rt, in
// reflect's method order. For a struct type only value-receiver methods are
// visible; describe the pointer type to include pointer-receiver methods.
func Describe(rt reflect.Type) TypeDescriptor {
	return methodDescriptor{typ: rt}
}

func (d methodDescriptor) TypeName() string {
	if d.typ == nil {
		return "<nil>"
	}
	return d.typ.String()
}

func (d methodDescriptor) Members() []Member {
	if d.typ == nil {
		return nil
	}
	isIface := d.typ.Kind() == reflect.Interface

	var out []Member
	for i := 0; i < d.typ.NumMethod(); i++ {
		m := d.typ.Method(i)
		if !m.IsExported() {
			continue
		}

		// Concrete method types carry the receiver as their first input.
		ft := m.Type
		args := ft.NumIn()
		if !isIface {
			args--
		}
		if args != 0 || ft.IsVariadic() {
			continue
		}

		result, fallible, ok := accessorResult(ft)
		if !ok {
			continue
		}
		kind, ok := resultKind(result)
		if !ok {
			continue
		}

		out = append(out, Member{
			Name:     m.Name,
			Label:    m.Name,
			Source:   MemberMethod,
			Result:   result,
			Kind:     kind,
			Fallible: fallible,
			Read:     methodReader(i, fallible),
		})
	}
	return out
}

// accessorResult accepts `R` and `(R, error)` result lists.
func accessorResult(ft reflect.Type) (reflect.Type, bool, bool) {
	switch ft.NumOut() {
	case 1:
		return ft.Out(0), false, true
	case 2:
		if ft.Out(1) == errorType {
			return ft.Out(0), true, true
		}
	}
	return nil, false, false
}

// methodReader invokes method index i. On an interface-kind value the index
// refers to the interface's method set, which is the set Describe enumerated.
func methodReader(i int, fallible bool) func(reflect.Value) (any, error) {
	return func(v reflect.Value) (any, error) {
		if isNilReceiver(v) {
			return nil, errNilReceiver
		}
		out := v.Method(i).Call(nil)
		if fallible && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}
}

func isNilReceiver(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// fieldDescriptor enumerates exported struct fields from sentinel metadata.
type fieldDescriptor struct {
	typ  reflect.Type
	ptr  bool
	meta sentinel.Metadata
}

// describeFields scans T, or the struct T points to. Any other type yields a
// descriptor with no members.
func describeFields[T any]() TypeDescriptor {
	rt := reflect.TypeFor[T]()
	switch {
	case rt.Kind() == reflect.Struct:
		return fieldDescriptor{typ: rt, meta: sentinel.Scan[T]()}
	case rt.Kind() == reflect.Ptr && rt.Elem().Kind() == reflect.Struct:
		return fieldDescriptor{typ: rt, ptr: true, meta: scanStruct(rt.Elem())}
	}
	return fieldDescriptor{typ: rt}
}

// scanStruct returns sentinel metadata for rt, building it directly when
// sentinel has not scanned the type yet.
func scanStruct(rt reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tags := make(map[string]string)
		if val, ok := sf.Tag.Lookup(tagName); ok {
			tags[tagName] = val
		}
		spec.Fields = append(spec.Fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        tags,
		})
	}
	return spec
}

func (d fieldDescriptor) TypeName() string { return d.typ.String() }

func (d fieldDescriptor) Members() []Member {
	base := d.typ
	if d.ptr {
		base = d.typ.Elem()
	}

	var out []Member
	for _, f := range d.meta.Fields {
		if len(f.Index) != 1 || !base.Field(f.Index[0]).IsExported() {
			continue
		}
		label := f.Name
		if tag, ok := f.Tags[tagName]; ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				label = tag
			}
		}
		kind, ok := resultKind(f.ReflectType)
		if !ok {
			continue
		}
		out = append(out, Member{
			Name:   f.Name,
			Label:  label,
			Source: MemberField,
			Result: f.ReflectType,
			Kind:   kind,
			Read:   fieldReader(f.Index, d.ptr),
		})
	}
	return out
}

func fieldReader(index []int, ptr bool) func(reflect.Value) (any, error) {
	return func(v reflect.Value) (any, error) {
		if ptr {
			if isNilReceiver(v) {
				return nil, errNilReceiver
			}
			v = v.Elem()
		}
		return v.FieldByIndex(index).Interface(), nil
	}
}

// RulesFor builds one rule per member of d, in member order. d must
// describe T itself.
func RulesFor[T any](d TypeDescriptor) RuleSet[T] {
	members := d.Members()
	rules := make([]Rule[T], 0, len(members))
	for _, m := range members {
		read := m.Read
		if read == nil {
			continue
		}
		rules = append(rules, MappingErr(m.Label, func(elem T) (any, error) {
			return read(reflect.ValueOf(&elem).Elem())
		}))
	}
	return NewRuleSet(rules...)
}

// Derive returns one rule per eligible exported zero-argument method of T,
// labelled with the method name verbatim. Methods returning (R, error) are
// eligible; a returned error aborts the conversion. Types implementing
// RuleProvider supply their own rules instead. Results are cached per type.
//
// A type without eligible methods yields an empty rule set.
func Derive[T any]() RuleSet[T] {
	return cachedRules(MemberMethod, func() RuleSet[T] {
		if p, ok := ruleProvider[T](); ok {
			return p.TabulaRules()
		}
		d := Describe(reflect.TypeFor[T]())
		rules := RulesFor[T](d)
		emitRulesDerived(context.Background(), d.TypeName(), MemberMethod, rules.Len())
		return rules
	})
}

// DeriveStrict is Derive but reports a *DerivationError when T has nothing
// eligible.
func DeriveStrict[T any]() (RuleSet[T], error) {
	rules := Derive[T]()
	if rules.Len() == 0 {
		return rules, &DerivationError{
			Err:      ErrNoEligibleMembers,
			TypeName: fmt.Sprint(reflect.TypeFor[T]()),
		}
	}
	return rules, nil
}

// DeriveFields returns one rule per eligible exported field of struct T (or
// of the struct T points to), in declaration order. The label is the field
// name unless a `tabula:"label"` tag overrides it; `tabula:"-"` skips the
// field. Results are cached per type.
func DeriveFields[T any]() RuleSet[T] {
	return cachedRules(MemberField, func() RuleSet[T] {
		d := describeFields[T]()
		rules := RulesFor[T](d)
		emitRulesDerived(context.Background(), d.TypeName(), MemberField, rules.Len())
		return rules
	})
}
