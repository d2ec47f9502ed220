// Package testing provides fixtures for tabula tests.
package testing

import (
	"errors"
	"iter"
	"math/big"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/tabula"
)

// ErrFlaky is returned by Flaky.GetValue when Fail is set.
var ErrFlaky = errors.New("flaky accessor failed")

// Person is a plain struct with hand-written rules.
type Person struct {
	Name string `tabula:"name"`
	Age  int    `tabula:"age"`
	Note string `tabula:"-"`
}

// People returns the three-person fixture in a fixed order.
func People() []Person {
	return []Person{
		{Name: "Ann", Age: 30},
		{Name: "Bo", Age: 41},
		{Name: "Cy", Age: 19},
	}
}

// PersonRules returns the name/age rule set for Person.
func PersonRules() tabula.RuleSet[Person] {
	return tabula.NewRuleSet(
		tabula.Mapping("name", func(p Person) any { return p.Name }),
		tabula.Mapping("age", func(p Person) any { return p.Age }),
	)
}

// Account exposes a single eligible accessor.
type Account struct {
	id int
}

// NewAccount creates an Account.
func NewAccount(id int) Account { return Account{id: id} }

// GetId returns the account id.
func (a Account) GetId() int { return a.id } //nolint:revive // accessor name is asserted verbatim

// Describe takes an argument and is not eligible.
func (a Account) Describe(prefix string) string { return prefix }

// Active returns a bool, which is not a supported scalar.
func (a Account) Active() bool { return a.id > 0 }

// Ledger exposes every supported result shape.
type Ledger struct {
	Owner   string
	Balance decimal.Decimal
	Total   *big.Int
	Tags    []string
	Limits  map[string]float64
	Opened  [3]int16
	Closed  bool
	Parent  *Ledger
}

// GetOwner returns the owner.
func (l *Ledger) GetOwner() string { return l.Owner }

// GetBalance returns the balance.
func (l *Ledger) GetBalance() decimal.Decimal { return l.Balance }

// GetTotal returns the running total.
func (l *Ledger) GetTotal() *big.Int { return l.Total }

// GetTags returns the tags.
func (l *Ledger) GetTags() []string { return l.Tags }

// GetLimits returns the limits by currency.
func (l *Ledger) GetLimits() map[string]float64 { return l.Limits }

// GetParent returns a struct pointer, which is not eligible.
func (l *Ledger) GetParent() *Ledger { return l.Parent }

// Validate returns only an error and is not eligible.
func (l *Ledger) Validate() error { return nil }

// Flaky has a fallible accessor.
type Flaky struct {
	Value int
	Fail  bool
}

// GetValue returns Value, or ErrFlaky when Fail is set.
func (f Flaky) GetValue() (int, error) {
	if f.Fail {
		return 0, ErrFlaky
	}
	return f.Value, nil
}

// Empty has nothing to derive.
type Empty struct{}

// Generated supplies its own rules through tabula.RuleProvider.
type Generated struct {
	Code string
}

// GetCode would be derived by reflection if TabulaRules were absent.
func (g Generated) GetCode() string { return g.Code }

// TabulaRules implements tabula.RuleProvider.
func (Generated) TabulaRules() tabula.RuleSet[Generated] {
	return tabula.NewRuleSet(
		tabula.Mapping("code", func(g Generated) any { return g.Code }),
	)
}

// List is a minimal tabula.Collection.
type List[T any] struct {
	items []T
}

// NewList creates a List over items.
func NewList[T any](items ...T) *List[T] { return &List[T]{items: items} }

// Len returns the number of items.
func (l *List[T]) Len() int { return len(l.items) }

// All iterates the items in order.
func (l *List[T]) All() iter.Seq[T] { return slices.Values(l.items) }

// Cursor is a manually driven tabula.Iterator that can fail after a number
// of elements.
type Cursor[T any] struct {
	items  []T
	pos    int
	failAt int
	failed bool
	err    error
}

// NewCursor creates a cursor over items that never fails.
func NewCursor[T any](items ...T) *Cursor[T] {
	return &Cursor[T]{items: items, pos: -1, failAt: -1}
}

// FailAfter makes the cursor stop with err after n elements.
func (c *Cursor[T]) FailAfter(n int, err error) *Cursor[T] {
	c.failAt = n
	c.err = err
	return c
}

// Next advances the cursor.
func (c *Cursor[T]) Next() bool {
	if c.failAt >= 0 && c.pos+1 == c.failAt {
		c.failed = true
		return false
	}
	c.pos++
	return c.pos < len(c.items)
}

// Value returns the current item.
func (c *Cursor[T]) Value() T { return c.items[c.pos] }

// Err returns the failure, if the cursor stopped early.
func (c *Cursor[T]) Err() error {
	if c.failed {
		return c.err
	}
	return nil
}
