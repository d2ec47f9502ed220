package benchmarks

import (
	"context"
	"testing"

	"github.com/zoobzio/tabula"
	tabtest "github.com/zoobzio/tabula/testing"
)

func people(n int) []tabtest.Person {
	out := make([]tabtest.Person, n)
	for i := range out {
		out[i] = tabtest.Person{Name: "p", Age: i}
	}
	return out
}

func BenchmarkConvert_RowMajor(b *testing.B) {
	conv := tabula.ToRowMajor(tabtest.PersonRules())
	input := people(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = conv.Slice(context.Background(), input)
	}
}

func BenchmarkConvert_ColumnMajor(b *testing.B) {
	conv := tabula.ToColumnMajor(tabtest.PersonRules())
	input := people(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = conv.Slice(context.Background(), input)
	}
}

func BenchmarkConvert_ColumnMajorParallel(b *testing.B) {
	conv := tabula.ToColumnMajor(tabtest.PersonRules(), tabula.WithParallel())
	input := people(100000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = conv.Slice(context.Background(), input)
	}
}

func BenchmarkConvert_Derived(b *testing.B) {
	conv := tabula.ColumnMajorOf[tabtest.Account]()
	input := make([]tabtest.Account, 1000)
	for i := range input {
		input[i] = tabtest.NewAccount(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = conv.Slice(context.Background(), input)
	}
}

func BenchmarkDerive_Cached(b *testing.B) {
	tabula.Derive[*tabtest.Ledger]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tabula.Derive[*tabtest.Ledger]()
	}
}

func BenchmarkDerive_Uncached(b *testing.B) {
	for i := 0; i < b.N; i++ {
		tabula.Reset()
		tabula.Derive[*tabtest.Ledger]()
	}
}
