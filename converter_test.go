package tabula_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/tabula"
	tabtest "github.com/zoobzio/tabula/testing"
)

func TestToColumnMajor_Slice(t *testing.T) {
	table, err := tabula.ToColumnMajor(tabtest.PersonRules()).Slice(context.Background(), tabtest.People())
	require.NoError(t, err)

	assert.Equal(t, map[string][]any{
		"name": {"Ann", "Bo", "Cy"},
		"age":  {30, 41, 19},
	}, table.Map())
}

func TestToRowMajor_Slice(t *testing.T) {
	table, err := tabula.ToRowMajor(tabtest.PersonRules()).Slice(context.Background(), tabtest.People())
	require.NoError(t, err)

	assert.Equal(t, []map[string]any{
		{"name": "Ann", "age": 30},
		{"name": "Bo", "age": 41},
		{"name": "Cy", "age": 19},
	}, table.Maps())
}

func TestConverter_FailureYieldsNoTable(t *testing.T) {
	rules := tabtest.PersonRules().With(tabula.MappingErr("check", func(p tabtest.Person) (any, error) {
		if p.Name == "Bo" {
			return nil, errors.New("rejected")
		}
		return p.Age, nil
	}))

	table, err := tabula.ToColumnMajor(rules).Slice(context.Background(), tabtest.People())
	assert.Nil(t, table)

	var ee *tabula.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "check", ee.Label)
	assert.Equal(t, 1, ee.Index)
}

func TestConverter_EntryPointsAgree(t *testing.T) {
	conv := tabula.ToRowMajor(tabtest.PersonRules())
	ctx := context.Background()
	people := tabtest.People()
	arr := [3]tabtest.Person{people[0], people[1], people[2]}

	want, err := conv.Slice(ctx, people)
	require.NoError(t, err)

	results := map[string]func() (*tabula.RowTable, error){
		"array":      func() (*tabula.RowTable, error) { return conv.Slice(ctx, arr[:]) },
		"collection": func() (*tabula.RowTable, error) { return conv.Collection(ctx, tabtest.NewList(people...)) },
		"seq":        func() (*tabula.RowTable, error) { return conv.Seq(ctx, slices.Values(people)) },
		"iterator":   func() (*tabula.RowTable, error) { return conv.Iterator(ctx, tabtest.NewCursor(people...)) },
		"source":     func() (*tabula.RowTable, error) { return conv.Source(ctx, tabula.FromSlice(people)) },
	}

	for name, run := range results {
		t.Run(name, func(t *testing.T) {
			got, err := run()
			require.NoError(t, err)
			assert.Equal(t, want.Maps(), got.Maps())
		})
	}
}

func TestConverter_Instance(t *testing.T) {
	conv := tabula.ToColumnMajor(tabtest.PersonRules())

	table, err := conv.Instance(context.Background(), tabtest.People()[1])
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, []any{"Bo"}, table.Values("name"))
}

func TestConverter_IteratorError(t *testing.T) {
	boom := errors.New("cursor closed")
	cursor := tabtest.NewCursor(tabtest.People()...).FailAfter(2, boom)

	table, err := tabula.ToColumnMajor(tabtest.PersonRules()).Iterator(context.Background(), cursor)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, tabula.ErrSource)
	assert.ErrorIs(t, err, boom)
}

func TestConverter_Empty(t *testing.T) {
	table, err := tabula.ToDataframe(tabtest.PersonRules()).Slice(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, []string{"name", "age"}, table.Labels())
}

func TestConverter_Layout(t *testing.T) {
	assert.Equal(t, tabula.LayoutRow, tabula.ToRowMajor(tabtest.PersonRules()).Layout())
	assert.Equal(t, tabula.LayoutColumn, tabula.ToColumnMajor(tabtest.PersonRules()).Layout())
	assert.Equal(t, tabula.LayoutColumn, tabula.ToDataframe(tabtest.PersonRules()).Layout())
}

func TestConverter_Parallel(t *testing.T) {
	people := make([]tabtest.Person, 0, 600)
	for i := 0; i < 600; i++ {
		people = append(people, tabtest.Person{Name: "p", Age: i})
	}

	conv := tabula.ToColumnMajor(tabtest.PersonRules(),
		tabula.WithParallel(tabula.WithWorkers(4), tabula.WithChunkSize(32)))

	table, err := conv.Slice(context.Background(), people)
	require.NoError(t, err)
	require.Equal(t, 600, table.Len())

	want := make([]any, 600)
	for i := range want {
		want[i] = i
	}
	assert.ElementsMatch(t, want, table.Values("age"))
}

func TestConverter_ParallelInvalidOption(t *testing.T) {
	conv := tabula.ToRowMajor(tabtest.PersonRules(), tabula.WithParallel(tabula.WithWorkers(-1)))

	table, err := conv.Slice(context.Background(), tabtest.People())
	assert.Nil(t, table)
	assert.ErrorIs(t, err, tabula.ErrInvalidOption)
}

func TestConverter_ConcurrentUse(t *testing.T) {
	conv := tabula.ToRowMajor(tabtest.PersonRules())

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			table, err := conv.Slice(context.Background(), tabtest.People())
			if err == nil && table.Len() != 3 {
				err = errors.New("unexpected row count")
			}
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-errs)
	}
}
