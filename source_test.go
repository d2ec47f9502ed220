package tabula

import (
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceCollection []int

func (s sliceCollection) Len() int { return len(s) }

func (s sliceCollection) All() iter.Seq[int] { return slices.Values([]int(s)) }

type intCursor struct {
	items []int
	pos   int
	err   error
}

func (c *intCursor) Next() bool {
	c.pos++
	return c.pos < len(c.items)
}

func (c *intCursor) Value() int { return c.items[c.pos] }

func (c *intCursor) Err() error {
	if c.pos >= len(c.items) {
		return c.err
	}
	return nil
}

type bareCursor struct {
	intCursor
}

func (c *bareCursor) Err() {}

func TestSources_PreserveOrder(t *testing.T) {
	want := []int{3, 1, 2}

	ch := make(chan int, len(want))
	for _, v := range want {
		ch <- v
	}
	close(ch)

	pos := 0
	pull := func() (int, bool) {
		if pos >= len(want) {
			return 0, false
		}
		pos++
		return want[pos-1], true
	}

	sources := map[string]Source[int]{
		"slice":      FromSlice(want),
		"collection": FromCollection[int](sliceCollection(want)),
		"seq":        FromSeq(slices.Values(want)),
		"iterator":   FromIterator[int](&intCursor{items: want, pos: -1}),
		"pull":       FromPull(pull),
		"chan":       FromChan(ch),
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, slices.Collect(src.All()))
			assert.NoError(t, src.Err())
		})
	}
}

func TestOf(t *testing.T) {
	assert.Equal(t, []string{"one"}, slices.Collect(Of("one").All()))
}

func TestSource_Zero(t *testing.T) {
	var src Source[int]
	assert.Empty(t, slices.Collect(src.All()))
	assert.NoError(t, src.Err())

	assert.Empty(t, slices.Collect(FromCollection[int](nil).All()))
	assert.Empty(t, slices.Collect(FromIterator[int](nil).All()))
	assert.Empty(t, slices.Collect(FromPull[int](nil).All()))
	assert.Empty(t, slices.Collect(FromSlice[int](nil).All()))
}

func TestFromIterator_SurfacesErr(t *testing.T) {
	boom := errors.New("cursor closed")
	src := FromIterator[int](&intCursor{items: []int{1}, pos: -1, err: boom})

	assert.Equal(t, []int{1}, slices.Collect(src.All()))
	err := src.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSource)
	assert.ErrorIs(t, err, boom)
}

func TestFromIterator_IgnoresMismatchedErr(t *testing.T) {
	src := FromIterator[int](&bareCursor{intCursor{items: []int{1}, pos: -1}})
	assert.NoError(t, src.Err())
}

func TestSource_EarlyStop(t *testing.T) {
	calls := 0
	src := FromPull(func() (int, bool) {
		calls++
		return calls, true
	})

	for v := range src.All() {
		if v == 2 {
			break
		}
	}
	assert.Equal(t, 2, calls)
}

func TestFromChan_Nil(t *testing.T) {
	var ch chan int
	assert.Empty(t, slices.Collect(FromChan[int](ch).All()))
}
