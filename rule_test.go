package tabula

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int
}

func TestRule_Apply(t *testing.T) {
	r := Mapping("x", func(p point) any { return p.X })

	v, err := r.Apply(point{X: 3})
	require.NoError(t, err)
	assert.Equal(t, "x", r.Label())
	assert.Equal(t, KindInt, v.Kind())
	assert.Equal(t, 3, v.Any())
}

func TestRule_ApplyError(t *testing.T) {
	boom := errors.New("boom")
	r := MappingErr("x", func(point) (any, error) { return nil, boom })

	v, err := r.Apply(point{})
	require.Error(t, err)
	assert.True(t, v.IsNull())
	assert.ErrorIs(t, err, ErrExtraction)
	assert.ErrorIs(t, err, boom)

	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "x", ee.Label)
	assert.Equal(t, -1, ee.Index)
}

func TestRule_ApplyRecoversPanic(t *testing.T) {
	r := Mapping("boom", func(p point) any {
		var m map[string]int
		m["x"] = p.X
		return nil
	})

	_, err := r.Apply(point{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
	assert.Contains(t, err.Error(), "panic")
}

func TestRule_NilExtractor(t *testing.T) {
	for _, r := range []Rule[point]{
		Mapping[point]("a", nil),
		MappingErr[point]("b", nil),
		{},
	} {
		_, err := r.Apply(point{})
		assert.ErrorIs(t, err, ErrExtraction)
		assert.ErrorIs(t, err, errNilExtractor)
	}
}

func TestRule_NullResult(t *testing.T) {
	r := Mapping("p", func(point) any { return nil })
	v, err := r.Apply(point{})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestRuleSet_Labels(t *testing.T) {
	rs := NewRuleSet(
		Mapping("x", func(p point) any { return p.X }),
		Mapping("y", func(p point) any { return p.Y }),
		Mapping("x", func(p point) any { return -p.X }),
	)

	assert.Equal(t, 3, rs.Len())
	assert.Equal(t, []string{"x", "y"}, rs.Labels())
	assert.Equal(t, []string{"x", "y", "x"}, rs.ruleLabels())
}

func TestRuleSet_LastRuleWins(t *testing.T) {
	rs := NewRuleSet(
		Mapping("x", func(p point) any { return p.X }),
		Mapping("y", func(p point) any { return p.Y }),
		Mapping("x", func(p point) any { return -p.X }),
	)

	rec, err := rs.record(point{X: 2, Y: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Len())
	assert.Equal(t, map[string]any{"x": -2, "y": 5}, rec.Map())
}

func TestRuleSet_ShadowedRuleStillRuns(t *testing.T) {
	boom := errors.New("boom")
	rs := NewRuleSet(
		MappingErr("x", func(point) (any, error) { return nil, boom }),
		Mapping("x", func(p point) any { return p.X }),
	)

	_, err := rs.values(point{})
	assert.ErrorIs(t, err, boom)
}

func TestRuleSet_WithIsImmutable(t *testing.T) {
	base := NewRuleSet(Mapping("x", func(p point) any { return p.X }))
	ext := base.With(Mapping("y", func(p point) any { return p.Y }))

	assert.Equal(t, []string{"x"}, base.Labels())
	assert.Equal(t, []string{"x", "y"}, ext.Labels())
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, ext.Len())
}

func TestRuleSet_RulesIsCopy(t *testing.T) {
	rs := NewRuleSet(Mapping("x", func(p point) any { return p.X }))
	rules := rs.Rules()
	rules[0] = Mapping("z", func(point) any { return nil })

	assert.Equal(t, "x", rs.Rules()[0].Label())
}

func TestRuleSet_Zero(t *testing.T) {
	var rs RuleSet[point]
	assert.Equal(t, 0, rs.Len())
	assert.Nil(t, rs.Labels())

	rec, err := rs.record(point{})
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Len())
}
