package analyzer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

func TestCalculateHalstead(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, "x = y + 1\nz = x + y\n")
	h := CalculateHalstead(unit)

	// operators: = + ; operands: x y 1 z
	assert.Equal(t, 2, h.OperatorsUnique)
	assert.Equal(t, 4, h.OperandsUnique)
	assert.Equal(t, 4, h.OperatorsTotal)
	assert.Equal(t, 6, h.OperandsTotal)
	assert.Equal(t, 6, h.Vocabulary)
	assert.Equal(t, 10, h.Length)
	assert.InDelta(t, 10*math.Log2(6), h.Volume, 1e-9)
}

func TestMaintainabilityIndexRange(t *testing.T) {
	inputs := []MaintainabilityInput{
		{},
		{Volume: 1, CyclomaticComplexity: 1, LinesOfCode: 1},
		{Volume: 1e9, CyclomaticComplexity: 500, LinesOfCode: 1e6, ClonePercentage: 100},
		{Volume: 50, CyclomaticComplexity: 2, LinesOfCode: 5, CommentRatio: 1},
	}
	for _, in := range inputs {
		mi := MaintainabilityIndex(in)
		assert.GreaterOrEqual(t, mi, 0.0)
		assert.LessOrEqual(t, mi, 100.0)
	}
	assert.Equal(t, 100.0, MaintainabilityIndex(MaintainabilityInput{}))
}

func TestMaintainabilityIndexMonotonic(t *testing.T) {
	base := MaintainabilityInput{Volume: 800, CyclomaticComplexity: 4, LinesOfCode: 60, CommentRatio: 0.1}

	prev := MaintainabilityIndex(base)
	for cc := 5.0; cc <= 60; cc += 5 {
		in := base
		in.CyclomaticComplexity = cc
		mi := MaintainabilityIndex(in)
		assert.LessOrEqual(t, mi, prev, "complexity %v", cc)
		prev = mi
	}

	prev = MaintainabilityIndex(base)
	for pct := 10.0; pct <= 100; pct += 10 {
		in := base
		in.ClonePercentage = pct
		mi := MaintainabilityIndex(in)
		assert.Less(t, mi, prev, "duplication %v", pct)
		prev = mi
	}
}

func TestComputeMetricsMonotonicInComplexity(t *testing.T) {
	simple := parseUnit(t, domain.LanguagePython, `def f(x):
    y = x + 1
    return y
`)
	branchy := parseUnit(t, domain.LanguagePython, `def f(x):
    y = x + 1
    if y > 3 and x < 2:
        return y
    return y
`)
	a, err := ComputeMetrics(simple, 0)
	require.NoError(t, err)
	b, err := ComputeMetrics(branchy, 0)
	require.NoError(t, err)

	assert.Greater(t, b.CyclomaticComplexity, a.CyclomaticComplexity)
	assert.LessOrEqual(t, b.MaintainabilityIndex, a.MaintainabilityIndex)

	dup, err := ComputeMetrics(simple, 50)
	require.NoError(t, err)
	assert.LessOrEqual(t, dup.MaintainabilityIndex, a.MaintainabilityIndex)
}

func TestCommentRatio(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, "# header\nx = 1\n\ny = 2  # trailing\n")
	assert.InDelta(t, 2.0/3.0, CommentRatio(unit), 1e-9)
}
