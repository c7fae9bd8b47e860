package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

func TestEditSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "a b c d", "a b c d", 1.0},
		{"one substitution", "a b c d", "a b x d", 0.75},
		{"one insertion", "a b c", "a b c d", 0.75},
		{"disjoint", "a b", "c d", 0.0},
		{"both empty", "", "", 1.0},
		{"one empty", "a b", "", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EditSimilarity(strings.Fields(tt.a), strings.Fields(tt.b))
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.LessOrEqual(t, got, EditSimilarityBound(len(strings.Fields(tt.a)), len(strings.Fields(tt.b))))
		})
	}
}

func TestEditSimilaritySymmetric(t *testing.T) {
	a := strings.Fields("for $1 in $2 : { $3 += $1 }")
	b := strings.Fields("for $1 in $2 : { if $1 : { $3 += $1 } }")
	assert.Equal(t, EditSimilarity(a, b), EditSimilarity(b, a))
}

func TestJaccardSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, JaccardSimilarity(nil, nil))
	assert.Equal(t, 1.0, JaccardSimilarity([]uint64{1, 2, 3}, []uint64{1, 2, 3}))
	assert.Equal(t, 0.5, JaccardSimilarity([]uint64{1, 2, 3}, []uint64{2, 3, 4}))
	assert.Equal(t, 0.0, JaccardSimilarity([]uint64{1}, []uint64{2}))
	assert.Equal(t, 0.0, JaccardSimilarity([]uint64{1}, nil))
}

func TestClonePercentage(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, "a = 1\n\nb = 2\nc = 3\n\nd = 4\n")

	tests := []struct {
		name   string
		clones []domain.CloneMatch
		want   float64
	}{
		{"no clones", nil, 0},
		{"blank lines ignored", []domain.CloneMatch{{Locations: []domain.LineRange{{StartLine: 1, EndLine: 3}, {StartLine: 5, EndLine: 6}}}}, 75},
		{"lines counted once", []domain.CloneMatch{
			{Locations: []domain.LineRange{{StartLine: 1, EndLine: 3}, {StartLine: 3, EndLine: 4}}},
			{Locations: []domain.LineRange{{StartLine: 1, EndLine: 1}, {StartLine: 3, EndLine: 3}}},
		}, 75},
		{"clamped", []domain.CloneMatch{{Locations: []domain.LineRange{{StartLine: 1, EndLine: 100}}}}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClonePercentage(unit, tt.clones))
		})
	}
}

func TestLineSet(t *testing.T) {
	s := NewLineSet()
	s.AddRange(domain.LineRange{StartLine: 3, EndLine: 5})
	s.Add(10)
	s.Add(0)
	s.AddRange(domain.LineRange{StartLine: 7, EndLine: 6})

	assert.Equal(t, 4, s.Len())
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(6))

	other := NewLineSet()
	other.AddRange(domain.LineRange{StartLine: 5, EndLine: 10})
	assert.Equal(t, 2, s.IntersectionLen(other))
}
