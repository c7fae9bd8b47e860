package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

func detect(t *testing.T, unit *parser.SourceUnit, mode domain.Mode) ([]domain.CloneMatch, []*Cluster) {
	t.Helper()
	config := DefaultConfig(mode)
	blocks := normalize(t, unit, mode)
	idx, err := BuildIndex(context.Background(), blocks, config)
	require.NoError(t, err)
	matches, clusters, err := NewMatcher(config).Match(context.Background(), unit, idx)
	require.NoError(t, err)
	return matches, clusters
}

func TestMatchVerbatimDuplicate(t *testing.T) {
	fn := strings.Split(strings.TrimSpace(renamedPair), "\n\n\n")[0]
	source := fn + "\n" + fn + "\n"
	unit := parseUnit(t, domain.LanguagePython, source)

	for _, mode := range []domain.Mode{domain.ModeExact, domain.ModeNearMiss} {
		t.Run(string(mode), func(t *testing.T) {
			matches, _ := detect(t, unit, mode)
			require.Len(t, matches, 1)

			m := matches[0]
			assert.Equal(t, domain.CloneTypeExact, m.Type)
			assert.Equal(t, domain.GranularityFunction, m.Granularity)
			assert.Equal(t, 1.0, m.Similarity)
			assert.Equal(t, []domain.LineRange{{StartLine: 1, EndLine: 6}, {StartLine: 7, EndLine: 12}}, m.Locations)
			assert.Equal(t, fn, m.RepresentativeSnippet)
			assert.Equal(t, 100.0, ClonePercentage(unit, matches))
		})
	}
}

func TestMatchRenamedFunctions(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, renamedPair)
	matches, clusters := detect(t, unit, domain.ModeExact)
	require.Len(t, matches, 1)
	require.Len(t, clusters, 1)

	assert.Equal(t, domain.CloneTypeRenamed, matches[0].Type)
	assert.Equal(t, []domain.LineRange{{StartLine: 1, EndLine: 6}, {StartLine: 9, EndLine: 14}}, matches[0].Locations)
	assert.Len(t, clusters[0].Members, 2)
}

func TestMatchLiteralDifferences(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, literalPair)

	exact, _ := detect(t, unit, domain.ModeExact)
	assert.Empty(t, exact)

	nearMiss, _ := detect(t, unit, domain.ModeNearMiss)
	require.Len(t, nearMiss, 1)
	assert.Equal(t, domain.CloneTypeNearMiss, nearMiss[0].Type)
	assert.Equal(t, []domain.LineRange{{StartLine: 1, EndLine: 5}, {StartLine: 7, EndLine: 11}}, nearMiss[0].Locations)
}

func TestMatchNearMissEdits(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, `def load_users(path):
    rows = []
    with open(path) as handle:
        for line in handle:
            name, age = line.strip().split(",")
            rows.append({"name": name, "age": int(age)})
    return rows


def load_admins(path):
    rows = []
    with open(path) as handle:
        for line in handle:
            name, age = line.strip().split(",")
            if not name:
                continue
            rows.append({"name": name, "age": int(age)})
    return rows
`)
	matches, _ := detect(t, unit, domain.ModeNearMiss)
	require.NotEmpty(t, matches)

	var function *domain.CloneMatch
	for i := range matches {
		if matches[i].Granularity == domain.GranularityFunction {
			function = &matches[i]
		}
	}
	require.NotNil(t, function)
	assert.Equal(t, domain.CloneTypeNearMiss, function.Type)
	assert.GreaterOrEqual(t, function.Similarity, 0.70)
	assert.Less(t, function.Similarity, 1.0)
}

func TestMatchUniqueCode(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, `import json


def parse_config(path):
    with open(path) as handle:
        data = json.load(handle)
    return {key.lower(): value for key, value in data.items()}


class Counter:
    def __init__(self):
        self.count = 0

    def bump(self, step):
        self.count += step
        return self.count


def fibonacci(n):
    a, b = 0, 1
    while n > 0:
        a, b = b, a + b
        n -= 1
    return a
`)
	for _, mode := range []domain.Mode{domain.ModeExact, domain.ModeNearMiss} {
		matches, _ := detect(t, unit, mode)
		assert.Empty(t, matches, "mode %s", mode)
		assert.Equal(t, 0.0, ClonePercentage(unit, matches))
	}
}

func TestMatchFragmentsInOneFunction(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, fragmentPair)
	matches, clusters := detect(t, unit, domain.ModeExact)
	require.Len(t, matches, 1)

	assert.Equal(t, domain.GranularityBasicBlock, matches[0].Granularity)
	assert.Equal(t, domain.CloneTypeRenamed, matches[0].Type)
	assert.Equal(t, []domain.LineRange{{StartLine: 2, EndLine: 5}, {StartLine: 8, EndLine: 11}}, matches[0].Locations)
	assert.Same(t, clusters[0].Members[0].Function, clusters[0].Members[1].Function)
}

func TestMatchDeterministicIDs(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, renamedPair)
	first, _ := detect(t, unit, domain.ModeNearMiss)
	second, _ := detect(t, unit, domain.ModeNearMiss)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestEmbeds(t *testing.T) {
	outer := []domain.LineRange{{StartLine: 1, EndLine: 10}, {StartLine: 20, EndLine: 30}}

	assert.True(t, embeds(outer, []domain.LineRange{{StartLine: 2, EndLine: 4}, {StartLine: 21, EndLine: 23}}))
	// Both fragments inside the same outer location are a separate clone.
	assert.False(t, embeds(outer, []domain.LineRange{{StartLine: 2, EndLine: 4}, {StartLine: 6, EndLine: 8}}))
	assert.False(t, embeds(outer, []domain.LineRange{{StartLine: 2, EndLine: 4}, {StartLine: 40, EndLine: 42}}))
}

func TestResolveOverlapsPrefersLargerCluster(t *testing.T) {
	cluster := func(id string, sim float64, locs ...domain.LineRange) *Cluster {
		return &Cluster{Match: domain.CloneMatch{ID: id, Type: domain.CloneTypeExact, Similarity: sim, Locations: locs}}
	}
	big := cluster("big", 0.9, domain.LineRange{StartLine: 1, EndLine: 10}, domain.LineRange{StartLine: 20, EndLine: 29})
	nested := cluster("nested", 1.0, domain.LineRange{StartLine: 2, EndLine: 5}, domain.LineRange{StartLine: 21, EndLine: 24})
	inner := cluster("inner", 1.0, domain.LineRange{StartLine: 2, EndLine: 4}, domain.LineRange{StartLine: 6, EndLine: 8})

	kept := resolveOverlaps([]*Cluster{nested, inner, big})
	require.Len(t, kept, 2)
	assert.Equal(t, "big", kept[0].Match.ID)
	assert.Equal(t, "inner", kept[1].Match.ID)
}

func TestClassify(t *testing.T) {
	block := func(exact, renamed string) *NormalizedBlock {
		e, r := strings.Fields(exact), strings.Fields(renamed)
		b := &NormalizedBlock{}
		for i := range e {
			b.Tokens = append(b.Tokens, Token{Exact: e[i], Renamed: r[i], Policy: r[i]})
		}
		return b
	}
	assert.Equal(t, domain.CloneTypeExact, classify([]*NormalizedBlock{block("x = 1", "$1 = 1"), block("x = 1", "$1 = 1")}))
	assert.Equal(t, domain.CloneTypeRenamed, classify([]*NormalizedBlock{block("x = 1", "$1 = 1"), block("y = 1", "$1 = 1")}))
	assert.Equal(t, domain.CloneTypeNearMiss, classify([]*NormalizedBlock{block("x = 1", "$1 = 1"), block("y = 2", "$1 = 2")}))
}
