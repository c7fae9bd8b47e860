package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

const renamedPair = `def compute_total(items):
    total = 0
    for item in items:
        if item > 0:
            total += item
    return total


def sum_positive(values):
    acc = 0
    for v in values:
        if v > 0:
            acc += v
    return acc
`

const literalPair = `def scale_a(values):
    result = []
    for v in values:
        result.append(v * 2)
    return result

def scale_b(values):
    result = []
    for v in values:
        result.append(v * 3)
    return result
`

const fragmentPair = `def report(data, other):
    low = min(data)
    high = max(data)
    total = low + high
    print(low, high, total)
    for x in data:
        print(x)
    low = min(other)
    high = max(other)
    total = low + high
    print(low, high, total)
    for y in other:
        print(y)
`

func parseUnit(t *testing.T, language domain.Language, source string) *parser.SourceUnit {
	t.Helper()
	unit, err := parser.DefaultRegistry().Validate(context.Background(), source, language, parser.Limits{})
	require.NoError(t, err)
	return unit
}

func normalize(t *testing.T, unit *parser.SourceUnit, mode domain.Mode) []*NormalizedBlock {
	t.Helper()
	blocks, err := NewNormalizer(DefaultConfig(mode)).Normalize(context.Background(), unit)
	require.NoError(t, err)
	return blocks
}

func blocksOf(blocks []*NormalizedBlock, g domain.Granularity) []*NormalizedBlock {
	var out []*NormalizedBlock
	for _, b := range blocks {
		if b.Granularity == g {
			out = append(out, b)
		}
	}
	return out
}

func TestNormalizeRenamedFunctions(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, renamedPair)
	functions := blocksOf(normalize(t, unit, domain.ModeExact), domain.GranularityFunction)
	require.Len(t, functions, 2)

	a, b := functions[0], functions[1]
	assert.Equal(t, domain.LineRange{StartLine: 1, EndLine: 6}, a.Lines())
	assert.Equal(t, domain.LineRange{StartLine: 9, EndLine: 14}, b.Lines())

	assert.Equal(t, a.RenamedSequence(), b.RenamedSequence())
	assert.NotEqual(t, a.ExactSequence(), b.ExactSequence())
	assert.Equal(t, []string{"compute_total", "items", "total", "item"}, a.Placeholders)
	assert.Equal(t, []string{"sum_positive", "values", "acc", "v"}, b.Placeholders)
}

func TestNormalizeKeepsBlockStructure(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, renamedPair)
	functions := blocksOf(normalize(t, unit, domain.ModeExact), domain.GranularityFunction)
	require.NotEmpty(t, functions)

	seq := functions[0].PolicySequence()
	opens, closes := 0, 0
	for _, tok := range seq {
		switch tok {
		case BlockOpen:
			opens++
		case BlockClose:
			closes++
		}
	}
	assert.Equal(t, 3, opens)
	assert.Equal(t, opens, closes)
	assert.Equal(t, "def", seq[0])
	assert.Equal(t, BlockClose, seq[len(seq)-1])
}

func TestNormalizeLiteralPolicy(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, literalPair)

	exact := blocksOf(normalize(t, unit, domain.ModeExact), domain.GranularityFunction)
	require.Len(t, exact, 2)
	assert.NotEqual(t, exact[0].PolicySequence(), exact[1].PolicySequence())
	assert.Contains(t, exact[0].PolicySequence(), "2")

	nearMiss := blocksOf(normalize(t, unit, domain.ModeNearMiss), domain.GranularityFunction)
	require.Len(t, nearMiss, 2)
	assert.Equal(t, nearMiss[0].PolicySequence(), nearMiss[1].PolicySequence())
	assert.Contains(t, nearMiss[0].PolicySequence(), "<NUM>")
	assert.NotContains(t, nearMiss[0].PolicySequence(), "2")
}

func TestNormalizeIgnoresComments(t *testing.T) {
	plain := parseUnit(t, domain.LanguagePython, renamedPair)
	commented := parseUnit(t, domain.LanguagePython, `def compute_total(items):
    # running sum
    total = 0
    for item in items:
        if item > 0:  # skip negatives
            total += item
    return total
`)

	want := blocksOf(normalize(t, plain, domain.ModeExact), domain.GranularityFunction)[0]
	got := blocksOf(normalize(t, commented, domain.ModeExact), domain.GranularityFunction)
	require.Len(t, got, 1)
	assert.Equal(t, want.PolicySequence(), got[0].PolicySequence())
}

func TestNormalizeFreeIdentifiersStay(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, `def show(rows):
    for row in rows:
        print(len(row), row, sorted(rows))
        print(row)
    return len(rows)
`)
	functions := blocksOf(normalize(t, unit, domain.ModeExact), domain.GranularityFunction)
	require.Len(t, functions, 1)

	seq := functions[0].PolicySequence()
	assert.Contains(t, seq, "print")
	assert.Contains(t, seq, "len")
	assert.Contains(t, seq, "sorted")
	assert.NotContains(t, seq, "rows")
	assert.NotContains(t, seq, "row")
}

func TestNormalizeEmptyInput(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"whitespace", "\n\n   \n"},
		{"comments only", "# one\n# two\n# three\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parseUnit(t, domain.LanguagePython, tt.source)
			assert.Empty(t, normalize(t, unit, domain.ModeNearMiss))
		})
	}
}

func TestNormalizeBasicBlocks(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, fragmentPair)
	runs := blocksOf(normalize(t, unit, domain.ModeExact), domain.GranularityBasicBlock)
	require.Len(t, runs, 2)

	assert.Equal(t, domain.LineRange{StartLine: 2, EndLine: 5}, runs[0].Lines())
	assert.Equal(t, domain.LineRange{StartLine: 8, EndLine: 11}, runs[1].Lines())
	assert.Len(t, runs[0].Nodes, 4)
	assert.Equal(t, runs[0].RenamedSequence(), runs[1].RenamedSequence())
	require.NotNil(t, runs[0].Function)
	assert.Same(t, runs[0].Function, runs[1].Function)
}

func TestNormalizeBlockOrder(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, fragmentPair)
	blocks := normalize(t, unit, domain.ModeExact)
	for i, b := range blocks {
		assert.Equal(t, i, b.ID)
		if i > 0 {
			assert.LessOrEqual(t, blocks[i-1].StartLine, b.StartLine)
		}
	}
}

func TestNormalizeCancelled(t *testing.T) {
	unit := parseUnit(t, domain.LanguagePython, renamedPair)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Small inputs finish before the first cancellation check.
	blocks, err := NewNormalizer(DefaultConfig(domain.ModeExact)).Normalize(ctx, unit)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, blocks)
	}
}
