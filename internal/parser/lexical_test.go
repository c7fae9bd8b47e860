package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
)

func TestLexicalFunction(t *testing.T) {
	source := `int add(int a, int b) {
    int total = a + b;
    return total;
}
`
	unit := parse(t, domain.LanguageGeneric, source)

	assert.Equal(t, domain.ConfidenceAssumed, unit.Confidence)

	functions := unit.Functions()
	require.Len(t, functions, 1)
	assert.Equal(t, "add", functions[0].Name())
	assert.Equal(t, 1, functions[0].Location.StartLine)
	assert.Equal(t, 4, functions[0].Location.EndLine)

	body := functions[0].Body()
	require.NotNil(t, body)
	statements := 0
	for _, child := range body.Children {
		if child.Statement {
			statements++
		}
	}
	assert.Equal(t, 2, statements)
	assert.Equal(t, []string{"a", "add", "b", "total"}, declaredNames(unit))
}

func TestLexicalDecisions(t *testing.T) {
	source := `void route(int x) {
    if (x > 0 && x < 10) {
        go();
    } else if (x == 0) {
        stop();
    }
    switch (x) {
        case 1: one(); break;
        default: other();
    }
    int y = x > 5 ? 1 : 2;
}
`
	unit := parse(t, domain.LanguageGeneric, source)

	decisions := unit.Root.Find(func(n *Node) bool {
		return n.IsDecision(unit.ShortCircuit)
	})
	kinds := map[NodeKind]int{}
	for _, d := range decisions {
		kinds[d.Kind]++
	}

	assert.Equal(t, 2, kinds[KindIf])
	assert.Equal(t, 1, kinds[KindCase])
	assert.Equal(t, 1, kinds[KindBinary])
	assert.Equal(t, 1, kinds[KindTernary])
}

func TestLexicalNeverRejects(t *testing.T) {
	unit, err := NewLexicalFrontend().Parse(context.Background(), []byte(")))((( }}} {"), Limits{})
	require.NoError(t, err)
	assert.NotNil(t, unit.Root)
}

func TestLexicalComments(t *testing.T) {
	source := "// header\nint x = 1; /* trailing */\n"
	unit := parse(t, domain.LanguageGeneric, source)

	assert.Len(t, unit.Root.FindByKind(KindComment), 2)
	statements := unit.Root.Find(func(n *Node) bool { return n.Statement })
	require.Len(t, statements, 1)
	assert.Equal(t, 2, statements[0].Location.StartLine)
}

func TestLexicalNodeBudget(t *testing.T) {
	_, err := NewLexicalFrontend().Parse(context.Background(), []byte("a b c d e f"), Limits{MaxNodes: 3})
	require.Error(t, err)
}
