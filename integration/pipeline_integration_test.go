package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabzxcv/Syntaxy-FL/app"
	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/config"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
	"github.com/Gabzxcv/Syntaxy-FL/service"
)

const duplicatedJava = `class Orders {
    int total(int[] items) {
        int sum = 0;
        for (int i = 0; i < items.length; i++) {
            if (items[i] > 0) {
                sum += items[i];
            }
        }
        return sum;
    }

    int totalCopy(int[] items) {
        int sum = 0;
        for (int i = 0; i < items.length; i++) {
            if (items[i] > 0) {
                sum += items[i];
            }
        }
        return sum;
    }
}
`

func newService(t *testing.T) domain.AnalysisService {
	t.Helper()
	cfg := config.DefaultConfig()
	svc, err := service.NewCachedAnalysisService(
		service.NewAnalysisService(parser.DefaultRegistry(), cfg.Analysis, nil),
		cfg.Cache.Size,
		cfg.Analysis.Mode,
		nil,
	)
	require.NoError(t, err)
	return svc
}

// TestAnalyzeIntegration runs the full pipeline with real implementations
func TestAnalyzeIntegration(t *testing.T) {
	store, err := service.OpenReportStore(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	defer store.Close()

	useCase := app.NewAnalyzeUseCase(
		newService(t),
		service.NewOutputFormatter(false, false),
		service.NewFileOutputWriter(&bytes.Buffer{}),
		store,
		nil,
	)

	var out bytes.Buffer
	ctx := context.Background()
	report, err := useCase.Execute(ctx, app.AnalyzeInput{
		Request: domain.AnalysisRequest{
			Source:   duplicatedJava,
			Language: domain.LanguageJava,
			Metadata: map[string]string{"assignment_id": "hw1"},
		},
		Format: domain.OutputFormatJSON,
		Writer: &out,
	})
	require.NoError(t, err)

	var decoded domain.AnalysisReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, report.AnalysisID, decoded.AnalysisID)
	assert.NotEmpty(t, decoded.Clones, "identical methods should be reported")
	assert.Greater(t, decoded.ClonePercentage, 0.0)
	assert.NotEmpty(t, decoded.Suggestions)
	assert.Equal(t, "hw1", decoded.Metadata["assignment_id"])

	stored, err := store.Get(ctx, report.AnalysisID)
	require.NoError(t, err)
	assert.Equal(t, report.Clones, stored.Clones)
}

// TestBatchIntegration runs a roster through collection, the worker pool and formatting
func TestBatchIntegration(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"Orders.java":          duplicatedJava,
		"broken.py":            "def f(: pass\n",
		"util.js":              "function add(a, b) {\n  return a + b;\n}\n",
		"vendor/ignored.go":    "package vendor\n",
		"notes/readme.unknown": "not code",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := config.DefaultConfig()
	registry := parser.DefaultRegistry()
	svc := newService(t)
	useCase := app.NewBatchUseCase(
		service.NewFileCollector(registry, cfg.Batch.IncludePatterns, cfg.Batch.ExcludePatterns, cfg.Batch.MaxFileSizeKB),
		service.NewBatchExecutor(svc, 2, nil, nil),
		service.NewOutputFormatter(false, false),
		service.NewFileOutputWriter(&bytes.Buffer{}),
		nil,
		nil,
	)

	var out bytes.Buffer
	outcome, err := useCase.Execute(context.Background(), app.BatchInput{
		Paths:  []string{dir},
		Format: domain.OutputFormatText,
		Writer: &out,
	})
	require.NoError(t, err)

	assert.Len(t, outcome.Results, 3)
	assert.Equal(t, 1, outcome.Failed)
	broken := outcome.Results[filepath.Join(dir, "broken.py")]
	require.NotNil(t, broken)
	assert.Equal(t, domain.ErrCodeSyntaxError, broken.ErrorCode)

	assert.Contains(t, out.String(), "Batch Clone Analysis")
	assert.Contains(t, out.String(), "Rejected")
}
