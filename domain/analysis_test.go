package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, LanguagePython, NormalizeLanguage("  Python "))
	assert.Equal(t, LanguageJava, NormalizeLanguage("JAVA"))
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeNearMiss, mode)

	mode, err = ParseMode("EXACT")
	require.NoError(t, err)
	assert.Equal(t, ModeExact, mode)

	_, err = ParseMode("fuzzy")
	assert.Error(t, err)
}

func TestAnalysisRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     AnalysisRequest
		wantErr bool
	}{
		{"empty source is fine", AnalysisRequest{Language: LanguagePython}, false},
		{"missing language", AnalysisRequest{Source: "x = 1"}, true},
		{"bad mode", AnalysisRequest{Language: LanguagePython, Options: AnalysisOptions{Mode: "loose"}}, true},
		{"threshold above one", AnalysisRequest{Language: LanguagePython, Options: AnalysisOptions{SimilarityThreshold: 1.5}}, true},
		{"negative budget", AnalysisRequest{Language: LanguagePython, Options: AnalysisOptions{MaxDurationMs: -1}}, true},
		{"full", AnalysisRequest{Language: LanguageJava, Options: AnalysisOptions{Mode: ModeExact, SimilarityThreshold: 0.9, MaxDurationMs: 100}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, ClassInputRejected, Classify(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLineRange(t *testing.T) {
	outer := LineRange{StartLine: 1, EndLine: 10}
	inner := LineRange{StartLine: 3, EndLine: 5}
	apart := LineRange{StartLine: 11, EndLine: 12}

	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
	assert.True(t, outer.Overlaps(inner))
	assert.False(t, outer.Overlaps(apart))
	assert.Equal(t, 3, inner.Lines())
}

func TestCloneTypeSeverity(t *testing.T) {
	assert.Greater(t, CloneTypeExact.Severity(), CloneTypeRenamed.Severity())
	assert.Greater(t, CloneTypeRenamed.Severity(), CloneTypeNearMiss.Severity())
}

func TestAnalysisReportClone(t *testing.T) {
	cc := 2.0
	report := &AnalysisReport{
		AnalysisID:           "a",
		CyclomaticComplexity: &cc,
		Clones:               []CloneMatch{{ID: "c", Locations: []LineRange{{1, 3}, {5, 7}}}},
		Metadata:             map[string]string{"assignment_id": "hw1"},
	}

	copied := report.Clone()
	copied.Clones[0].Locations[0].StartLine = 99
	*copied.CyclomaticComplexity = 5
	copied.Metadata["assignment_id"] = "hw2"

	assert.Equal(t, 1, report.Clones[0].Locations[0].StartLine)
	assert.Equal(t, 2.0, *report.CyclomaticComplexity)
	assert.Equal(t, "hw1", report.Metadata["assignment_id"])
}

func TestParseOutputFormat(t *testing.T) {
	f, err := ParseOutputFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, OutputFormatJSON, f)

	_, err = ParseOutputFormat("html")
	assert.Error(t, err)
}
