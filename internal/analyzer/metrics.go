package analyzer

import (
	"fmt"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

// CodeMetrics holds the unit-level quality metrics
type CodeMetrics struct {
	CyclomaticComplexity float64
	MaintainabilityIndex float64
	LinesOfCode          int
	Functions            []domain.FunctionMetrics
	Halstead             HalsteadMetrics
	Aggregate            *AggregateComplexity
}

// ComputeMetrics computes complexity and maintainability for a unit.
// A panic in any metric is reported as an analysis error.
func ComputeMetrics(unit *parser.SourceUnit, clonePercentage float64) (result *CodeMetrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = domain.NewAnalysisError("metrics computation failed", fmt.Errorf("panic: %v", r))
		}
	}()

	loc := len(unit.NonBlankLines())
	if unit.Root == nil || loc == 0 {
		return &CodeMetrics{
			CyclomaticComplexity: 1,
			MaintainabilityIndex: 100,
			Aggregate:            CalculateAggregateComplexity(nil),
		}, nil
	}

	results := CalculateComplexity(unit)
	agg := CalculateAggregateComplexity(results)
	halstead := CalculateHalstead(unit)

	functions := make([]domain.FunctionMetrics, 0, len(results))
	for _, r := range results {
		functions = append(functions, r.Metrics())
	}

	mi := MaintainabilityIndex(MaintainabilityInput{
		Volume:               halstead.Volume,
		CyclomaticComplexity: agg.WeightedComplexity,
		LinesOfCode:          loc,
		CommentRatio:         CommentRatio(unit),
		ClonePercentage:      clonePercentage,
	})

	return &CodeMetrics{
		CyclomaticComplexity: agg.WeightedComplexity,
		MaintainabilityIndex: mi,
		LinesOfCode:          loc,
		Functions:            functions,
		Halstead:             halstead,
		Aggregate:            agg,
	}, nil
}
