package constants

// Similarity thresholds per normalization mode.
//
// Exact mode compares identifier-normalized sequences with literal values
// kept, so only close copies should survive. Near-miss mode collapses
// literals to their type and tolerates edits, so a lower bar applies.
const (
	// DefaultExactSimilarityThreshold is used when mode is exact
	DefaultExactSimilarityThreshold = 0.85

	// DefaultNearMissSimilarityThreshold is used when mode is near_miss
	DefaultNearMissSimilarityThreshold = 0.70
)

// Fragment size filters
const (
	// DefaultMinLines is the smallest fragment, in lines, reported as a clone
	DefaultMinLines = 3

	// DefaultMinTokens is the smallest fragment, in normalized tokens, reported as a clone
	DefaultMinTokens = 20

	// DefaultMinBasicBlockStatements is the shortest statement run treated as a basic block
	DefaultMinBasicBlockStatements = 2
)

// MinHash / LSH parameters. bands*rows hash functions are computed per block.
const (
	DefaultShingleSize = 4
	DefaultLSHBands    = 16
	DefaultLSHRows     = 4
)

// Budgets
const (
	// DefaultMaxDurationMs bounds a single analysis
	DefaultMaxDurationMs = 5000

	// DefaultMaxNodes bounds the syntax tree size of a single submission
	DefaultMaxNodes = 200000
)

// Maintainability index
const (
	// DuplicationPenaltyWeight scales the MI reduction at 100% duplication
	DuplicationPenaltyWeight = 0.25

	// PrioritySaturation is the raw priority at which a suggestion scores 0.5
	PrioritySaturation = 50.0
)

// CloneTypeNames provides human-readable names for clone types
var CloneTypeNames = map[string]string{
	"exact":     "Exact copy",
	"renamed":   "Renamed copy",
	"near_miss": "Near-miss copy",
}

// CloneTypeDescriptions provides detailed descriptions for each clone type
var CloneTypeDescriptions = map[string]string{
	"exact":     "Identical fragments apart from whitespace, layout and comments",
	"renamed":   "Structurally identical fragments whose identifiers were renamed",
	"near_miss": "Copied fragments with small edits such as added, removed or changed statements",
}
