package analyzer

import (
	"fmt"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/constants"
)

// Config holds the tuning knobs of the detection pipeline
type Config struct {
	// Mode selects the normalization policy
	Mode domain.Mode

	// SimilarityThreshold overrides the mode default when > 0
	SimilarityThreshold float64

	// Minimum fragment size
	MinLines                int
	MinTokens               int
	MinBasicBlockStatements int

	// MinHash / LSH
	ShingleSize int
	LSHBands    int
	LSHRows     int
}

// DefaultConfig returns the default configuration for a mode
func DefaultConfig(mode domain.Mode) *Config {
	if mode == "" {
		mode = domain.ModeNearMiss
	}
	return &Config{
		Mode:                    mode,
		MinLines:                constants.DefaultMinLines,
		MinTokens:               constants.DefaultMinTokens,
		MinBasicBlockStatements: constants.DefaultMinBasicBlockStatements,
		ShingleSize:             constants.DefaultShingleSize,
		LSHBands:                constants.DefaultLSHBands,
		LSHRows:                 constants.DefaultLSHRows,
	}
}

// Threshold returns the effective similarity threshold
func (c *Config) Threshold() float64 {
	if c.SimilarityThreshold > 0 {
		return c.SimilarityThreshold
	}
	if c.Mode == domain.ModeExact {
		return constants.DefaultExactSimilarityThreshold
	}
	return constants.DefaultNearMissSimilarityThreshold
}

// NumHashes returns the MinHash signature length
func (c *Config) NumHashes() int {
	return c.LSHBands * c.LSHRows
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Mode != domain.ModeExact && c.Mode != domain.ModeNearMiss {
		return fmt.Errorf("invalid mode %q", c.Mode)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be between 0 and 1, got %f", c.SimilarityThreshold)
	}
	if c.MinLines < 1 || c.MinTokens < 1 {
		return fmt.Errorf("min_lines and min_tokens must be positive")
	}
	if c.MinBasicBlockStatements < 2 {
		return fmt.Errorf("min_basic_block_statements must be at least 2")
	}
	if c.ShingleSize < 1 {
		return fmt.Errorf("shingle size must be positive")
	}
	if c.LSHBands < 1 || c.LSHRows < 1 || c.NumHashes() > 256 {
		return fmt.Errorf("lsh bands*rows must be between 1 and 256")
	}
	return nil
}
