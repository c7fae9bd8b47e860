package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/analyzer"
	"github.com/Gabzxcv/Syntaxy-FL/internal/constants"
)

// EnvPrefix prefixes environment overrides, e.g. SYNTAXY_ANALYSIS_MODE
const EnvPrefix = "SYNTAXY"

// ConfigFileNames are searched, in order, from the working directory upwards
var ConfigFileNames = []string{".syntaxy.toml", ".syntaxy.yaml", ".syntaxy.yml"}

// Config represents the main configuration structure
type Config struct {
	// Analysis holds the detection pipeline settings
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis" toml:"analysis"`

	// Batch holds multi-file analysis settings
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" toml:"batch"`

	// Cache holds result memoization settings
	Cache CacheConfig `mapstructure:"cache" yaml:"cache" toml:"cache"`

	// Store holds report persistence settings
	Store StoreConfig `mapstructure:"store" yaml:"store" toml:"store"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" toml:"output"`

	// Logging holds logger settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" toml:"logging"`
}

// AnalysisConfig holds configuration for clone detection and metrics
type AnalysisConfig struct {
	// Mode is the default normalization policy: exact or near_miss
	Mode string `mapstructure:"mode" yaml:"mode" toml:"mode"`

	// SimilarityThreshold overrides the mode default when > 0
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" yaml:"similarity_threshold" toml:"similarity_threshold"`

	// Budgets
	MaxDurationMs int64 `mapstructure:"max_duration_ms" yaml:"max_duration_ms" toml:"max_duration_ms"`
	MaxNodes      int   `mapstructure:"max_nodes" yaml:"max_nodes" toml:"max_nodes"`

	// Fragment filters
	MinLines                int `mapstructure:"min_lines" yaml:"min_lines" toml:"min_lines"`
	MinTokens               int `mapstructure:"min_tokens" yaml:"min_tokens" toml:"min_tokens"`
	MinBasicBlockStatements int `mapstructure:"min_basic_block_statements" yaml:"min_basic_block_statements" toml:"min_basic_block_statements"`

	// MinHash / LSH
	ShingleSize int `mapstructure:"shingle_size" yaml:"shingle_size" toml:"shingle_size"`
	LSHBands    int `mapstructure:"lsh_bands" yaml:"lsh_bands" toml:"lsh_bands"`
	LSHRows     int `mapstructure:"lsh_rows" yaml:"lsh_rows" toml:"lsh_rows"`
}

// BatchConfig holds configuration for analyzing many files
type BatchConfig struct {
	// Workers bounds concurrent analyses; 0 uses the number of CPUs
	Workers int `mapstructure:"workers" yaml:"workers" toml:"workers"`

	// IncludePatterns are doublestar globs of files to analyze
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" toml:"include_patterns"`

	// ExcludePatterns are doublestar globs of files to skip
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`

	// MaxFileSizeKB skips larger files; 0 means no limit
	MaxFileSizeKB int `mapstructure:"max_file_size_kb" yaml:"max_file_size_kb" toml:"max_file_size_kb"`
}

// CacheConfig holds configuration for the in-process result cache
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
	Size    int  `mapstructure:"size" yaml:"size" toml:"size"`
}

// StoreConfig holds configuration for the report store
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path" toml:"path"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `mapstructure:"format" yaml:"format" toml:"format"`

	// ShowSnippets controls whether text output prints clone snippets
	ShowSnippets bool `mapstructure:"show_snippets" yaml:"show_snippets" toml:"show_snippets"`

	// NoColor disables colored text output
	NoColor bool `mapstructure:"no_color" yaml:"no_color" toml:"no_color"`
}

// LoggingConfig holds configuration for the logger
type LoggingConfig struct {
	// Level is a logrus level name
	Level string `mapstructure:"level" yaml:"level" toml:"level"`

	// Format is text or json
	Format string `mapstructure:"format" yaml:"format" toml:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Mode:                    string(domain.ModeNearMiss),
			SimilarityThreshold:     0,
			MaxDurationMs:           constants.DefaultMaxDurationMs,
			MaxNodes:                constants.DefaultMaxNodes,
			MinLines:                constants.DefaultMinLines,
			MinTokens:               constants.DefaultMinTokens,
			MinBasicBlockStatements: constants.DefaultMinBasicBlockStatements,
			ShingleSize:             constants.DefaultShingleSize,
			LSHBands:                constants.DefaultLSHBands,
			LSHRows:                 constants.DefaultLSHRows,
		},
		Batch: BatchConfig{
			Workers:         0,
			IncludePatterns: []string{"**/*.py", "**/*.java", "**/*.js", "**/*.go"},
			ExcludePatterns: []string{"**/node_modules/**", "**/.git/**", "**/vendor/**"},
			MaxFileSizeKB:   512,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    256,
		},
		Store: StoreConfig{
			Enabled: false,
			Path:    ".syntaxy/reports.db",
		},
		Output: OutputConfig{
			Format:       string(domain.OutputFormatText),
			ShowSnippets: false,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// flagKeys maps command-line flags to configuration keys
var flagKeys = map[string]string{
	"mode":       "analysis.mode",
	"threshold":  "analysis.similarity_threshold",
	"timeout-ms": "analysis.max_duration_ms",
	"format":     "output.format",
	"snippets":   "output.show_snippets",
	"no-color":   "output.no_color",
	"workers":    "batch.workers",
	"include":    "batch.include_patterns",
	"exclude":    "batch.exclude_patterns",
	"store":      "store.path",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

// LoadConfig loads configuration from a file, the environment and flags.
// An empty configPath searches for a config file from the working directory
// upwards; without one the defaults apply. Changed flags win over the
// environment, which wins over the file.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		if wd, err := os.Getwd(); err == nil {
			configPath = FindConfigFile(wd)
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", configPath), err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, domain.NewConfigError("failed to bind flag "+name, err)
				}
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewConfigError("failed to unmarshal config", err)
	}
	if err := config.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}
	return config, nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("analysis.mode", c.Analysis.Mode)
	v.SetDefault("analysis.similarity_threshold", c.Analysis.SimilarityThreshold)
	v.SetDefault("analysis.max_duration_ms", c.Analysis.MaxDurationMs)
	v.SetDefault("analysis.max_nodes", c.Analysis.MaxNodes)
	v.SetDefault("analysis.min_lines", c.Analysis.MinLines)
	v.SetDefault("analysis.min_tokens", c.Analysis.MinTokens)
	v.SetDefault("analysis.min_basic_block_statements", c.Analysis.MinBasicBlockStatements)
	v.SetDefault("analysis.shingle_size", c.Analysis.ShingleSize)
	v.SetDefault("analysis.lsh_bands", c.Analysis.LSHBands)
	v.SetDefault("analysis.lsh_rows", c.Analysis.LSHRows)

	v.SetDefault("batch.workers", c.Batch.Workers)
	v.SetDefault("batch.include_patterns", c.Batch.IncludePatterns)
	v.SetDefault("batch.exclude_patterns", c.Batch.ExcludePatterns)
	v.SetDefault("batch.max_file_size_kb", c.Batch.MaxFileSizeKB)

	v.SetDefault("cache.enabled", c.Cache.Enabled)
	v.SetDefault("cache.size", c.Cache.Size)

	v.SetDefault("store.enabled", c.Store.Enabled)
	v.SetDefault("store.path", c.Store.Path)

	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("output.show_snippets", c.Output.ShowSnippets)
	v.SetDefault("output.no_color", c.Output.NoColor)

	v.SetDefault("logging.level", c.Logging.Level)
	v.SetDefault("logging.format", c.Logging.Format)
}

// FindConfigFile walks up from startDir looking for a config file
func FindConfigFile(startDir string) string {
	dir := startDir
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if err := c.Analysis.Validate(); err != nil {
		return err
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must be >= 0, got %d", c.Batch.Workers)
	}
	if c.Batch.MaxFileSizeKB < 0 {
		return fmt.Errorf("batch.max_file_size_kb must be >= 0, got %d", c.Batch.MaxFileSizeKB)
	}
	if c.Cache.Enabled && c.Cache.Size < 1 {
		return fmt.Errorf("cache.size must be >= 1 when the cache is enabled, got %d", c.Cache.Size)
	}
	if c.Store.Enabled && strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required when the store is enabled")
	}
	if _, err := domain.ParseOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// Validate validates the analysis section
func (a *AnalysisConfig) Validate() error {
	if _, err := domain.ParseMode(a.Mode); err != nil {
		return fmt.Errorf("analysis.mode: %w", err)
	}
	if a.MaxDurationMs <= 0 {
		return fmt.Errorf("analysis.max_duration_ms must be > 0, got %d", a.MaxDurationMs)
	}
	if a.MaxNodes <= 0 {
		return fmt.Errorf("analysis.max_nodes must be > 0, got %d", a.MaxNodes)
	}
	if err := a.Detector().Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

// Detector converts the analysis section to a detector configuration
func (a *AnalysisConfig) Detector() *analyzer.Config {
	mode, err := domain.ParseMode(a.Mode)
	if err != nil {
		mode = domain.ModeNearMiss
	}
	return &analyzer.Config{
		Mode:                    mode,
		SimilarityThreshold:     a.SimilarityThreshold,
		MinLines:                a.MinLines,
		MinTokens:               a.MinTokens,
		MinBasicBlockStatements: a.MinBasicBlockStatements,
		ShingleSize:             a.ShingleSize,
		LSHBands:                a.LSHBands,
		LSHRows:                 a.LSHRows,
	}
}

// WorkerCount returns the effective number of batch workers
func (b *BatchConfig) WorkerCount() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return runtime.NumCPU()
}
