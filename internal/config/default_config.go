package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pelletier/go-toml/v2"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/constants"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds all values used to render the default config template.
// All values come from the constants package.
type DefaultConfigValues struct {
	Mode                    string
	ExactThreshold          float64
	NearMissThreshold       float64
	MaxDurationMs           int
	MaxNodes                int
	MinLines                int
	MinTokens               int
	MinBasicBlockStatements int
	ShingleSize             int
	LSHBands                int
	LSHRows                 int
}

func newDefaultConfigValues() DefaultConfigValues {
	return DefaultConfigValues{
		Mode:                    string(domain.ModeNearMiss),
		ExactThreshold:          constants.DefaultExactSimilarityThreshold,
		NearMissThreshold:       constants.DefaultNearMissSimilarityThreshold,
		MaxDurationMs:           constants.DefaultMaxDurationMs,
		MaxNodes:                constants.DefaultMaxNodes,
		MinLines:                constants.DefaultMinLines,
		MinTokens:               constants.DefaultMinTokens,
		MinBasicBlockStatements: constants.DefaultMinBasicBlockStatements,
		ShingleSize:             constants.DefaultShingleSize,
		LSHBands:                constants.DefaultLSHBands,
		LSHRows:                 constants.DefaultLSHRows,
	}
}

// GenerateDefaultConfigTOML renders the commented default configuration
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}
	return buf.String(), nil
}

// ParseTOML decodes a TOML document over the defaults
func ParseTOML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewConfigError("failed to parse TOML config", err)
	}
	return cfg, nil
}

// WriteDefaultConfig writes the commented default configuration to path.
// An existing file is only replaced when force is set.
func WriteDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return domain.NewConfigError(fmt.Sprintf("%s already exists (use --force to overwrite)", path), nil)
	}
	content, err := GenerateDefaultConfigTOML()
	if err != nil {
		return domain.NewConfigError("failed to generate default config", err)
	}
	return writeFile(path, []byte(content))
}

// SaveTOML writes a configuration as TOML
func SaveTOML(cfg *Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return domain.NewConfigError("failed to encode config", err)
	}
	header := []byte("# Syntaxy configuration\n\n")
	return writeFile(path, append(header, data...))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.NewConfigError("failed to create config directory", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.NewConfigError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
