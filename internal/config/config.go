// Package config loads YAML configuration for the refit CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-docxrefit/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// maxConfigSize caps a config file at 1 MiB.
const maxConfigSize = 1 << 20

// Config holds all configuration for a refit run.
type Config struct {
	Input        InputConfig        `yaml:"input"`
	Output       OutputConfig       `yaml:"output"`
	Template     string             `yaml:"template"` // path; "" = built-in default
	PageSetup    PageSetupConfig    `yaml:"pageSetup"`
	HeaderFooter HeaderFooterConfig `yaml:"headerFooter"`
	StyleMap     map[string]string  `yaml:"styleMap"`
	FindReplace  []ReplaceRule      `yaml:"findReplace"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output dir or .zip path (empty = alongside input)
}

// PageSetupConfig defines page geometry applied to every section.
type PageSetupConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Orientation string        `yaml:"orientation"` // "portrait", "landscape", "" = keep
	Margins     MarginsConfig `yaml:"margins"`
}

// MarginsConfig holds page margins in millimetres.
// A zero side keeps the template's margin for that side.
type MarginsConfig struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// HeaderFooterConfig defines header/footer text options.
type HeaderFooterConfig struct {
	Enabled     bool   `yaml:"enabled"`
	HeaderText  string `yaml:"headerText"`
	FooterText  string `yaml:"footerText"`
	PageNumbers bool   `yaml:"pageNumbers"`
}

// ReplaceRule defines one regex find/replace rule.
type ReplaceRule struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

// DefaultConfig returns a neutral configuration with all features disabled.
func DefaultConfig() *Config {
	return &Config{
		Input:        InputConfig{DefaultDir: ""},
		Output:       OutputConfig{DefaultDir: ""},
		Template:     "",
		PageSetup:    PageSetupConfig{Enabled: false},
		HeaderFooter: HeaderFooterConfig{Enabled: false},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrConfigParse, configPath, maxConfigSize)
	}

	// Strict mode: a typo in a config key fails loudly instead of being
	// silently ignored.
	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/docxrefit/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "docxrefit", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
