// Package config resolves layered configuration defaults from user-level and
// project-level files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// UserConfigDirectoryName is the directory under the user configuration
	// root holding the user-level file.
	UserConfigDirectoryName = "promptpack"
	// UserConfigFileName is the user-level file inside that directory.
	UserConfigFileName = "config.toml"
	// DotfileName is both the home-directory fallback and the project-level
	// file located by walking up from the working directory.
	DotfileName = ".promptpack.toml"
	// defaultsTableKey is the table inside a config file holding option defaults.
	defaultsTableKey = "defaults"

	configFileType              = "toml"
	malformedConfigWarnFormat   = "Warning: ignoring malformed config file %s: %v"
	undecodableConfigWarnFormat = "Warning: ignoring undecodable config defaults: %v"
)

// Option keys recognized in the defaults table.
const (
	KeyExtensions      = "extensions"
	KeyIgnore          = "ignore"
	KeyIncludeHidden   = "include_hidden"
	KeyIgnoreFilesOnly = "ignore_files_only"
	KeyIgnoreGitignore = "ignore_gitignore"
	KeyCopyToClipboard = "copy_to_clipboard"
	KeyClaudeXML       = "claude_xml"
	KeyMarkdown        = "markdown"
	KeyLineNumbers     = "line_numbers"
	KeyOutput          = "output"
)

// MergeStrategy selects how a key combines across layers.
type MergeStrategy int

const (
	// StrategyOverride keeps the most specific layer's value.
	StrategyOverride MergeStrategy = iota
	// StrategyUnion combines list values from all layers, preserving order
	// and dropping duplicates.
	StrategyUnion
)

// MergePolicies maps every recognized option key to its layering strategy.
// The table is the single authority for cross-layer merge behavior.
var MergePolicies = map[string]MergeStrategy{
	KeyExtensions:      StrategyOverride,
	KeyIgnore:          StrategyUnion,
	KeyIncludeHidden:   StrategyOverride,
	KeyIgnoreFilesOnly: StrategyOverride,
	KeyIgnoreGitignore: StrategyOverride,
	KeyCopyToClipboard: StrategyOverride,
	KeyClaudeXML:       StrategyOverride,
	KeyMarkdown:        StrategyOverride,
	KeyLineNumbers:     StrategyOverride,
	KeyOutput:          StrategyOverride,
}

// Defaults holds the effective configuration-file defaults after layering.
// Pointer booleans distinguish "unset" from an explicit false.
type Defaults struct {
	Extensions      []string `mapstructure:"extensions"`
	Ignore          []string `mapstructure:"ignore"`
	IncludeHidden   *bool    `mapstructure:"include_hidden"`
	IgnoreFilesOnly *bool    `mapstructure:"ignore_files_only"`
	IgnoreGitignore *bool    `mapstructure:"ignore_gitignore"`
	CopyToClipboard *bool    `mapstructure:"copy_to_clipboard"`
	ClaudeXML       *bool    `mapstructure:"claude_xml"`
	Markdown        *bool    `mapstructure:"markdown"`
	LineNumbers     *bool    `mapstructure:"line_numbers"`
	Output          string   `mapstructure:"output"`
}

// Resolve locates and merges the user and project layers into one effective
// default set. When skipConfig is true it returns empty defaults immediately.
// A malformed file is reported as a warning and treated as an empty layer.
func Resolve(skipConfig bool, workingDirectory string, logger *zap.Logger) (Defaults, error) {
	if skipConfig {
		return Defaults{}, nil
	}
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return Defaults{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	merged := map[string]any{}
	if userPath := locateUserConfig(); userPath != "" {
		merged = mergeLayers(merged, loadLayer(userPath, logger))
	}
	if projectPath := locateProjectConfig(workingDirectory); projectPath != "" {
		merged = mergeLayers(merged, loadLayer(projectPath, logger))
	}
	return decodeDefaults(merged, logger), nil
}

// locateUserConfig returns the first existing user-level config file: the
// user configuration directory path, then the home dotfile fallback.
func locateUserConfig() string {
	if configRoot, configDirError := os.UserConfigDir(); configDirError == nil && configRoot != "" {
		candidate := filepath.Join(configRoot, UserConfigDirectoryName, UserConfigFileName)
		if fileExists(candidate) {
			return candidate
		}
	}
	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		candidate := filepath.Join(homeDirectory, DotfileName)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// locateProjectConfig walks upward from workingDirectory through every
// ancestor, including the filesystem root, and returns the nearest config
// file found, or the empty string.
func locateProjectConfig(workingDirectory string) string {
	currentDirectory, absoluteError := filepath.Abs(workingDirectory)
	if absoluteError != nil {
		return ""
	}
	for {
		candidate := filepath.Join(currentDirectory, DotfileName)
		if fileExists(candidate) {
			return candidate
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return ""
		}
		currentDirectory = parentDirectory
	}
}

func fileExists(path string) bool {
	info, statError := os.Stat(path)
	return statError == nil && !info.IsDir()
}

// loadLayer parses one config file and returns its defaults table. Parse
// failures produce a warning and an empty layer so processing continues.
func loadLayer(path string, logger *zap.Logger) map[string]any {
	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType(configFileType)
	if readError := reader.ReadInConfig(); readError != nil {
		logger.Warn(fmt.Sprintf(malformedConfigWarnFormat, path, readError))
		return map[string]any{}
	}
	table := reader.GetStringMap(defaultsTableKey)
	if table == nil {
		return map[string]any{}
	}
	return table
}

// mergeLayers applies overlay on top of base following MergePolicies.
// Unrecognized keys follow override semantics.
func mergeLayers(base map[string]any, overlay map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(overlay))
	for key, value := range base {
		result[key] = value
	}
	for key, overlayValue := range overlay {
		baseValue, present := result[key]
		if present && MergePolicies[key] == StrategyUnion {
			result[key] = unionStringValues(baseValue, overlayValue)
			continue
		}
		result[key] = overlayValue
	}
	return result
}

// unionStringValues combines two list values preserving first-seen order.
func unionStringValues(first any, second any) []string {
	seen := make(map[string]struct{})
	var combined []string
	for _, value := range append(stringSlice(first), stringSlice(second)...) {
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		combined = append(combined, value)
	}
	return combined
}

// stringSlice normalizes a decoded config value into a slice of strings.
func stringSlice(value any) []string {
	switch typedValue := value.(type) {
	case []string:
		return typedValue
	case []any:
		converted := make([]string, 0, len(typedValue))
		for _, element := range typedValue {
			if text, isString := element.(string); isString {
				converted = append(converted, text)
			}
		}
		return converted
	case string:
		if typedValue == "" {
			return nil
		}
		return []string{typedValue}
	default:
		return nil
	}
}

// decodeDefaults converts the merged defaults table into the typed struct.
func decodeDefaults(merged map[string]any, logger *zap.Logger) Defaults {
	decoder := viper.New()
	if mergeError := decoder.MergeConfigMap(merged); mergeError != nil {
		logger.Warn(fmt.Sprintf(undecodableConfigWarnFormat, mergeError))
		return Defaults{}
	}
	var defaults Defaults
	if unmarshalError := decoder.Unmarshal(&defaults); unmarshalError != nil {
		logger.Warn(fmt.Sprintf(undecodableConfigWarnFormat, unmarshalError))
		return Defaults{}
	}
	return defaults
}
