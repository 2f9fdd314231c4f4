// Package options merges explicit command-line values with configuration
// defaults into the effective option set controlling one invocation.
package options

import (
	"go.uber.org/zap"

	"github.com/promptpack/promptpack/internal/config"
	"github.com/promptpack/promptpack/internal/types"
)

const sinkConflictNotice = "both clipboard and file output requested; writing to file and skipping clipboard"

// CLIValues carries the raw values parsed from the command line together
// with nothing about configuration files.
type CLIValues struct {
	Extensions      []string
	IgnorePatterns  []string
	IncludeHidden   bool
	IgnoreFilesOnly bool
	IgnoreGitignore bool
	CopyToClipboard bool
	ClaudeXML       bool
	Markdown        bool
	LineNumbers     bool
	Output          string
}

// Options is the fully resolved option set consumed by the walker and the
// emission pipeline.
type Options struct {
	Extensions      []string
	IgnorePatterns  []string
	IncludeHidden   bool
	IgnoreFilesOnly bool
	IgnoreGitignore bool
	CopyToClipboard bool
	ClaudeXML       bool
	Markdown        bool
	LineNumbers     bool
	Output          string
}

// Format returns the output format selected by the option set. XML takes
// precedence when both format flags are active.
func (resolved Options) Format() string {
	switch {
	case resolved.ClaudeXML:
		return types.FormatClaudeXML
	case resolved.Markdown:
		return types.FormatMarkdown
	default:
		return types.FormatPlain
	}
}

// Merge combines CLI values with configuration defaults. The explicit set
// names the options the invoker actually supplied on the command line;
// those win outright for scalar options. Extensions replace the configured
// list when supplied, ignore patterns union with it, and the output path
// falls back to the configured value. The clipboard/file sink conflict is
// resolved in favor of the file with a diagnostic notice.
func Merge(cliValues CLIValues, explicit map[string]bool, defaults config.Defaults, logger *zap.Logger) Options {
	resolved := Options{
		Extensions:      cliValues.Extensions,
		IgnorePatterns:  cliValues.IgnorePatterns,
		IncludeHidden:   resolveBool(cliValues.IncludeHidden, explicit[config.KeyIncludeHidden], defaults.IncludeHidden),
		IgnoreFilesOnly: resolveBool(cliValues.IgnoreFilesOnly, explicit[config.KeyIgnoreFilesOnly], defaults.IgnoreFilesOnly),
		IgnoreGitignore: resolveBool(cliValues.IgnoreGitignore, explicit[config.KeyIgnoreGitignore], defaults.IgnoreGitignore),
		CopyToClipboard: resolveBool(cliValues.CopyToClipboard, explicit[config.KeyCopyToClipboard], defaults.CopyToClipboard),
		ClaudeXML:       resolveBool(cliValues.ClaudeXML, explicit[config.KeyClaudeXML], defaults.ClaudeXML),
		Markdown:        resolveBool(cliValues.Markdown, explicit[config.KeyMarkdown], defaults.Markdown),
		LineNumbers:     resolveBool(cliValues.LineNumbers, explicit[config.KeyLineNumbers], defaults.LineNumbers),
		Output:          cliValues.Output,
	}

	if len(cliValues.Extensions) == 0 {
		resolved.Extensions = defaults.Extensions
	}

	switch {
	case len(cliValues.IgnorePatterns) == 0:
		resolved.IgnorePatterns = defaults.Ignore
	case len(defaults.Ignore) > 0:
		resolved.IgnorePatterns = unionPatterns(cliValues.IgnorePatterns, defaults.Ignore)
	}

	if resolved.Output == "" {
		resolved.Output = defaults.Output
	}

	if resolved.CopyToClipboard && resolved.Output != "" {
		resolved.CopyToClipboard = false
		logger.Info(sinkConflictNotice)
	}

	return resolved
}

// resolveBool applies the scalar precedence chain: explicit CLI value,
// configuration default, built-in false.
func resolveBool(cliValue bool, explicitlySet bool, configured *bool) bool {
	if explicitlySet {
		return cliValue
	}
	if configured != nil {
		return *configured
	}
	return false
}

// unionPatterns combines two pattern lists preserving first-seen order.
func unionPatterns(first []string, second []string) []string {
	seen := make(map[string]struct{})
	combined := make([]string, 0, len(first)+len(second))
	for _, pattern := range append(append([]string{}, first...), second...) {
		if _, exists := seen[pattern]; exists {
			continue
		}
		seen[pattern] = struct{}{}
		combined = append(combined, pattern)
	}
	return combined
}
