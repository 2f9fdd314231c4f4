// Package ignore accumulates glob exclusion rules sourced from per-directory
// ignore files and explicit options, and answers whether an entry is ignored.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/promptpack/promptpack/internal/match"
)

const (
	// FileName is the per-directory ignore file consumed during traversal.
	FileName = ".gitignore"
	// commentPrefix marks lines skipped when reading an ignore file.
	commentPrefix = "#"
)

// Pattern is one glob rule together with the directory whose ignore file
// contributed it. Explicit CLI rules carry an empty Source.
type Pattern struct {
	Glob   string
	Source string
}

// RuleSet is an ordered, append-only collection of ignore patterns. Patterns
// loaded while traversal descends stay active for the remainder of the run.
type RuleSet struct {
	patterns []Pattern
}

// NewRuleSet returns an empty rule set.
func NewRuleSet() *RuleSet {
	return &RuleSet{}
}

// Append adds patterns attributed to sourceDirectory, preserving order.
func (ruleSet *RuleSet) Append(sourceDirectory string, globs []string) {
	for _, glob := range globs {
		ruleSet.patterns = append(ruleSet.patterns, Pattern{Glob: glob, Source: sourceDirectory})
	}
}

// Len reports how many patterns have accumulated.
func (ruleSet *RuleSet) Len() int {
	return len(ruleSet.patterns)
}

// Patterns returns the accumulated globs in insertion order.
func (ruleSet *RuleSet) Patterns() []string {
	globs := make([]string, 0, len(ruleSet.patterns))
	for _, pattern := range ruleSet.patterns {
		globs = append(globs, pattern.Glob)
	}
	return globs
}

// IsIgnored reports whether an entry with the given basename is excluded.
// Directories additionally match trailing-slash rules such as "build/".
func (ruleSet *RuleSet) IsIgnored(basename string, isDirectory bool) bool {
	for _, pattern := range ruleSet.patterns {
		if isDirectory {
			if match.DirectoryName(basename, pattern.Glob) {
				return true
			}
			continue
		}
		if match.Name(basename, pattern.Glob) {
			return true
		}
	}
	return false
}

// LoadDirectory reads the ignore file inside directoryPath and appends its
// patterns to the rule set. A missing file is not an error. Blank lines and
// comment lines are skipped.
func (ruleSet *RuleSet) LoadDirectory(directoryPath string) error {
	globs, readError := ReadFilePatterns(filepath.Join(directoryPath, FileName))
	if readError != nil {
		return readError
	}
	ruleSet.Append(directoryPath, globs)
	return nil
}

// ReadFilePatterns parses an ignore file into its glob lines. A missing file
// yields no patterns and no error.
func ReadFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openError := os.Open(ignoreFilePath)
	if openError != nil {
		if os.IsNotExist(openError) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", ignoreFilePath, openError)
	}
	defer fileHandle.Close()

	var globs []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		globs = append(globs, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("reading %s: %w", ignoreFilePath, scanError)
	}
	return globs, nil
}
