// Package walker performs the depth-first traversal that selects, orders,
// and reads the files emitted to the rendering pipeline.
package walker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/promptpack/promptpack/internal/ignore"
	"github.com/promptpack/promptpack/internal/match"
	"github.com/promptpack/promptpack/internal/options"
	"github.com/promptpack/promptpack/internal/types"
)

// ErrNotText marks files whose bytes cannot be decoded as text.
var ErrNotText = errors.New("content is not valid text")

const errorPathMissingFormat = "path does not exist: %s"

// VisitFunc receives each successfully read file in emission order.
type VisitFunc func(record types.FileRecord) error

// SkipFunc is notified about files skipped by a local, recoverable failure.
type SkipFunc func(path string, reason error)

// Walker traverses root arguments with the resolved option set. The ignore
// rule set is owned by one walker and only ever grows: patterns loaded while
// descending stay active for every subtree visited afterwards, mirroring
// cumulative ignore-file inheritance.
type Walker struct {
	resolved options.Options
	rules    *ignore.RuleSet
	visit    VisitFunc
	skip     SkipFunc
}

// New constructs a walker for one invocation. The explicit ignore patterns
// from the option set are evaluated separately from ignore-file rules, so
// they are not preloaded into the rule set.
func New(resolved options.Options, visit VisitFunc, skip SkipFunc) *Walker {
	if skip == nil {
		skip = func(string, error) {}
	}
	return &Walker{
		resolved: resolved,
		rules:    ignore.NewRuleSet(),
		visit:    visit,
		skip:     skip,
	}
}

// Walk processes the root arguments in order. A root that does not exist is
// a fatal usage error; decode failures inside the tree are reported through
// the skip callback and traversal continues.
func (walker *Walker) Walk(roots []string) error {
	for _, root := range roots {
		info, statError := os.Stat(root)
		if statError != nil {
			if os.IsNotExist(statError) {
				return fmt.Errorf(errorPathMissingFormat, root)
			}
			return fmt.Errorf("stat %s: %w", root, statError)
		}
		if !walker.resolved.IgnoreGitignore {
			if loadError := walker.rules.LoadDirectory(filepath.Dir(root)); loadError != nil {
				return loadError
			}
		}
		if info.IsDir() {
			if walkError := walker.walkDirectory(root); walkError != nil {
				return walkError
			}
			continue
		}
		if emitError := walker.emitFile(root); emitError != nil {
			return emitError
		}
	}
	return nil
}

// walkDirectory applies the filtering steps to one directory level and then
// recurses into the surviving subdirectories, pre-order.
func (walker *Walker) walkDirectory(directoryPath string) error {
	entries, readDirError := os.ReadDir(directoryPath)
	if readDirError != nil {
		return fmt.Errorf("reading directory %s: %w", directoryPath, readDirError)
	}

	var subdirectories []string
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirectories = append(subdirectories, entry.Name())
			continue
		}
		files = append(files, entry.Name())
	}

	if !walker.resolved.IncludeHidden {
		subdirectories = filterNames(subdirectories, isVisible)
		files = filterNames(files, isVisible)
	}

	if !walker.resolved.IgnoreGitignore {
		if loadError := walker.rules.LoadDirectory(directoryPath); loadError != nil {
			return loadError
		}
		subdirectories = filterNames(subdirectories, func(name string) bool {
			return !walker.rules.IsIgnored(name, true)
		})
		files = filterNames(files, func(name string) bool {
			return !walker.rules.IsIgnored(name, false)
		})
	}

	if len(walker.resolved.IgnorePatterns) > 0 {
		if !walker.resolved.IgnoreFilesOnly {
			subdirectories = filterNames(subdirectories, func(name string) bool {
				return !matchesAny(name, walker.resolved.IgnorePatterns)
			})
		}
		files = filterNames(files, func(name string) bool {
			return !matchesAny(name, walker.resolved.IgnorePatterns)
		})
	}

	if len(walker.resolved.Extensions) > 0 {
		files = filterNames(files, func(name string) bool {
			return hasAllowedSuffix(name, walker.resolved.Extensions)
		})
	}

	sort.Strings(files)
	for _, fileName := range files {
		if emitError := walker.emitFile(filepath.Join(directoryPath, fileName)); emitError != nil {
			return emitError
		}
	}

	for _, subdirectoryName := range subdirectories {
		if walkError := walker.walkDirectory(filepath.Join(directoryPath, subdirectoryName)); walkError != nil {
			return walkError
		}
	}
	return nil
}

// emitFile reads and decodes one file, yielding a record or a skip notice.
func (walker *Walker) emitFile(filePath string) error {
	content, readError := readTextFile(filePath)
	if readError != nil {
		walker.skip(filePath, readError)
		return nil
	}
	return walker.visit(types.FileRecord{
		Path:    filepath.ToSlash(filePath),
		Content: content,
	})
}

func isVisible(name string) bool {
	return !strings.HasPrefix(name, types.HiddenNamePrefix)
}

func filterNames(names []string, keep func(string) bool) []string {
	filtered := names[:0]
	for _, name := range names {
		if keep(name) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if match.Name(name, pattern) {
			return true
		}
	}
	return false
}

// hasAllowedSuffix applies the extension filter with plain suffix semantics
// on the raw values supplied, matching the historical behavior.
func hasAllowedSuffix(name string, extensions []string) bool {
	for _, extension := range extensions {
		if strings.HasSuffix(name, extension) {
			return true
		}
	}
	return false
}
