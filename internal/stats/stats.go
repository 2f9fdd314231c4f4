// Package stats aggregates per-file statistics for one invocation and
// renders the closing summary on the diagnostic stream.
package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/promptpack/promptpack/internal/tokenizer"
)

const (
	topFileCount        = 20
	rootDirectoryBucket = "(root)"
)

// fileEntry keeps the per-file numbers in insertion order.
type fileEntry struct {
	path   string
	tokens int
	lines  int
}

// Collector accumulates statistics while files stream past. It is owned by
// a single invocation and never shared.
type Collector struct {
	counter        tokenizer.Counter
	entries        []fileEntry
	totalLines     int
	filesProcessed int
	filesIgnored   int
}

// NewCollector returns a collector counting tokens with counter.
func NewCollector(counter tokenizer.Counter) *Collector {
	return &Collector{counter: counter}
}

// AddFile records one successfully emitted file.
func (collector *Collector) AddFile(path string, content string) {
	lineCount := strings.Count(content, "\n") + 1
	collector.entries = append(collector.entries, fileEntry{
		path:   path,
		tokens: collector.counter.CountString(content),
		lines:  lineCount,
	})
	collector.totalLines += lineCount
	collector.filesProcessed++
}

// IncrementIgnored records one skipped file.
func (collector *Collector) IncrementIgnored() {
	collector.filesIgnored++
}

// FilesProcessed reports how many files were recorded.
func (collector *Collector) FilesProcessed() int {
	return collector.filesProcessed
}

// FilesIgnored reports how many files were skipped.
func (collector *Collector) FilesIgnored() int {
	return collector.filesIgnored
}

// TotalTokens sums token counts across recorded files.
func (collector *Collector) TotalTokens() int {
	total := 0
	for _, entry := range collector.entries {
		total += entry.tokens
	}
	return total
}

// TopFiles returns up to limit files ordered by token count descending,
// with ties broken by path for deterministic output.
func (collector *Collector) TopFiles(limit int) []fileEntry {
	ranked := append([]fileEntry{}, collector.entries...)
	sort.SliceStable(ranked, func(left, right int) bool {
		if ranked[left].tokens != ranked[right].tokens {
			return ranked[left].tokens > ranked[right].tokens
		}
		return ranked[left].path < ranked[right].path
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// directoryTotal pairs a first-level directory with its token total.
type directoryTotal struct {
	name   string
	tokens int
}

// DirectorySummary aggregates token counts by first-level directory, with a
// root bucket for files that have no directory component.
func (collector *Collector) DirectorySummary() []directoryTotal {
	totals := map[string]int{}
	for _, entry := range collector.entries {
		segments := strings.Split(entry.path, "/")
		bucket := rootDirectoryBucket
		if len(segments) > 1 {
			bucket = segments[0]
		}
		totals[bucket] += entry.tokens
	}

	summary := make([]directoryTotal, 0, len(totals))
	for name, tokens := range totals {
		summary = append(summary, directoryTotal{name: name, tokens: tokens})
	}
	sort.Slice(summary, func(left, right int) bool {
		if summary[left].tokens != summary[right].tokens {
			return summary[left].tokens > summary[right].tokens
		}
		return summary[left].name < summary[right].name
	})
	return summary
}

// WriteSummary renders the statistics report. Headings are colored; color
// handling degrades automatically on non-terminal writers.
func (collector *Collector) WriteSummary(writer io.Writer) {
	heading := color.New(color.Bold, color.FgCyan)

	fmt.Fprintln(writer)
	heading.Fprintln(writer, "Summary:")
	heading.Fprintln(writer, "========")
	fmt.Fprintf(writer, "Files processed: %s\n", formatCount(collector.filesProcessed))
	fmt.Fprintf(writer, "Files ignored: %s\n", formatCount(collector.filesIgnored))
	fmt.Fprintf(writer, "Total tokens: %s\n", formatCount(collector.TotalTokens()))
	fmt.Fprintf(writer, "Total lines: %s\n", formatCount(collector.totalLines))

	fmt.Fprintln(writer)
	heading.Fprintf(writer, "Top %d files by token count:\n", topFileCount)
	for _, entry := range collector.TopFiles(topFileCount) {
		fmt.Fprintf(writer, "%8s  %s\n", formatCount(entry.tokens), entry.path)
	}

	fmt.Fprintln(writer)
	heading.Fprintln(writer, "Token count by directory:")
	totalTokens := collector.TotalTokens()
	for _, directory := range collector.DirectorySummary() {
		percentage := 0.0
		if totalTokens > 0 {
			percentage = float64(directory.tokens) / float64(totalTokens) * 100
		}
		fmt.Fprintf(writer, "%-15s %8s tokens (%4.1f%%)\n", directory.name, formatCount(directory.tokens), percentage)
	}
}

// formatCount renders an integer with comma thousands separators.
func formatCount(value int) string {
	digits := fmt.Sprintf("%d", value)
	if value < 0 {
		return "-" + formatCount(-value)
	}
	if len(digits) <= 3 {
		return digits
	}
	var builder strings.Builder
	leading := len(digits) % 3
	if leading > 0 {
		builder.WriteString(digits[:leading])
	}
	for offset := leading; offset < len(digits); offset += 3 {
		if builder.Len() > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(digits[offset : offset+3])
	}
	return builder.String()
}
