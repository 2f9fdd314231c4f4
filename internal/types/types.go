// Package types defines the cross-package data structures used by the promptpack CLI.
package types

const (
	// FormatPlain renders each file as a path header followed by its content.
	FormatPlain = "plain"
	// FormatClaudeXML renders files inside a <documents> wrapper for long-context prompts.
	FormatClaudeXML = "cxml"
	// FormatMarkdown renders files as fenced code blocks.
	FormatMarkdown = "markdown"
)

// HiddenNamePrefix marks file and directory names that are excluded unless
// hidden entries are explicitly included.
const HiddenNamePrefix = "."

// FileRecord is one successfully read file handed from the walker to a renderer.
// Path is relative to the invocation's working directory with forward-slash
// separators; Content is the decoded text.
type FileRecord struct {
	Path    string
	Content string
}
