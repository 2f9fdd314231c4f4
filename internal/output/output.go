// Package output renders the ordered file sequence into one of the
// supported textual formats.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/promptpack/promptpack/internal/types"
)

// Renderer consumes file records in order and writes the formatted stream.
type Renderer interface {
	RenderFile(record types.FileRecord) error
	Flush() error
}

// NewRenderer returns the renderer for the requested format writing to
// destination.
func NewRenderer(format string, destination io.Writer) (Renderer, error) {
	switch format {
	case types.FormatPlain:
		return &plainRenderer{destination: destination}, nil
	case types.FormatClaudeXML:
		return &claudeXMLRenderer{destination: destination}, nil
	case types.FormatMarkdown:
		return &markdownRenderer{destination: destination}, nil
	default:
		return nil, fmt.Errorf("unsupported output format '%s'", format)
	}
}

type plainRenderer struct {
	destination io.Writer
}

func (renderer *plainRenderer) RenderFile(record types.FileRecord) error {
	_, writeError := fmt.Fprintf(renderer.destination, "%s\n---\n%s\n\n---\n", record.Path, record.Content)
	return writeError
}

func (renderer *plainRenderer) Flush() error {
	return nil
}

// claudeXMLRenderer wraps documents for long-context prompts. The document
// index is renderer state, starting at 1 for each run.
type claudeXMLRenderer struct {
	destination   io.Writer
	documentIndex int
	opened        bool
}

func (renderer *claudeXMLRenderer) RenderFile(record types.FileRecord) error {
	if !renderer.opened {
		if _, writeError := fmt.Fprintln(renderer.destination, "<documents>"); writeError != nil {
			return writeError
		}
		renderer.opened = true
	}
	renderer.documentIndex++
	_, writeError := fmt.Fprintf(renderer.destination,
		"<document index=\"%d\">\n<source>%s</source>\n<document_content>\n%s\n</document_content>\n</document>\n",
		renderer.documentIndex, record.Path, record.Content)
	return writeError
}

func (renderer *claudeXMLRenderer) Flush() error {
	if !renderer.opened {
		if _, writeError := fmt.Fprintln(renderer.destination, "<documents>"); writeError != nil {
			return writeError
		}
		renderer.opened = true
	}
	_, writeError := fmt.Fprintln(renderer.destination, "</documents>")
	return writeError
}

type markdownRenderer struct {
	destination io.Writer
}

func (renderer *markdownRenderer) RenderFile(record types.FileRecord) error {
	fence := "```"
	for strings.Contains(record.Content, fence) {
		fence += "`"
	}
	_, writeError := fmt.Fprintf(renderer.destination, "%s\n%s%s\n%s\n%s\n",
		record.Path, fence, languageForPath(record.Path), record.Content, fence)
	return writeError
}

func (renderer *markdownRenderer) Flush() error {
	return nil
}

// extensionLanguages maps filename extensions to fenced-block languages.
var extensionLanguages = map[string]string{
	"py":   "python",
	"c":    "c",
	"cpp":  "cpp",
	"java": "java",
	"js":   "javascript",
	"ts":   "typescript",
	"html": "html",
	"css":  "css",
	"xml":  "xml",
	"json": "json",
	"yaml": "yaml",
	"yml":  "yaml",
	"sh":   "bash",
	"rb":   "ruby",
}

func languageForPath(path string) string {
	extension := path
	if dotIndex := strings.LastIndex(path, "."); dotIndex >= 0 {
		extension = path[dotIndex+1:]
	}
	return extensionLanguages[extension]
}

// AddLineNumbers prefixes every line of content with a right-aligned line
// number and a two-space gap. The transformation is applied once, before any
// renderer sees the content, so all formats number identically.
func AddLineNumbers(content string) string {
	if content == "" {
		return ""
	}
	trimmed := strings.TrimSuffix(content, "\n")
	lines := strings.Split(trimmed, "\n")
	width := len(fmt.Sprintf("%d", len(lines)))

	var builder strings.Builder
	for lineIndex, line := range lines {
		if lineIndex > 0 {
			builder.WriteByte('\n')
		}
		fmt.Fprintf(&builder, "%*d  %s", width, lineIndex+1, line)
	}
	return builder.String()
}
