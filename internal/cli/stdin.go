package cli

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const nullSeparatorByte = "\x00"

// readStandardInputPaths collects additional paths piped on standard input.
// An interactive terminal yields nothing, so invoking the tool without a
// pipe never blocks waiting for input. Paths are split on whitespace, or on
// NUL bytes when nullSeparator is set (for "find -print0" style producers).
func readStandardInputPaths(reader io.Reader, nullSeparator bool) []string {
	if inputFile, isFile := reader.(*os.File); isFile {
		descriptor := inputFile.Fd()
		if isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor) {
			return nil
		}
	}

	content, readError := io.ReadAll(reader)
	if readError != nil {
		return nil
	}

	var fields []string
	if nullSeparator {
		fields = strings.Split(string(content), nullSeparatorByte)
	} else {
		fields = strings.Fields(string(content))
	}

	paths := make([]string, 0, len(fields))
	for _, field := range fields {
		trimmed := strings.TrimSpace(field)
		if trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	return paths
}
