package walker

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"
)

// readTextFile reads a file and decodes it as text. Invalid UTF-8 or
// embedded NUL bytes are treated as a decode failure wrapping ErrNotText.
func readTextFile(filePath string) (string, error) {
	data, readError := os.ReadFile(filePath)
	if readError != nil {
		return "", fmt.Errorf("reading %s: %w", filePath, readError)
	}
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return "", fmt.Errorf("%s: %w", filePath, ErrNotText)
	}
	return string(data), nil
}
