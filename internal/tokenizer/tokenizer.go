// Package tokenizer estimates token counts for file content.
package tokenizer

import (
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// encodingName is the tiktoken encoding used for counting (GPT-3.5/4).
	encodingName = "cl100k_base"
	// approximateCounterName labels the character-based fallback.
	approximateCounterName = "approximate"
	// approximateCharactersPerToken is the fallback ratio of characters to tokens.
	approximateCharactersPerToken = 4
)

// Counter estimates token counts for text content. Implementations never
// fail once constructed.
type Counter interface {
	Name() string
	CountString(content string) int
}

// NewCounter returns the cl100k_base encoder when it can be initialized and
// the character-count approximation otherwise, so counting always works
// offline.
func NewCounter() Counter {
	encoding, encodingError := tiktoken.GetEncoding(encodingName)
	if encodingError != nil || encoding == nil {
		return approximateCounter{}
	}
	return encodingCounter{encoding: encoding}
}

// NewApproximateCounter returns the character-based fallback counter.
func NewApproximateCounter() Counter {
	return approximateCounter{}
}

type encodingCounter struct {
	encoding *tiktoken.Tiktoken
}

func (counter encodingCounter) Name() string {
	return encodingName
}

func (counter encodingCounter) CountString(content string) int {
	return len(counter.encoding.Encode(content, nil, nil))
}

type approximateCounter struct{}

func (counter approximateCounter) Name() string {
	return approximateCounterName
}

func (counter approximateCounter) CountString(content string) int {
	return utf8.RuneCountInString(content) / approximateCharactersPerToken
}

var (
	_ Counter = encodingCounter{}
	_ Counter = approximateCounter{}
)
