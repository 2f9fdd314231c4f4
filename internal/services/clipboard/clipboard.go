// Package clipboard provides access to the system clipboard as an optional
// capability detected at startup.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable reports that no clipboard mechanism exists on this system.
var ErrUnavailable = errors.New("clipboard support is unavailable; install xclip or xsel, or use --output instead")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Available() bool
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs the clipboard service.
func NewService() *Service {
	return &Service{}
}

// Available reports whether a clipboard mechanism was detected.
func (service *Service) Available() bool {
	return !clipboard.Unsupported
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
