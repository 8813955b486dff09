package xmltok

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnterminatedTag reports end of input inside a tag.
	ErrUnterminatedTag = fmt.Errorf("unterminated tag: %w", io.ErrUnexpectedEOF)
	// ErrEmptyName reports a tag without an element name, such as <> or </>.
	ErrEmptyName = errors.New("empty element name")
	// ErrTokenTooLarge reports a name or text run longer than MaxTokenSize.
	ErrTokenTooLarge = errors.New("token exceeds MaxTokenSize")

	errNilReader = errors.New("nil XML reader")
)

// SyntaxError reports a structural error with the offset where it was found.
type SyntaxError struct {
	Err    error
	Offset int64
}

// Error formats the syntax error with location and cause.
func (e *SyntaxError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("xml syntax error at offset %d: %v", e.Offset, e.Err)
}

// Unwrap exposes the underlying error.
func (e *SyntaxError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
