package feed

import (
	"errors"
	"fmt"
)

// Errors used by the package.
var (
	ErrInvalidRecord          = errors.New("invalid record")
	ErrInvalidField           = errors.New("invalid field")
	ErrUnknownSymbol          = errors.New("unknown symbol")
	ErrUnknownInstructionType = errors.New("unknown instruction type")
)

// ParseError describes a record which could not be parsed.
type ParseError struct {
	Line int // 1-based line number in the stream
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
