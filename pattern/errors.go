package pattern

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ParseError. Use errors.Is to classify a failure.
var (
	ErrSyntax            = errors.New("syntax error")
	ErrWhitespace        = errors.New("whitespace is not allowed")
	ErrEmptyLabel        = errors.New("empty label")
	ErrInvalidRepetition = errors.New("invalid repetition")
	ErrEmptyCharClass    = errors.New("empty character class")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrDuplicateVariable = errors.New("duplicate variable")
	ErrNestingTooDeep    = errors.New("nesting too deep")
	ErrStatementTooLong  = errors.New("statement too long")
)

// ParseError reports where parsing stopped. Offset is the 0-based rune index
// inside the statement; Line is the 1-based source line, or 0 for a standalone
// expression.
type ParseError struct {
	Msg    string
	Line   int
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%v at line %d, position %d: %s", e.Err, e.Line, e.Offset+1, e.Msg)
	}

	return fmt.Sprintf("%v at position %d: %s", e.Err, e.Offset+1, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
