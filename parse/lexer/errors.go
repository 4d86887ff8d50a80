package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnbalancedBracket   = errors.New("unbalanced bracket")
	ErrUnterminatedString  = errors.New("unterminated string")
)

// SyntaxError reports where tokenizing stopped. Err is one of the package
// sentinels, so callers can match with errors.Is.
type SyntaxError struct {
	Err    error
	Offset int
	Line   int
	Column int
	Char   rune
}

func (e *SyntaxError) Error() string {
	if errors.Is(e.Err, ErrUnexpectedCharacter) {
		return fmt.Sprintf("toml:%d:%d: %s %q", e.Line, e.Column, e.Err, e.Char)
	}
	return fmt.Sprintf("toml:%d:%d: %s", e.Line, e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func newSyntaxError(src string, offset int, err error) *SyntaxError {
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - strings.LastIndexByte(before, '\n')
	e := &SyntaxError{Err: err, Offset: offset, Line: line, Column: col}
	if offset < len(src) {
		e.Char, _ = utf8.DecodeRuneInString(src[offset:])
	}
	return e
}
