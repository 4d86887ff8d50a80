// Package lexer splits TOML text into a lossless token stream.
//
// Unlike a parser that throws formatting away, every space, newline and
// comment becomes a token of its own, so concatenating the token texts
// always yields the input byte for byte.
package lexer

import (
	"strings"

	"github.com/emirpasic/gods/v2/stacks/arraystack"
)

// =========================
// Document Mode
// =========================

// scanState is the cursor threaded through one Tokenize call. Whether a bare
// run is a key or a value depends on it, so nothing is kept between calls.
type scanState struct {
	src      string
	pos      int
	inValue  bool
	brackets *arraystack.Stack[byte]
	tokens   []Token
}

// Tokenize converts src into tokens covering every byte exactly once.
func Tokenize(src string) ([]Token, error) {
	s := &scanState{
		src:      src,
		brackets: arraystack.New[byte](),
	}
	for s.pos < len(s.src) {
		if err := s.next(); err != nil {
			return nil, err
		}
	}
	return s.tokens, nil
}

func (s *scanState) next() error {
	c := s.src[s.pos]
	switch {
	case c == ' ' || c == '\t':
		s.emit(Whitespace, s.while(isSpace))
	case c == '\n' || c == '\r':
		if s.brackets.Empty() {
			s.inValue = false
		}
		s.emit(Newline, s.while(isNewline))
	case c == '#':
		s.emit(Comment, s.until(isNewline))
	case c == '[' || c == '{':
		s.brackets.Push(c)
		s.emit(Punctuation, s.pos+1)
	case c == ']' || c == '}':
		open, ok := s.brackets.Pop()
		if !ok || open != matching(c) {
			return newSyntaxError(s.src, s.pos, ErrUnbalancedBracket)
		}
		s.emit(Punctuation, s.pos+1)
	case c == '=':
		s.inValue = true
		s.emit(Punctuation, s.pos+1)
	case c == '.' || c == ',':
		s.emit(Punctuation, s.pos+1)
	case c == '+':
		s.emitNumber()
	case isDigit(c) || c == '-':
		if s.keyContext() {
			s.emit(BareKey, s.while(IsBareKeyChar))
		} else {
			s.emitNumber()
		}
	case c == 't' || c == 'f':
		if s.keyContext() {
			s.emit(BareKey, s.while(IsBareKeyChar))
		} else {
			s.emit(Boolean, s.until(isValueEnd))
		}
	case isLetter(c) || c == '_':
		if !s.keyContext() {
			return newSyntaxError(s.src, s.pos, ErrUnexpectedCharacter)
		}
		s.emit(BareKey, s.while(IsBareKeyChar))
	case c == '\'':
		return s.emitString('\'', LiteralString, MultilineLiteralString)
	case c == '"':
		return s.emitString('"', BasicString, MultilineBasicString)
	default:
		return newSyntaxError(s.src, s.pos, ErrUnexpectedCharacter)
	}
	return nil
}

func (s *scanState) emit(kind Kind, end int) {
	s.tokens = append(s.tokens, Token{Kind: kind, Text: s.src[s.pos:end]})
	s.pos = end
}

// keyContext reports whether a bare run at the cursor names a key. Outside a
// value everything is a key; inside an inline table a key follows `{`, `,`
// or the `.` of a dotted key.
func (s *scanState) keyContext() bool {
	if !s.inValue {
		return true
	}
	if top, ok := s.brackets.Peek(); !ok || top != '{' {
		return false
	}
	for i := len(s.tokens) - 1; i >= 0; i-- {
		t := s.tokens[i]
		if t.Kind == Whitespace {
			continue
		}
		return t.IsPunct("{") || t.IsPunct(",") || t.IsPunct(".")
	}
	return false
}

// emitNumber reads a number or datetime run and classifies it:
// an exponent marks a float, an inner '-' a datetime, a '.' a float.
func (s *scanState) emitNumber() {
	end := s.until(isValueEnd)
	text := s.src[s.pos:end]
	kind := Integer
	switch {
	case strings.ContainsAny(text, "eE"):
		kind = Float
	case strings.Contains(text[1:], "-"):
		kind = Datetime
	case strings.Contains(text, "."):
		kind = Float
	}
	s.emit(kind, end)
}

// emitString reads a quoted string. A run of three quotes opens the
// multiline form, which may end with up to two extra quotes of content.
func (s *scanState) emitString(quote byte, single, multi Kind) error {
	end, kind, ok := scanString(s.src, s.pos, quote, single, multi)
	if !ok {
		return newSyntaxError(s.src, s.pos, ErrUnterminatedString)
	}
	s.emit(kind, end)
	return nil
}

func scanString(src string, start int, quote byte, single, multi Kind) (int, Kind, bool) {
	delim := strings.Repeat(string(quote), 3)
	kind, open := single, 1
	if strings.HasPrefix(src[start:], delim) {
		kind, open = multi, 3
	}
	escaped := false
	for i := start + open; i < len(src); i++ {
		c := src[i]
		if quote == '"' && c == '\\' {
			escaped = !escaped
			continue
		}
		if c != quote {
			escaped = false
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		if kind == single {
			return i + 1, kind, true
		}
		if strings.HasPrefix(src[i:], delim) {
			end := i + 3
			for extra := 0; extra < 2 && end < len(src) && src[end] == quote; extra++ {
				end++
			}
			return end, kind, true
		}
	}
	return 0, kind, false
}

func (s *scanState) while(pred func(byte) bool) int {
	i := s.pos
	for i < len(s.src) && pred(s.src[i]) {
		i++
	}
	return i
}

func (s *scanState) until(pred func(byte) bool) int {
	i := s.pos
	for i < len(s.src) && !pred(s.src[i]) {
		i++
	}
	return i
}

// =========================
// Character Classes
// =========================

func matching(c byte) byte {
	if c == ']' {
		return '['
	}
	return '{'
}

func isSpace(c byte) bool   { return c == ' ' || c == '\t' }
func isNewline(c byte) bool { return c == '\n' || c == '\r' }
func isDigit(c byte) bool   { return c >= '0' && c <= '9' }
func isLetter(c byte) bool  { return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' }

// isValueEnd terminates number, datetime and boolean runs. Besides blanks and
// comments, the closers of arrays and inline tables end a run so that
// `[1,2]` keeps its brackets balanced.
func isValueEnd(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '#', ',', ']', '}':
		return true
	}
	return false
}
