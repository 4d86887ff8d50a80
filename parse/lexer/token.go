package lexer

import "strings"

// Kind classifies a token. Every byte of a document belongs to exactly one token.
type Kind uint8

const (
	Punctuation Kind = iota
	Whitespace
	Newline
	Comment
	BareKey
	BasicString
	LiteralString
	MultilineBasicString
	MultilineLiteralString
	Integer
	Float
	Boolean
	Datetime
)

var kindNames = [...]string{
	Punctuation:            "punctuation",
	Whitespace:             "whitespace",
	Newline:                "newline",
	Comment:                "comment",
	BareKey:                "bare_key",
	BasicString:            "basic_string",
	LiteralString:          "literal_string",
	MultilineBasicString:   "multiline_basic_string",
	MultilineLiteralString: "multiline_literal_string",
	Integer:                "integer",
	Float:                  "float",
	Boolean:                "boolean",
	Datetime:               "datetime",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Token is a classified slice of the source text.
type Token struct {
	Kind Kind
	Text string
}

// Significant reports whether the token takes part in structural parsing.
// Whitespace, newlines and comments are kept in the stream but never inspected.
func (t Token) Significant() bool {
	switch t.Kind {
	case Whitespace, Newline, Comment:
		return false
	}
	return true
}

// IsPunct reports whether t is the punctuation token text.
func (t Token) IsPunct(text string) bool {
	return t.Kind == Punctuation && t.Text == text
}

// IsKey reports whether t can name a key component.
func (t Token) IsKey() bool {
	switch t.Kind {
	case BareKey, BasicString, LiteralString:
		return true
	}
	return false
}

// Join flattens tokens back into text. For a tokenized document this is the
// exact original input.
func Join(tokens []Token) string {
	n := 0
	for _, t := range tokens {
		n += len(t.Text)
	}
	var b strings.Builder
	b.Grow(n)
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// IsBareKeyChar reports whether c may appear in an unquoted key.
func IsBareKeyChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

// IsBare reports whether s can be written as a bare key.
func IsBare(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsBareKeyChar(s[i]) {
			return false
		}
	}
	return true
}
