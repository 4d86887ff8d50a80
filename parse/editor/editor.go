// Package editor applies structural edits to a token stream while leaving
// every token it does not touch exactly as it was.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dzjyyds666/tomledit/parse/keypath"
	"github.com/dzjyyds666/tomledit/parse/lexer"
	"github.com/dzjyyds666/tomledit/parse/tableindex"
	"github.com/dzjyyds666/tomledit/parse/toml"
)

var (
	ErrTableNotFound = tableindex.ErrTableNotFound
	ErrNotAKey       = errors.New("key path does not end in a key")
	ErrKeyNotFound   = errors.New("key not found")
)

// MakeKeyToken returns the token a key is written as: bare when every byte
// is in [A-Za-z0-9_-], a basic string otherwise.
func MakeKeyToken(key string) lexer.Token {
	if lexer.IsBare(key) {
		return lexer.Token{Kind: lexer.BareKey, Text: key}
	}
	return lexer.Token{Kind: lexer.BasicString, Text: toml.Quote(key)}
}

// InsertKV adds `name = value` to the table that owns key, where name is the
// last component of key. The returned slice is new; tokens is not modified.
func InsertKV(tokens []lexer.Token, key keypath.KeyPath, value toml.Node) ([]lexer.Token, error) {
	text, err := toml.Format(value)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", key.String(), err)
	}
	return InsertRaw(tokens, key, lexer.Token{Kind: toml.TokenKind(value), Text: text})
}

// InsertRaw is InsertKV for a value that is already serialized. The pair
// goes right after the last token of the owning table body that is not a
// space or a newline, so trailing comments stay above it and blank lines
// before the next header stay below it.
func InsertRaw(tokens []lexer.Token, key keypath.KeyPath, value lexer.Token) ([]lexer.Token, error) {
	last, ok := key.Last()
	if !ok || last.IsIndex() {
		return nil, fmt.Errorf("insert %q: %w", key.String(), ErrNotAKey)
	}
	parent, _ := key.Parent()
	table, err := tableindex.FindTable(tokens, parent)
	if err != nil {
		return nil, err
	}

	pos := table.End
	for pos > table.Start && isBlank(tokens[pos-1]) {
		pos--
	}

	nl := lexer.Token{Kind: lexer.Newline, Text: newlineOf(tokens)}
	pair := []lexer.Token{
		MakeKeyToken(last.Name()),
		{Kind: lexer.Whitespace, Text: " "},
		{Kind: lexer.Punctuation, Text: "="},
		{Kind: lexer.Whitespace, Text: " "},
		value,
	}
	// At the very top of a non-empty document there is no line to end, so
	// the newline goes after the pair instead of before it.
	if pos == 0 && len(tokens) > 0 {
		pair = append(pair, nl)
	} else {
		pair = append([]lexer.Token{nl}, pair...)
	}

	out := make([]lexer.Token, 0, len(tokens)+len(pair))
	out = append(out, tokens[:pos]...)
	out = append(out, pair...)
	out = append(out, tokens[pos:]...)
	return out, nil
}

// Get decodes the value stored at key. The key may point at a pair or into
// the array or inline table a pair holds.
func Get(tokens []lexer.Token, key keypath.KeyPath) (toml.Node, error) {
	if key.IsRoot() {
		return nil, fmt.Errorf("get: %w", ErrNotAKey)
	}
	tables, err := tableindex.FindTables(tokens)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if !key.HasPrefix(t.Key) {
			continue
		}
		pairs, err := tableindex.FindPairs(tokens, t)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			if !key.HasPrefix(p.Key) {
				continue
			}
			n, err := toml.DecodeTokens(tokens[p.ValueStart:p.ValueEnd])
			if err != nil {
				return nil, fmt.Errorf("get %s: %w", p.Key.String(), err)
			}
			return descend(n, key.Components()[p.Key.Len():], key)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key.String())
}

func descend(n toml.Node, rest []keypath.Component, key keypath.KeyPath) (toml.Node, error) {
	for _, c := range rest {
		switch v := n.(type) {
		case *toml.Array:
			if !c.IsIndex() || int(c.Index()) >= len(v.Elems) {
				return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key.String())
			}
			n = v.Elems[c.Index()]
		case *toml.Table:
			child, ok := toml.Get(v, c.Name())
			if c.IsIndex() || !ok {
				return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key.String())
			}
			n = child
		default:
			return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key.String())
		}
	}
	return n, nil
}

func isBlank(t lexer.Token) bool {
	return t.Kind == lexer.Whitespace || t.Kind == lexer.Newline
}

// newlineOf follows the document's first line ending.
func newlineOf(tokens []lexer.Token) string {
	for _, t := range tokens {
		if t.Kind == lexer.Newline {
			if strings.HasPrefix(t.Text, "\r\n") {
				return "\r\n"
			}
			return "\n"
		}
	}
	return "\n"
}
