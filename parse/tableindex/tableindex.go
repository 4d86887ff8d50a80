// Package tableindex partitions a token stream into table bodies, each
// labelled with the fully indexed key path of its table.
package tableindex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dzjyyds666/tomledit/parse/keypath"
	"github.com/dzjyyds666/tomledit/parse/lexer"
)

var ErrTableNotFound = errors.New("table not found")

// TablePos is the half-open token range [Start, End) of one table body: the
// tokens after its header up to the next header or the end of the stream.
// Header is the index of the header's opening bracket; for the root table,
// which has no header, it equals Start. Bodies alone leave gaps where the
// headers are: entries chain as End == next.Header, not End == next.Start.
type TablePos struct {
	Key    keypath.KeyPath
	Header int
	Start  int
	End    int
}

// indexer carries the state of one FindTables call. The array-of-tables
// counters only make sense for a single document's header order and are
// dropped when the call returns.
type indexer struct {
	tokens []lexer.Token
	arrays map[string]uint
}

// FindTables returns the table bodies of tokens in document order. The
// result always starts with the root table at 0 and ends at len(tokens).
// Each entry ends where the next one's header begins, so headers and bodies
// together cover every token.
func FindTables(tokens []lexer.Token) ([]TablePos, error) {
	ix := &indexer{tokens: tokens, arrays: make(map[string]uint)}

	var res []TablePos
	cur := TablePos{Key: keypath.Root}
	var prev lexer.Token
	arrayDepth := 0
	pos := 0
	for pos < len(tokens) {
		tok := tokens[pos]
		if !tok.Significant() {
			pos++
			continue
		}
		if !tok.IsPunct("[") || prev.IsPunct("=") || arrayDepth > 0 {
			switch {
			case tok.IsPunct("["):
				arrayDepth++
			case tok.IsPunct("]") && arrayDepth > 0:
				arrayDepth--
			}
			prev = tok
			pos++
			continue
		}

		key, bodyStart, err := ix.readHeader(pos)
		if err != nil {
			return nil, err
		}
		cur.End = pos
		res = append(res, cur)
		cur = TablePos{Key: key, Header: pos, Start: bodyStart}
		prev = tokens[bodyStart-1]
		pos = bodyStart
	}
	cur.End = len(tokens)
	return append(res, cur), nil
}

// FindTable returns the first table whose key equals key.
func FindTable(tokens []lexer.Token, key keypath.KeyPath) (TablePos, error) {
	tables, err := FindTables(tokens)
	if err != nil {
		return TablePos{}, err
	}
	for _, t := range tables {
		if t.Key.Equal(key) {
			return t, nil
		}
	}
	return TablePos{}, fmt.Errorf("%w: %q", ErrTableNotFound, key.String())
}

// readHeader reads the `[name]` or `[[name]]` header opening at pos and
// returns its resolved key and the index of the first body token.
func (ix *indexer) readHeader(pos int) (keypath.KeyPath, int, error) {
	tokens := ix.tokens
	i := pos + 1
	isArray := i < len(tokens) && tokens[i].IsPunct("[")
	if isArray {
		i++
	}
	var name strings.Builder
	for i < len(tokens) && !tokens[i].IsPunct("]") {
		name.WriteString(tokens[i].Text)
		i++
	}
	bodyStart := i
	if i < len(tokens) {
		bodyStart = i + 1
		if isArray && bodyStart < len(tokens) && tokens[bodyStart].IsPunct("]") {
			bodyStart++
		}
	}

	parsed, err := keypath.Parse(name.String())
	if err != nil {
		return keypath.Root, 0, fmt.Errorf("table header %q: %w", name.String(), err)
	}
	if parsed.IsRoot() {
		return keypath.Root, 0, fmt.Errorf("table header: %w: empty name", keypath.ErrInvalidKeyPathSyntax)
	}
	return ix.resolve(parsed, isArray), bodyStart, nil
}

// resolve attributes every array-of-tables ancestor to its latest element,
// and numbers the header itself when it opens a new array element.
func (ix *indexer) resolve(name keypath.KeyPath, isArray bool) keypath.KeyPath {
	comps := name.Components()
	res := keypath.Root
	for i, c := range comps {
		res = res.Append(c)
		if i == len(comps)-1 {
			break
		}
		if n, ok := ix.arrays[res.Hash()]; ok {
			res = res.AppendIndex(n - 1)
		}
	}
	if !isArray {
		return res
	}
	h := res.Hash()
	ix.arrays[h]++
	return res.AppendIndex(ix.arrays[h] - 1)
}
