package tableindex

import (
	"errors"
	"fmt"

	"github.com/dzjyyds666/tomledit/parse/keypath"
	"github.com/dzjyyds666/tomledit/parse/lexer"
	"github.com/dzjyyds666/tomledit/parse/toml"
)

var ErrMalformedPair = errors.New("malformed key/value pair")

// PairPos locates one `key = value` line of a table body. Key is the full
// path of the pair, the table's key followed by every dotted component.
// Both token ranges are half-open; the value range covers a whole array or
// inline table but never a trailing comment.
type PairPos struct {
	Key        keypath.KeyPath
	KeyStart   int
	KeyEnd     int
	ValueStart int
	ValueEnd   int
}

// FindPairs scans the body of table for key/value pairs in document order.
func FindPairs(tokens []lexer.Token, table TablePos) ([]PairPos, error) {
	end := min(table.End, len(tokens))
	skip := func(i int) int {
		for i < end && !tokens[i].Significant() {
			i++
		}
		return i
	}

	var res []PairPos
	i := skip(table.Start)
	for i < end {
		pair := PairPos{Key: table.Key, KeyStart: i}
		for {
			t := tokens[i]
			if !t.IsKey() {
				return nil, fmt.Errorf("%w: expected key, found %q", ErrMalformedPair, t.Text)
			}
			name, err := toml.Unquote(t)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedPair, err)
			}
			pair.Key = pair.Key.AppendKey(name)
			pair.KeyEnd = i + 1
			i = skip(i + 1)
			if i < end && tokens[i].IsPunct(".") {
				i = skip(i + 1)
				if i < end {
					continue
				}
			}
			break
		}
		if i >= end || !tokens[i].IsPunct("=") {
			return nil, fmt.Errorf("%w: missing '=' after %q", ErrMalformedPair, pair.Key.String())
		}
		i = skip(i + 1)
		if i >= end {
			return nil, fmt.Errorf("%w: missing value for %q", ErrMalformedPair, pair.Key.String())
		}

		pair.ValueStart = i
		depth := 0
		for i < end {
			t := tokens[i]
			switch {
			case t.IsPunct("[") || t.IsPunct("{"):
				depth++
			case t.IsPunct("]") || t.IsPunct("}"):
				depth--
			}
			i++
			if depth <= 0 {
				break
			}
		}
		pair.ValueEnd = i
		res = append(res, pair)
		i = skip(i)
	}
	return res, nil
}
