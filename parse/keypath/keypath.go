// Package keypath names locations in a TOML document as a flat sequence of
// key and array-index components.
package keypath

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/dzjyyds666/tomledit/parse/lexer"
	"github.com/dzjyyds666/tomledit/parse/toml"
)

var ErrInvalidKeyPathSyntax = errors.New("invalid key path syntax")

// Component is either a key name or an array index.
type Component struct {
	name    string
	index   uint
	isIndex bool
}

func Key(name string) Component { return Component{name: name} }

func Index(i uint) Component { return Component{index: i, isIndex: true} }

func (c Component) IsIndex() bool { return c.isIndex }

func (c Component) Name() string { return c.name }

func (c Component) Index() uint { return c.index }

func (c Component) String() string {
	if c.isIndex {
		return "[" + strconv.FormatUint(uint64(c.index), 10) + "]"
	}
	return "." + toml.FormatKey(c.name)
}

// KeyPath is immutable: every Append returns a new value and never writes
// into a slice another KeyPath can see. The zero value is the root table.
type KeyPath struct {
	parts []Component
}

var Root = KeyPath{}

func New(components ...Component) KeyPath {
	return KeyPath{parts: append([]Component(nil), components...)}
}

func (p KeyPath) Append(c Component) KeyPath {
	parts := make([]Component, len(p.parts), len(p.parts)+1)
	copy(parts, p.parts)
	return KeyPath{parts: append(parts, c)}
}

func (p KeyPath) AppendKey(name string) KeyPath { return p.Append(Key(name)) }

func (p KeyPath) AppendIndex(i uint) KeyPath { return p.Append(Index(i)) }

func (p KeyPath) Len() int { return len(p.parts) }

func (p KeyPath) IsRoot() bool { return len(p.parts) == 0 }

// Components returns a copy of the components, root to leaf.
func (p KeyPath) Components() []Component {
	return append([]Component(nil), p.parts...)
}

func (p KeyPath) Last() (Component, bool) {
	if len(p.parts) == 0 {
		return Component{}, false
	}
	return p.parts[len(p.parts)-1], true
}

// Parent drops the last component. The root has no parent.
func (p KeyPath) Parent() (KeyPath, bool) {
	if len(p.parts) == 0 {
		return Root, false
	}
	return p.prefix(len(p.parts) - 1), true
}

// prefix shares the backing array; the capped capacity makes a later Append
// copy instead of overwriting p's components.
func (p KeyPath) prefix(n int) KeyPath {
	if n == 0 {
		return Root
	}
	return KeyPath{parts: p.parts[:n:n]}
}

// Ancestors yields every strict prefix of p, from the parent down to the root.
// The sequence can be ranged over any number of times.
func (p KeyPath) Ancestors() iter.Seq[KeyPath] {
	return func(yield func(KeyPath) bool) {
		for n := len(p.parts) - 1; n >= 0; n-- {
			if !yield(p.prefix(n)) {
				return
			}
		}
	}
}

// HasPrefix reports whether q is p or one of its ancestors.
func (p KeyPath) HasPrefix(q KeyPath) bool {
	if len(q.parts) > len(p.parts) {
		return false
	}
	return q.Equal(p.prefix(len(q.parts)))
}

func (p KeyPath) Equal(q KeyPath) bool {
	if len(p.parts) != len(q.parts) {
		return false
	}
	for i := range p.parts {
		if p.parts[i] != q.parts[i] {
			return false
		}
	}
	return true
}

// Hash is an unambiguous encoding of the components, usable as a map key.
// Unlike String it tells `a.b` from the single key "a.b".
func (p KeyPath) Hash() string {
	var b strings.Builder
	for _, c := range p.parts {
		if c.isIndex {
			b.WriteByte('i')
			b.WriteString(strconv.FormatUint(uint64(c.index), 10))
			b.WriteByte(';')
			continue
		}
		b.WriteByte('k')
		b.WriteString(strconv.Itoa(len(c.name)))
		b.WriteByte(':')
		b.WriteString(c.name)
	}
	return b.String()
}

// String renders `.name` for keys and `[n]` for indexes; the root renders as
// the empty string, so `foo[2]` below the root is ".foo[2]".
func (p KeyPath) String() string {
	var b strings.Builder
	for _, c := range p.parts {
		b.WriteString(c.String())
	}
	return b.String()
}

// Parse reads a key path literal such as `foo.bar[2]` or `.foo."a b"[0]`.
// A leading dot is optional. Unexpected characters surface as a
// lexer.SyntaxError, a malformed arrangement as ErrInvalidKeyPathSyntax.
func Parse(s string) (KeyPath, error) {
	tokens, err := lexer.TokenizeKeyPath(s)
	if err != nil {
		return Root, err
	}
	var sig []lexer.Token
	for _, t := range tokens {
		if t.Significant() {
			sig = append(sig, t)
		}
	}

	p := Root
	needKey := false
	if len(sig) > 0 && sig[0].IsPunct(".") {
		sig = sig[1:]
		needKey = true
	}
	for i := 0; i < len(sig); i++ {
		t := sig[i]
		switch {
		case t.Kind == lexer.BareKey || t.Kind == lexer.BasicString || t.Kind == lexer.LiteralString:
			if !needKey && !p.IsRoot() {
				return Root, invalid(s, "missing '.' before %q", t.Text)
			}
			name, err := toml.Unquote(t)
			if err != nil {
				return Root, invalid(s, "%v", err)
			}
			p = p.AppendKey(name)
			needKey = false
		case t.IsPunct("."):
			if needKey {
				return Root, invalid(s, "empty key")
			}
			needKey = true
		case t.IsPunct("["):
			if needKey {
				return Root, invalid(s, "index after '.'")
			}
			if i+2 >= len(sig) || sig[i+1].Kind != lexer.Integer || !sig[i+2].IsPunct("]") {
				return Root, invalid(s, "index must be a non-negative integer")
			}
			n, err := strconv.ParseUint(sig[i+1].Text, 10, 0)
			if err != nil {
				return Root, invalid(s, "%v", err)
			}
			p = p.AppendIndex(uint(n))
			i += 2
		default:
			return Root, invalid(s, "unexpected %q", t.Text)
		}
	}
	if needKey {
		return Root, invalid(s, "trailing '.'")
	}
	return p, nil
}

func invalid(s, format string, args ...any) error {
	return fmt.Errorf("%w: %q: %s", ErrInvalidKeyPathSyntax, s, fmt.Sprintf(format, args...))
}
