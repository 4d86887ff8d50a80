package toml

// toml 包是编辑器的值模型：把单个 token 解码为带类型的值，把值序列化为规范文本，
// 以及为需要引号的键生成转义后的基本字符串。
//
// 范围：
// - 字符串（基本 / 字面量 / 多行）、整数（含 _ 与 0x/0o/0b）、浮点、布尔、日期时间
// - 数组与内联表的 token 级解码
// - 标量通过 BurntSushi/toml 编码器序列化
//
// 非目标：
// - 文档级解析（由 lexer / tableindex 负责）
// - 语义校验

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dzjyyds666/tomledit/parse/lexer"
)

// =========================
// AST Definitions
// =========================

type ValueKind string

var tomlValueKinds = struct {
	ValueString        ValueKind
	ValueInt           ValueKind
	ValueFloat         ValueKind
	ValueBool          ValueKind
	ValueDatetime      ValueKind
	ValueLocalDate     ValueKind
	ValueLocalTime     ValueKind
	ValueLocalDatetime ValueKind
	ValueTable         ValueKind
	ValueArray         ValueKind
}{
	ValueString:        "string",
	ValueInt:           "int",
	ValueFloat:         "float",
	ValueBool:          "bool",
	ValueDatetime:      "datetime",
	ValueLocalDate:     "local_date",
	ValueLocalTime:     "local_time",
	ValueLocalDatetime: "local_datetime",
	ValueTable:         "table",
	ValueArray:         "array",
}

var ErrUnsupportedValue = errors.New("unsupported value")

type Node interface {
	Kind() ValueKind
	Value() any
}

// -------- Table --------

type Table struct {
	Items map[string]Node
}

func NewTable() *Table {
	return &Table{Items: make(map[string]Node)}
}

func (*Table) Kind() ValueKind { return tomlValueKinds.ValueTable }

func (*Table) Value() any { return nil }

// -------- Array --------

type Array struct {
	Elems []Node
}

func (v *Array) Kind() ValueKind { return tomlValueKinds.ValueArray }

func (v *Array) Value() any { return v.Elems }

// -------- Value --------

type Value struct {
	Type ValueKind
	V    any
}

func (v *Value) Kind() ValueKind { return v.Type }

func (v *Value) Value() any { return v.V }

func String(s string) *Value { return &Value{Type: tomlValueKinds.ValueString, V: s} }

func Int(i int64) *Value { return &Value{Type: tomlValueKinds.ValueInt, V: i} }

func Float(f float64) *Value { return &Value{Type: tomlValueKinds.ValueFloat, V: f} }

func Bool(b bool) *Value { return &Value{Type: tomlValueKinds.ValueBool, V: b} }

func Datetime(t time.Time) *Value { return &Value{Type: tomlValueKinds.ValueDatetime, V: t} }

// =========================
// Token Decoding
// =========================

// DecodeToken decodes a single scalar token.
func DecodeToken(tok lexer.Token) (*Value, error) {
	text := tok.Text
	switch tok.Kind {
	case lexer.BasicString:
		if len(text) < 2 {
			return nil, fmt.Errorf("%w: malformed string %q", ErrUnsupportedValue, text)
		}
		s, err := decodeBasicString(text[1 : len(text)-1])
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case lexer.MultilineBasicString:
		if len(text) < 6 {
			return nil, fmt.Errorf("%w: malformed string %q", ErrUnsupportedValue, text)
		}
		body := trimLineEndingBackslashes(trimFirstNewline(text[3 : len(text)-3]))
		s, err := decodeBasicString(body)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case lexer.LiteralString:
		if len(text) < 2 {
			return nil, fmt.Errorf("%w: malformed string %q", ErrUnsupportedValue, text)
		}
		return String(text[1 : len(text)-1]), nil
	case lexer.MultilineLiteralString:
		if len(text) < 6 {
			return nil, fmt.Errorf("%w: malformed string %q", ErrUnsupportedValue, text)
		}
		return String(trimFirstNewline(text[3 : len(text)-3])), nil
	case lexer.Integer, lexer.Float:
		if i, err := parseIntToken(text); err == nil {
			return Int(i), nil
		}
		f, err := parseFloatToken(text)
		if err == nil {
			return Float(f), nil
		}
		// bare times such as 07:32:00 are lexed as numbers
		if v, ok := parseDatetime(text); ok {
			return v, nil
		}
		return nil, fmt.Errorf("%w: number %q", ErrUnsupportedValue, text)
	case lexer.Boolean:
		switch text {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
	case lexer.Datetime:
		if v, ok := parseDatetime(text); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %q", ErrUnsupportedValue, tok.Kind, text)
}

// Unquote returns the key name a key token stands for.
func Unquote(tok lexer.Token) (string, error) {
	switch tok.Kind {
	case lexer.BareKey:
		return tok.Text, nil
	case lexer.BasicString, lexer.LiteralString, lexer.MultilineBasicString, lexer.MultilineLiteralString:
		v, err := DecodeToken(tok)
		if err != nil {
			return "", err
		}
		return v.V.(string), nil
	}
	return "", fmt.Errorf("%w: %s %q is not a key", ErrUnsupportedValue, tok.Kind, tok.Text)
}

// DecodeTokens decodes the tokens of one value, which may be an array or an
// inline table. Whitespace, newlines and comments are skipped.
func DecodeTokens(tokens []lexer.Token) (Node, error) {
	r := &valueReader{}
	for _, t := range tokens {
		if t.Significant() {
			r.toks = append(r.toks, t)
		}
	}
	n, err := r.value()
	if err != nil {
		return nil, err
	}
	if r.pos != len(r.toks) {
		return nil, fmt.Errorf("%w: unexpected %q after value", ErrUnsupportedValue, r.toks[r.pos].Text)
	}
	return n, nil
}

type valueReader struct {
	toks []lexer.Token
	pos  int
}

func (r *valueReader) next() (lexer.Token, bool) {
	if r.pos >= len(r.toks) {
		return lexer.Token{}, false
	}
	t := r.toks[r.pos]
	r.pos++
	return t, true
}

func (r *valueReader) accept(punct string) bool {
	if r.pos < len(r.toks) && r.toks[r.pos].IsPunct(punct) {
		r.pos++
		return true
	}
	return false
}

func (r *valueReader) value() (Node, error) {
	t, ok := r.next()
	if !ok {
		return nil, fmt.Errorf("%w: missing value", ErrUnsupportedValue)
	}
	switch {
	case t.IsPunct("["):
		return r.array()
	case t.IsPunct("{"):
		return r.inlineTable()
	}
	return DecodeToken(t)
}

func (r *valueReader) array() (Node, error) {
	arr := &Array{Elems: make([]Node, 0)}
	for {
		if r.accept("]") {
			return arr, nil
		}
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, v)
		if r.accept(",") {
			continue
		}
		if r.accept("]") {
			return arr, nil
		}
		return nil, fmt.Errorf("%w: unterminated array", ErrUnsupportedValue)
	}
}

func (r *valueReader) inlineTable() (Node, error) {
	t := NewTable()
	if r.accept("}") {
		return t, nil
	}
	for {
		parts, err := r.key()
		if err != nil {
			return nil, err
		}
		if !r.accept("=") {
			return nil, fmt.Errorf("%w: invalid inline table kv", ErrUnsupportedValue)
		}
		v, err := r.value()
		if err != nil {
			return nil, err
		}
		if err := insertDotted(t, parts, v); err != nil {
			return nil, err
		}
		if r.accept(",") {
			continue
		}
		if r.accept("}") {
			return t, nil
		}
		return nil, fmt.Errorf("%w: unterminated inline table", ErrUnsupportedValue)
	}
}

func (r *valueReader) key() ([]string, error) {
	var parts []string
	for {
		t, ok := r.next()
		if !ok || !t.IsKey() {
			return nil, fmt.Errorf("%w: expected key", ErrUnsupportedValue)
		}
		name, err := Unquote(t)
		if err != nil {
			return nil, err
		}
		parts = append(parts, name)
		if !r.accept(".") {
			return parts, nil
		}
	}
}

func insertDotted(t *Table, parts []string, v Node) error {
	cur := t
	for _, part := range parts[:len(parts)-1] {
		n, ok := cur.Items[part]
		if !ok {
			next := NewTable()
			cur.Items[part] = next
			cur = next
			continue
		}
		if n.Kind() != tomlValueKinds.ValueTable {
			return fmt.Errorf("key %q already defined and is not a table", part)
		}
		cur = n.(*Table)
	}
	last := parts[len(parts)-1]
	if _, exists := cur.Items[last]; exists {
		return fmt.Errorf("duplicate key %q", last)
	}
	cur.Items[last] = v
	return nil
}

// =========================
// Safe Access Helpers
// =========================

func Get(root *Table, path ...string) (Node, bool) {
	var cur Node = root
	for _, p := range path {
		t, ok := cur.(*Table)
		if !ok {
			return nil, false
		}
		cur, ok = t.Items[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func toUntyped(n Node) any {
	switch v := n.(type) {
	case *Value:
		return v.V
	case *Array:
		out := make([]any, len(v.Elems))
		for i := range v.Elems {
			out[i] = toUntyped(v.Elems[i])
		}
		return out
	case *Table:
		m := make(map[string]any, len(v.Items))
		for k, child := range v.Items {
			m[k] = toUntyped(child)
		}
		return m
	default:
		return nil
	}
}

func sortedKeys(t *Table) []string {
	keys := make([]string, 0, len(t.Items))
	for k := range t.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinNodes(elems []Node, sep string, format func(Node) (string, error)) (string, error) {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		s, err := format(e)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep), nil
}
