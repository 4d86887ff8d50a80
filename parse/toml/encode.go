package toml

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	btoml "github.com/BurntSushi/toml"

	"github.com/dzjyyds666/tomledit/parse/lexer"
)

// =========================
// Serialization
// =========================

// Format renders n as inline TOML text: scalars in canonical form, arrays as
// `[a, b]` and tables as `{ k = v }` with sorted keys.
func Format(n Node) (string, error) {
	switch v := n.(type) {
	case *Value:
		return formatValue(v)
	case *Array:
		body, err := joinNodes(v.Elems, ", ", Format)
		if err != nil {
			return "", err
		}
		return "[" + body + "]", nil
	case *Table:
		if len(v.Items) == 0 {
			return "{}", nil
		}
		pairs := make([]string, 0, len(v.Items))
		for _, k := range sortedKeys(v) {
			s, err := Format(v.Items[k])
			if err != nil {
				return "", err
			}
			pairs = append(pairs, FormatKey(k)+" = "+s)
		}
		return "{ " + strings.Join(pairs, ", ") + " }", nil
	case nil:
		return "", fmt.Errorf("%w: nil node", ErrUnsupportedValue)
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, n)
}

func formatValue(v *Value) (string, error) {
	switch v.Type {
	case tomlValueKinds.ValueLocalDate, tomlValueKinds.ValueLocalTime, tomlValueKinds.ValueLocalDatetime:
		t, ok := v.V.(time.Time)
		if !ok {
			return "", fmt.Errorf("%w: %s holds %T", ErrUnsupportedValue, v.Type, v.V)
		}
		switch v.Type {
		case tomlValueKinds.ValueLocalDate:
			return t.Format(localDateLayout), nil
		case tomlValueKinds.ValueLocalTime:
			return t.Format(localTimeFormat), nil
		}
		return t.Format(localDatetimeFormat), nil
	}
	// A leading sign keeps inf and nan in the lexer's number run.
	if f, ok := v.V.(float64); ok {
		switch {
		case math.IsInf(f, 1):
			return "+inf", nil
		case math.IsInf(f, -1):
			return "-inf", nil
		case math.IsNaN(f):
			return "+nan", nil
		}
	}
	return encodeScalar(v.V)
}

// encodeScalar lets the BurntSushi encoder write `v = <value>` and keeps the
// value part.
func encodeScalar(v any) (string, error) {
	var buf bytes.Buffer
	if err := btoml.NewEncoder(&buf).Encode(map[string]any{"v": v}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	if !strings.HasPrefix(out, "v = ") {
		return "", fmt.Errorf("%w: %T is not a scalar", ErrUnsupportedValue, v)
	}
	return strings.TrimPrefix(out, "v = "), nil
}

// Quote returns s as a quoted and escaped basic string.
func Quote(s string) string {
	out, err := encodeScalar(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return out
}

// FormatKey writes a key bare when it can, quoted otherwise.
func FormatKey(k string) string {
	if lexer.IsBare(k) {
		return k
	}
	return Quote(k)
}

// TokenKind is the kind of the single token Format output is carried in.
// Arrays and inline tables have no token kind of their own and travel as
// Punctuation until the document is tokenized again.
func TokenKind(n Node) lexer.Kind {
	switch n.Kind() {
	case tomlValueKinds.ValueString:
		return lexer.BasicString
	case tomlValueKinds.ValueInt:
		return lexer.Integer
	case tomlValueKinds.ValueFloat:
		return lexer.Float
	case tomlValueKinds.ValueBool:
		return lexer.Boolean
	case tomlValueKinds.ValueDatetime, tomlValueKinds.ValueLocalDate,
		tomlValueKinds.ValueLocalTime, tomlValueKinds.ValueLocalDatetime:
		return lexer.Datetime
	}
	return lexer.Punctuation
}

// =========================
// User Input
// =========================

// ParseInput turns command line text into a value of the requested type.
// "auto" reads the text as a TOML value and falls back to a plain string.
func ParseInput(kind, text string) (Node, error) {
	switch kind {
	case "", "auto":
		tokens, err := lexer.Tokenize("v = " + text)
		if err == nil && len(tokens) > 3 {
			if n, err := DecodeTokens(tokens[3:]); err == nil {
				return n, nil
			}
		}
		return String(text), nil
	case "string":
		return String(text), nil
	case "int":
		i, err := parseIntToken(text)
		if err != nil {
			return nil, fmt.Errorf("%w: int %q", ErrUnsupportedValue, text)
		}
		return Int(i), nil
	case "float":
		f, err := parseFloatToken(text)
		if err != nil {
			return nil, fmt.Errorf("%w: float %q", ErrUnsupportedValue, text)
		}
		return Float(f), nil
	case "bool":
		switch text {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return nil, fmt.Errorf("%w: bool %q", ErrUnsupportedValue, text)
	case "datetime":
		if v, ok := parseDatetime(text); ok {
			return v, nil
		}
		return nil, fmt.Errorf("%w: datetime %q", ErrUnsupportedValue, text)
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrUnsupportedValue, kind)
}
