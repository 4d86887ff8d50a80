package toml

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// =========================
// Scalar Parsing
// =========================

func trimFirstNewline(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	return strings.TrimPrefix(s, "\n")
}

// trimLineEndingBackslashes drops a backslash at the end of a line together
// with every blank and newline that follows it.
func trimLineEndingBackslashes(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		j := i + 1
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		if j < len(s) && (s[j] == '\n' || s[j] == '\r') {
			for j < len(s) && strings.IndexByte(" \t\r\n", s[j]) >= 0 {
				j++
			}
			i = j - 1
			continue
		}
		b.WriteByte('\\')
		if i+1 < len(s) {
			i++
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func decodeBasicString(s string) (string, error) {
	if !strings.Contains(s, "\\") {
		return s, nil
	}
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' {
			out.WriteByte(ch)
			continue
		}
		if i+1 >= len(s) {
			return "", errors.New("invalid escape")
		}
		i++
		switch s[i] {
		case 'b':
			out.WriteByte('\b')
		case 't':
			out.WriteByte('\t')
		case 'n':
			out.WriteByte('\n')
		case 'f':
			out.WriteByte('\f')
		case 'r':
			out.WriteByte('\r')
		case 'e':
			out.WriteByte(0x1b)
		case '"':
			out.WriteByte('"')
		case '\\':
			out.WriteByte('\\')
		case 'u':
			if i+4 >= len(s) {
				return "", errors.New("invalid unicode escape")
			}
			r, err := parseHexRune(s[i+1 : i+5])
			if err != nil {
				return "", err
			}
			out.WriteRune(r)
			i += 4
		case 'U':
			if i+8 >= len(s) {
				return "", errors.New("invalid unicode escape")
			}
			r, err := parseHexRune(s[i+1 : i+9])
			if err != nil {
				return "", err
			}
			out.WriteRune(r)
			i += 8
		default:
			return "", errors.New("unsupported escape")
		}
	}
	return out.String(), nil
}

func parseHexRune(h string) (rune, error) {
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, err
	}
	return rune(v), nil
}

var (
	localDatetimeLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
	}
	localTimeLayouts = []string{
		"15:04:05",
		"15:04:05.999999999",
	}
)

const (
	localDateLayout     = "2006-01-02"
	localTimeFormat     = "15:04:05.999999999"
	localDatetimeFormat = "2006-01-02T15:04:05.999999999"
)

func parseDatetime(s string) (*Value, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Datetime(t), true
	}
	if t, err := time.Parse(time.RFC3339Nano, strings.ToUpper(s)); err == nil {
		return Datetime(t), true
	}
	for _, l := range localDatetimeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return &Value{Type: tomlValueKinds.ValueLocalDatetime, V: t}, true
		}
	}
	if d, err := time.Parse(localDateLayout, s); err == nil {
		return &Value{Type: tomlValueKinds.ValueLocalDate, V: d}, true
	}
	for _, l := range localTimeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return &Value{Type: tomlValueKinds.ValueLocalTime, V: t}, true
		}
	}
	return nil, false
}

func parseIntToken(s string) (int64, error) {
	s = strings.ReplaceAll(s, "_", "")
	sign := int64(1)
	body := s
	if strings.HasPrefix(body, "-") {
		sign = -1
		body = body[1:]
	} else {
		body = strings.TrimPrefix(body, "+")
	}
	for prefix, base := range map[string]int{"0x": 16, "0o": 8, "0b": 2} {
		if strings.HasPrefix(body, prefix) {
			v, err := strconv.ParseUint(body[2:], base, 63)
			if err != nil {
				return 0, err
			}
			return int64(v) * sign, nil
		}
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseFloatToken(s string) (float64, error) {
	switch s {
	case "inf", "+inf":
		return math.Inf(+1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan", "+nan", "-nan":
		return math.NaN(), nil
	}
	if strings.TrimLeft(s, "0123456789+-._eE") != "" {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}
	}
	s = strings.ReplaceAll(s, "_", "")
	return strconv.ParseFloat(s, 64)
}
