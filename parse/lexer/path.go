package lexer

// =========================
// Key Path Mode
// =========================

// TokenizeKeyPath tokenizes a key path literal such as `a.b[2]."c d"`.
// `.`, `[` and `]` are punctuation, a digit run inside brackets is an
// Integer and any other bare run is a BareKey. Blanks around separators are
// kept as Whitespace tokens.
func TokenizeKeyPath(src string) ([]Token, error) {
	var tokens []Token
	depth := 0
	pos := 0
	for pos < len(src) {
		c := src[pos]
		end := pos + 1
		kind := Punctuation
		switch {
		case isSpace(c):
			kind = Whitespace
			for end < len(src) && isSpace(src[end]) {
				end++
			}
		case c == '.':
		case c == '[':
			depth++
		case c == ']':
			if depth == 0 {
				return nil, newSyntaxError(src, pos, ErrUnbalancedBracket)
			}
			depth--
		case depth > 0 && isDigit(c):
			kind = Integer
			for end < len(src) && isDigit(src[end]) {
				end++
			}
		case IsBareKeyChar(c):
			kind = BareKey
			for end < len(src) && IsBareKeyChar(src[end]) {
				end++
			}
		case c == '"' || c == '\'':
			single, multi := BasicString, MultilineBasicString
			if c == '\'' {
				single, multi = LiteralString, MultilineLiteralString
			}
			var ok bool
			end, kind, ok = scanString(src, pos, c, single, multi)
			if !ok {
				return nil, newSyntaxError(src, pos, ErrUnterminatedString)
			}
		default:
			return nil, newSyntaxError(src, pos, ErrUnexpectedCharacter)
		}
		tokens = append(tokens, Token{Kind: kind, Text: src[pos:end]})
		pos = end
	}
	if depth != 0 {
		return nil, newSyntaxError(src, len(src), ErrUnbalancedBracket)
	}
	return tokens, nil
}
