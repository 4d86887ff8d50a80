package toml

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/dzjyyds666/tomledit/parse/lexer"
)

// decodeValue tokenizes `v = <src>` and decodes everything after the `=`.
func decodeValue(src string) (Node, error) {
	tokens, err := lexer.Tokenize("v = " + src)
	if err != nil {
		return nil, err
	}
	return DecodeTokens(tokens[3:])
}

func TestInlineTable(t *testing.T) {
	convey.Convey("inline table", t, func() {
		n, err := decodeValue(`{ name = "Tom", dob = 1979-05-27T07:32:00Z, addr.city = 'Oslo' }`)
		convey.So(err, convey.ShouldBeNil)
		tbl := n.(*Table)
		name, ok := Get(tbl, "name")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(name.Value(), convey.ShouldEqual, "Tom")
		city, ok := Get(tbl, "addr", "city")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(city.Value(), convey.ShouldEqual, "Oslo")
		dob, _ := Get(tbl, "dob")
		convey.So(dob.Kind(), convey.ShouldEqual, tomlValueKinds.ValueDatetime)
		convey.So(dob.Value().(time.Time).Year(), convey.ShouldEqual, 1979)
	})

	convey.Convey("duplicate inline keys are rejected", t, func() {
		_, err := decodeValue(`{ a = 1, a = 2 }`)
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestMultilineStrings(t *testing.T) {
	convey.Convey("multiline basic string", t, func() {
		v, err := DecodeToken(lexer.Token{Kind: lexer.MultilineBasicString, Text: "\"\"\"\nfirst\nsecond\nthird\"\"\""})
		convey.So(err, convey.ShouldBeNil)
		convey.So(v.V, convey.ShouldEqual, "first\nsecond\nthird")
	})

	convey.Convey("line ending backslash", t, func() {
		v, err := DecodeToken(lexer.Token{Kind: lexer.MultilineBasicString, Text: "\"\"\"The quick \\\n   brown fox\"\"\""})
		convey.So(err, convey.ShouldBeNil)
		convey.So(v.V, convey.ShouldEqual, "The quick brown fox")
	})

	convey.Convey("multiline literal keeps backslashes", t, func() {
		v, err := DecodeToken(lexer.Token{Kind: lexer.MultilineLiteralString, Text: "'''\nC:\\path\\'''"})
		convey.So(err, convey.ShouldBeNil)
		convey.So(v.V, convey.ShouldEqual, `C:\path\`)
	})
}

func TestBasicStringEscapes(t *testing.T) {
	convey.Convey("escapes are decoded", t, func() {
		v, err := DecodeToken(lexer.Token{Kind: lexer.BasicString, Text: `"tab\there \"q\" \u00e9 \U0001F600"`})
		convey.So(err, convey.ShouldBeNil)
		convey.So(v.V, convey.ShouldEqual, "tab\there \"q\" é 😀")
	})

	convey.Convey("unknown escape fails", t, func() {
		_, err := DecodeToken(lexer.Token{Kind: lexer.BasicString, Text: `"\q"`})
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestSpecialFloatsAndInts(t *testing.T) {
	convey.Convey("floats and ints with underscores and bases", t, func() {
		cases := []struct {
			tok  lexer.Token
			want any
		}{
			{lexer.Token{Kind: lexer.Integer, Text: "1_000"}, int64(1000)},
			{lexer.Token{Kind: lexer.Integer, Text: "+42"}, int64(42)},
			{lexer.Token{Kind: lexer.Integer, Text: "0xDEADBEEF"}, int64(0xDEADBEEF)},
			{lexer.Token{Kind: lexer.Float, Text: "0xdead_beef"}, int64(0xDEADBEEF)},
			{lexer.Token{Kind: lexer.Integer, Text: "0o755"}, int64(0755)},
			{lexer.Token{Kind: lexer.Integer, Text: "0b1010"}, int64(10)},
			{lexer.Token{Kind: lexer.Float, Text: "6.626e-34"}, 6.626e-34},
			{lexer.Token{Kind: lexer.Float, Text: "3.14"}, 3.14},
			{lexer.Token{Kind: lexer.Integer, Text: "-inf"}, math.Inf(-1)},
		}
		for _, c := range cases {
			v, err := DecodeToken(c.tok)
			convey.So(err, convey.ShouldBeNil)
			convey.So(v.V, convey.ShouldEqual, c.want)
		}

		v, err := DecodeToken(lexer.Token{Kind: lexer.Integer, Text: "07:32:00"})
		convey.So(err, convey.ShouldBeNil)
		convey.So(v.Kind(), convey.ShouldEqual, tomlValueKinds.ValueLocalTime)

		v, err = DecodeToken(lexer.Token{Kind: lexer.Integer, Text: "+inf"})
		convey.So(err, convey.ShouldBeNil)
		convey.So(math.IsInf(v.V.(float64), 1), convey.ShouldBeTrue)
	})

	convey.Convey("bad numbers fail", t, func() {
		_, err := DecodeToken(lexer.Token{Kind: lexer.Integer, Text: "12abc"})
		convey.So(errors.Is(err, ErrUnsupportedValue), convey.ShouldBeTrue)

		for _, text := range []string{"+Inf", "Infinity", "+Infinity", "NaN", "-NaN", "INF"} {
			_, err := DecodeToken(lexer.Token{Kind: lexer.Integer, Text: text})
			convey.So(errors.Is(err, ErrUnsupportedValue), convey.ShouldBeTrue)
		}
		_, err = ParseInput("float", "Inf")
		convey.So(errors.Is(err, ErrUnsupportedValue), convey.ShouldBeTrue)
	})
}

func TestDatetimes(t *testing.T) {
	convey.Convey("datetime variants", t, func() {
		cases := []struct {
			text string
			kind ValueKind
		}{
			{"1979-05-27T07:32:00Z", tomlValueKinds.ValueDatetime},
			{"1979-05-27T00:32:00.999999-07:00", tomlValueKinds.ValueDatetime},
			{"1979-05-27t07:32:00z", tomlValueKinds.ValueDatetime},
			{"1979-05-27T07:32:00", tomlValueKinds.ValueLocalDatetime},
			{"1979-05-27", tomlValueKinds.ValueLocalDate},
		}
		for _, c := range cases {
			v, err := DecodeToken(lexer.Token{Kind: lexer.Datetime, Text: c.text})
			convey.So(err, convey.ShouldBeNil)
			convey.So(v.Kind(), convey.ShouldEqual, c.kind)
		}
	})
}

func TestMultilineArrayAndTrailingComma(t *testing.T) {
	convey.Convey("multiline array with trailing comma", t, func() {
		n, err := decodeValue("[\n  8001, # first\n  8002,\n]")
		convey.So(err, convey.ShouldBeNil)
		arr := toUntyped(n).([]any)
		convey.So(len(arr), convey.ShouldEqual, 2)
		convey.So(arr[0], convey.ShouldEqual, int64(8001))
		convey.So(arr[1], convey.ShouldEqual, int64(8002))
	})

	convey.Convey("nested arrays", t, func() {
		n, err := decodeValue(`[ ["delta", "phi"], [3.14] ]`)
		convey.So(err, convey.ShouldBeNil)
		convey.So(toUntyped(n), convey.ShouldResemble, []any{[]any{"delta", "phi"}, []any{3.14}})
	})

	convey.Convey("unterminated array fails", t, func() {
		_, err := DecodeTokens([]lexer.Token{{Kind: lexer.Punctuation, Text: "["}, {Kind: lexer.Integer, Text: "1"}})
		convey.So(errors.Is(err, ErrUnsupportedValue), convey.ShouldBeTrue)
	})
}

func TestFormat(t *testing.T) {
	convey.Convey("canonical text", t, func() {
		cases := []struct {
			node Node
			want string
		}{
			{Int(3), "3"},
			{Int(-12), "-12"},
			{Float(1.5), "1.5"},
			{Float(math.Inf(1)), "+inf"},
			{Float(math.Inf(-1)), "-inf"},
			{Float(math.NaN()), "+nan"},
			{Bool(true), "true"},
			{String("Hello"), `"Hello"`},
			{String(`say "hi"`), `"say \"hi\""`},
			{String("a\nb"), `"a\nb"`},
			{Datetime(time.Date(1979, 5, 27, 7, 32, 0, 0, time.UTC)), "1979-05-27T07:32:00Z"},
			{&Array{Elems: []Node{Int(1), String("x")}}, `[1, "x"]`},
			{&Array{Elems: []Node{}}, "[]"},
			{NewTable(), "{}"},
			{&Table{Items: map[string]Node{"b": Int(2), "a b": Bool(false)}}, `{ "a b" = false, b = 2 }`},
		}
		for _, c := range cases {
			s, err := Format(c.node)
			convey.So(err, convey.ShouldBeNil)
			convey.So(s, convey.ShouldEqual, c.want)
		}
	})

	convey.Convey("decoded local values format back unchanged", t, func() {
		for _, text := range []string{"1979-05-27", "1979-05-27T07:32:00", "07:32:00"} {
			v, ok := parseDatetime(text)
			convey.So(ok, convey.ShouldBeTrue)
			s, err := Format(v)
			convey.So(err, convey.ShouldBeNil)
			convey.So(s, convey.ShouldEqual, text)
		}
	})

	convey.Convey("nil cannot be formatted", t, func() {
		_, err := Format(nil)
		convey.So(errors.Is(err, ErrUnsupportedValue), convey.ShouldBeTrue)
	})
}

func TestQuote(t *testing.T) {
	convey.Convey("quoted keys", t, func() {
		convey.So(Quote("a b"), convey.ShouldEqual, `"a b"`)
		convey.So(FormatKey("a_b"), convey.ShouldEqual, "a_b")
		convey.So(FormatKey("a.b"), convey.ShouldEqual, `"a.b"`)

		name, err := Unquote(lexer.Token{Kind: lexer.BasicString, Text: Quote(`back\slash "and" quote`)})
		convey.So(err, convey.ShouldBeNil)
		convey.So(name, convey.ShouldEqual, `back\slash "and" quote`)

		name, err = Unquote(lexer.Token{Kind: lexer.LiteralString, Text: `'x.y'`})
		convey.So(err, convey.ShouldBeNil)
		convey.So(name, convey.ShouldEqual, "x.y")

		_, err = Unquote(lexer.Token{Kind: lexer.Integer, Text: "1"})
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestParseInput(t *testing.T) {
	convey.Convey("command line values", t, func() {
		n, err := ParseInput("auto", "3")
		convey.So(err, convey.ShouldBeNil)
		convey.So(n.Value(), convey.ShouldEqual, int64(3))

		n, err = ParseInput("auto", "[1, 2]")
		convey.So(err, convey.ShouldBeNil)
		convey.So(toUntyped(n), convey.ShouldResemble, []any{int64(1), int64(2)})

		n, err = ParseInput("auto", "hello world")
		convey.So(err, convey.ShouldBeNil)
		convey.So(n.Value(), convey.ShouldEqual, "hello world")

		n, err = ParseInput("string", "42")
		convey.So(err, convey.ShouldBeNil)
		convey.So(n.Value(), convey.ShouldEqual, "42")

		n, err = ParseInput("bool", "false")
		convey.So(err, convey.ShouldBeNil)
		convey.So(n.Value(), convey.ShouldEqual, false)

		_, err = ParseInput("int", "x")
		convey.So(errors.Is(err, ErrUnsupportedValue), convey.ShouldBeTrue)
		_, err = ParseInput("complex", "1")
		convey.So(errors.Is(err, ErrUnsupportedValue), convey.ShouldBeTrue)
	})
}

func TestTokenKind(t *testing.T) {
	convey.Convey("token kinds for serialized values", t, func() {
		convey.So(TokenKind(String("x")), convey.ShouldEqual, lexer.BasicString)
		convey.So(TokenKind(Int(1)), convey.ShouldEqual, lexer.Integer)
		convey.So(TokenKind(Float(1)), convey.ShouldEqual, lexer.Float)
		convey.So(TokenKind(Bool(true)), convey.ShouldEqual, lexer.Boolean)
		convey.So(TokenKind(Datetime(time.Now())), convey.ShouldEqual, lexer.Datetime)
		convey.So(TokenKind(&Array{}), convey.ShouldEqual, lexer.Punctuation)
	})
}
