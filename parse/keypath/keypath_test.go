package keypath

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/dzjyyds666/tomledit/parse/lexer"
)

func TestRender(t *testing.T) {
	convey.Convey("rendering", t, func() {
		convey.So(Root.String(), convey.ShouldEqual, "")
		convey.So(Root.AppendKey("a").String(), convey.ShouldEqual, ".a")
		convey.So(Root.AppendKey("foo").AppendIndex(2).String(), convey.ShouldEqual, ".foo[2]")
		convey.So(Root.AppendKey("a b").AppendKey("c").String(), convey.ShouldEqual, `."a b".c`)
	})
}

func TestParse(t *testing.T) {
	convey.Convey("parsing", t, func() {
		expected := Root.AppendKey("foo").AppendKey("bar").AppendIndex(2)

		p, err := Parse("foo.bar[2]")
		convey.So(err, convey.ShouldBeNil)
		convey.So(p.Equal(expected), convey.ShouldBeTrue)

		p, err = Parse(".foo.bar[2]")
		convey.So(err, convey.ShouldBeNil)
		convey.So(p.Equal(expected), convey.ShouldBeTrue)

		p, err = Parse(` foo . "bar" [2] `)
		convey.So(err, convey.ShouldBeNil)
		convey.So(p.Equal(expected), convey.ShouldBeTrue)

		p, err = Parse("")
		convey.So(err, convey.ShouldBeNil)
		convey.So(p.IsRoot(), convey.ShouldBeTrue)

		p, err = Parse("site.'google.com'")
		convey.So(err, convey.ShouldBeNil)
		convey.So(p.Equal(New(Key("site"), Key("google.com"))), convey.ShouldBeTrue)

		p, err = Parse("12.3")
		convey.So(err, convey.ShouldBeNil)
		convey.So(p.Equal(New(Key("12"), Key("3"))), convey.ShouldBeTrue)
	})

	convey.Convey("malformed paths", t, func() {
		for _, s := range []string{".", "a..b", "a.", "a b", "a[x]", "a.[1]", "a[1]b", "a[-1]"} {
			_, err := Parse(s)
			convey.So(err, convey.ShouldNotBeNil)
		}
		_, err := Parse("a..b")
		convey.So(errors.Is(err, ErrInvalidKeyPathSyntax), convey.ShouldBeTrue)
		_, err = Parse("a=b")
		convey.So(errors.Is(err, lexer.ErrUnexpectedCharacter), convey.ShouldBeTrue)
	})
}

func TestRoundTrip(t *testing.T) {
	convey.Convey("parse(render(p)) == p", t, func() {
		paths := []KeyPath{
			Root,
			Root.AppendKey("a"),
			Root.AppendKey("foo").AppendIndex(2),
			Root.AppendKey("arraytable").AppendIndex(1).AppendKey("sub"),
			Root.AppendIndex(0),
			Root.AppendKey("with space").AppendKey(`q"uote`).AppendKey("dot.ted"),
			Root.AppendKey("1234").AppendKey("-x_"),
		}
		for _, p := range paths {
			got, err := Parse(p.String())
			convey.So(err, convey.ShouldBeNil)
			convey.So(got.Equal(p), convey.ShouldBeTrue)
			convey.So(got.Hash(), convey.ShouldEqual, p.Hash())
		}
	})
}

func TestImmutability(t *testing.T) {
	convey.Convey("appending never changes shared components", t, func() {
		base := Root.AppendKey("a").AppendKey("b")
		parent, ok := base.Parent()
		convey.So(ok, convey.ShouldBeTrue)

		left := parent.AppendKey("x")
		right := parent.AppendKey("y")
		convey.So(base.String(), convey.ShouldEqual, ".a.b")
		convey.So(left.String(), convey.ShouldEqual, ".a.x")
		convey.So(right.String(), convey.ShouldEqual, ".a.y")

		comps := base.Components()
		comps[0] = Key("z")
		convey.So(base.String(), convey.ShouldEqual, ".a.b")
	})
}

func TestParentAndAncestors(t *testing.T) {
	convey.Convey("parents", t, func() {
		_, ok := Root.Parent()
		convey.So(ok, convey.ShouldBeFalse)

		p := Root.AppendKey("a").AppendIndex(1).AppendKey("c")
		parent, ok := p.Parent()
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(parent.String(), convey.ShouldEqual, ".a[1]")

		last, ok := p.Last()
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(last.Name(), convey.ShouldEqual, "c")
		convey.So(last.IsIndex(), convey.ShouldBeFalse)
	})

	convey.Convey("ancestors run from parent to root and restart", t, func() {
		p := Root.AppendKey("a").AppendIndex(1).AppendKey("c")
		collect := func() []string {
			var out []string
			for a := range p.Ancestors() {
				out = append(out, a.String())
			}
			return out
		}
		want := []string{".a[1]", ".a", ""}
		convey.So(collect(), convey.ShouldResemble, want)
		convey.So(collect(), convey.ShouldResemble, want)

		var first []string
		for a := range p.Ancestors() {
			first = append(first, a.String())
			break
		}
		convey.So(first, convey.ShouldResemble, []string{".a[1]"})

		count := 0
		for range Root.Ancestors() {
			count++
		}
		convey.So(count, convey.ShouldEqual, 0)
	})

	convey.Convey("prefixes", t, func() {
		p := Root.AppendKey("a").AppendIndex(1).AppendKey("c")
		convey.So(p.HasPrefix(Root), convey.ShouldBeTrue)
		convey.So(p.HasPrefix(Root.AppendKey("a").AppendIndex(1)), convey.ShouldBeTrue)
		convey.So(p.HasPrefix(p), convey.ShouldBeTrue)
		convey.So(p.HasPrefix(Root.AppendKey("a").AppendIndex(0)), convey.ShouldBeFalse)
		convey.So(Root.HasPrefix(p), convey.ShouldBeFalse)
	})
}

func TestHash(t *testing.T) {
	convey.Convey("hash separates look-alike paths", t, func() {
		dotted := Root.AppendKey("a").AppendKey("b")
		single := Root.AppendKey("a.b")
		convey.So(dotted.Hash(), convey.ShouldNotEqual, single.Hash())
		convey.So(Root.AppendKey("a").Hash(), convey.ShouldNotEqual, Root.AppendIndex(0).Hash())

		counts := map[string]int{}
		counts[dotted.Hash()]++
		counts[Root.AppendKey("a").AppendKey("b").Hash()]++
		convey.So(counts[dotted.Hash()], convey.ShouldEqual, 2)
	})
}
