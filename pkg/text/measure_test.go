package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easyview/pkg/document"
)

func TestStyleFor(t *testing.T) {
	s := StyleFor(document.NewTags("_base_", "p"))
	assert.Equal(t, Style{Size: BaseSize}, s)

	s = StyleFor(document.NewTags("_base_", "h1", "em"))
	assert.True(t, s.Bold)
	assert.True(t, s.Italic)
	assert.Equal(t, 24.0, s.Size)

	s = StyleFor(document.NewTags("_base_", "pre", "code"))
	assert.True(t, s.Mono)

	s = StyleFor(document.NewTags("_base_", "a", "/ex1", "list2", "li"))
	assert.True(t, s.Link)
	assert.Equal(t, 2, s.Indent)
}

func TestFontPath(t *testing.T) {
	fc := FontConfig{Regular: "r.ttf", Bold: "b.ttf", Monospace: "m.ttf"}
	assert.Equal(t, "r.ttf", fc.FontPath(false, false, false))
	assert.Equal(t, "b.ttf", fc.FontPath(true, true, false))
	assert.Equal(t, "r.ttf", fc.FontPath(false, true, false))
	assert.Equal(t, "m.ttf", fc.FontPath(true, false, true))
	assert.Equal(t, "", DefaultFontConfig().FontPath(false, false, true))
}

func TestFacesAreCached(t *testing.T) {
	fonts := NewFonts(DefaultFontConfig())
	a, err := fonts.Face(Style{Size: 12, Bold: true})
	require.NoError(t, err)
	b, err := fonts.Face(Style{Size: 12, Bold: true, Link: true})
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestMissingFontFileFails(t *testing.T) {
	fonts := NewFonts(FontConfig{Regular: "/does/not/exist.ttf"})
	_, err := fonts.Face(Style{Size: 12})
	assert.Error(t, err)

	w, h := fonts.MeasureText("abc", Style{Size: 10})
	assert.InDelta(t, 18, w, 0.001)
	assert.InDelta(t, 14, h, 0.001)
}

func TestMeasureText(t *testing.T) {
	fonts := NewFonts(DefaultFontConfig())
	s := Style{Size: BaseSize}
	short, h := fonts.MeasureText("abc", s)
	long, _ := fonts.MeasureText("abcabc", s)
	assert.Greater(t, short, 0.0)
	assert.InDelta(t, 2*short, long, 1)
	assert.InDelta(t, BaseSize*LineSpacing, h, 0.001)

	bold, _ := fonts.MeasureText("abc", Style{Size: BaseSize * 2})
	assert.Greater(t, bold, short)

	m1, _ := fonts.MeasureText("iii", Style{Size: BaseSize, Mono: true})
	m2, _ := fonts.MeasureText("WWW", Style{Size: BaseSize, Mono: true})
	assert.InDelta(t, m1, m2, 0.001)
}

func TestBreakTextIntoLines(t *testing.T) {
	fonts := NewFonts(DefaultFontConfig())
	s := Style{Size: BaseSize}
	word, _ := fonts.MeasureText("word", s)

	lines := fonts.BreakTextIntoLines("word word word word", s, word*2.5)
	assert.Equal(t, []string{"word word", "word word"}, lines)

	lines = fonts.BreakTextIntoLines("short", s, 1000)
	assert.Equal(t, []string{"short"}, lines)
}

func TestBreakKeepsOverlongWords(t *testing.T) {
	fonts := NewFonts(DefaultFontConfig())
	s := Style{Size: BaseSize}
	long := strings.Repeat("x", 40)
	lines := fonts.BreakTextIntoLines("a "+long+" b", s, 50)
	assert.Equal(t, []string{"a", long, "b"}, lines)
}

func TestBreakWithShortFirstLine(t *testing.T) {
	fonts := NewFonts(DefaultFontConfig())
	s := Style{Size: BaseSize}
	word, _ := fonts.MeasureText("word", s)
	lines := fonts.BreakTextIntoLinesWithWrap("word word", s, word/2, word*3)
	assert.Equal(t, []string{"", "word word"}, lines)
}

func TestBreakDoesNotSplitAtNBSP(t *testing.T) {
	fonts := NewFonts(DefaultFontConfig())
	s := Style{Size: BaseSize}
	glued := "1.\u00A0item"
	w, _ := fonts.MeasureText(glued, s)
	lines := fonts.BreakTextIntoLines(glued+" next", s, w+1)
	assert.Equal(t, []string{glued, "next"}, lines)
}
