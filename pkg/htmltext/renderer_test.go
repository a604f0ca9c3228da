package htmltext

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easyview/pkg/document"
	"easyview/pkg/embed"
	"easyview/pkg/form"
	"easyview/pkg/images"
)

const sp = "\u00A0"

type submission struct {
	target string
	pairs  []form.Pair
}

type recordingNavigator struct {
	navigations []string
	submissions []submission
}

func (n *recordingNavigator) Navigate(target string) {
	n.navigations = append(n.navigations, target)
}

func (n *recordingNavigator) Submit(target string, data *form.Data) {
	n.submissions = append(n.submissions, submission{target: target, pairs: data.Pairs()})
}

func render(t *testing.T, src string, opts Options) (*Renderer, *document.Document) {
	t.Helper()
	doc := document.New()
	r := New(doc, opts)
	require.NoError(t, r.SetHTML(src))
	return r, doc
}

func lines(doc *document.Document) []string {
	return strings.Split(doc.String(), "\n")
}

func buttons(doc *document.Document) []*embed.Button {
	var out []*embed.Button
	for _, p := range doc.Embeds() {
		if b, ok := p.Embed.(*embed.Button); ok {
			out = append(out, b)
		}
	}
	return out
}

func TestStackReturnsToEmpty(t *testing.T) {
	r, _ := render(t, `<div><p>a <b>bold <i>both</i></b> <a href="/x">link</a></p><ul><li>x</li></ul></div>`, Options{})
	assert.Equal(t, 0, r.Depth())
	assert.Empty(t, r.OpenTags())
}

func TestUnmatchedCloseIsTolerated(t *testing.T) {
	r, doc := render(t, `</ul></p><p>text</b></p>`, Options{})
	assert.Equal(t, 0, r.Depth())
	assert.Contains(t, doc.String(), "text")
}

func TestStrayCloserEmptiesStack(t *testing.T) {
	doc := document.New()
	r := New(doc, Options{})
	r.OpenTag("div", nil)
	r.OpenTag("em", nil)
	r.CloseTag("span")
	assert.Equal(t, 0, r.Depth())
}

func TestPopUntilMatch(t *testing.T) {
	doc := document.New()
	r := New(doc, Options{})
	r.OpenTag("div", nil)
	r.OpenTag("p", nil)
	r.OpenTag("strong", nil)
	r.OpenTag("em", nil)
	r.CloseTag("p")
	assert.Equal(t, []string{"div"}, r.OpenTags())
}

func TestAliasesAndEffectiveTags(t *testing.T) {
	_, doc := render(t, `<p>x<b>y</b><i>z</i></p>`, Options{})
	text := doc.Text()
	yPos := strings.IndexRune(text, 'y')
	zPos := strings.IndexRune(text, 'z')
	assert.Equal(t, document.NewTags(BaseTag, "p", "strong"), doc.TagsAt(len([]rune(text[:yPos]))))
	assert.Equal(t, document.NewTags(BaseTag, "em", "p"), doc.TagsAt(len([]rune(text[:zPos]))))
}

func TestAttrsOfMostRecentInstance(t *testing.T) {
	doc := document.New()
	r := New(doc, Options{})
	r.OpenTag("div", map[string]string{"class": "outer"})
	r.OpenTag("div", map[string]string{"class": "inner"})
	assert.Equal(t, "inner", r.Attrs("div")["class"])
	r.CloseTag("div")
	assert.Nil(t, r.Attrs("div"))
}

func TestWhitespaceCollapsing(t *testing.T) {
	_, doc := render(t, "<p>a\n\n  b</p>", Options{})
	assert.Equal(t, []string{"", "a b", sp, ""}, lines(doc))
}

func TestPreservesPreformatted(t *testing.T) {
	_, doc := render(t, "<pre>\na\n\n  b</pre>", Options{})
	assert.Equal(t, "\na\n\n  b\n"+sp+"\n", doc.Text())
}

func TestPreDropsOnlyOneLeadingNewline(t *testing.T) {
	_, doc := render(t, "<pre>\n\nx</pre>", Options{})
	assert.True(t, strings.HasPrefix(doc.Text(), "\n\nx"), "%q", doc.Text())
}

func TestCodeInsidePreKeepsLeadingNewline(t *testing.T) {
	_, doc := render(t, "<pre><code>\nx</code></pre>", Options{})
	assert.True(t, strings.HasPrefix(doc.Text(), "\n\nx"), "%q", doc.Text())
}

func TestNoDoubleSpaces(t *testing.T) {
	_, doc := render(t, `<p>one <b> two </b> three</p>`, Options{})
	assert.NotContains(t, doc.Text(), "  ")
	assert.Contains(t, doc.Text(), "one two three")
}

func TestSpaceKeptBetweenInlineElements(t *testing.T) {
	_, doc := render(t, `<p><b>a</b> <i>b</i></p>`, Options{})
	assert.Contains(t, doc.Text(), "a b")
}

func TestNoSpaceAtLineStart(t *testing.T) {
	_, doc := render(t, "<div>\n   hello</div>", Options{})
	assert.Equal(t, []string{"", "hello", ""}, lines(doc))
}

func TestBlockBoundariesAndSpacers(t *testing.T) {
	_, doc := render(t, `<h1>Title</h1><p>one</p><p>two</p><div>three</div>`, Options{})
	assert.Equal(t, []string{"", "Title", sp, "one", sp, "two", sp, "three", ""}, lines(doc))
}

func TestSpacerNotDuplicated(t *testing.T) {
	_, doc := render(t, `<p>a</p><p></p><ul></ul><p>b</p>`, Options{})
	assert.NotContains(t, doc.Text(), sp+"\n"+sp+"\n")
}

func TestTableAlwaysGetsSpacer(t *testing.T) {
	_, doc := render(t, `<p>a</p><table><tr><td>x</td></tr></table>`, Options{})
	assert.Contains(t, doc.Text(), sp+"\n"+sp+"\n")
}

func TestUnorderedList(t *testing.T) {
	_, doc := render(t, `<ul><li>one</li><li>two</li></ul>`, Options{})
	got := lines(doc)
	assert.Equal(t, []string{"", "•" + sp + "one", "•" + sp + "two", sp, ""}, got)
}

func TestBulletsCycleByDepth(t *testing.T) {
	_, doc := render(t, `<ul><li>a<ul><li>b<ul><li>c<ul><li>d</li></ul></li></ul></li></ul></li></ul>`, Options{})
	text := doc.Text()
	assert.Contains(t, text, "•"+sp+"a")
	assert.Contains(t, text, "◦"+sp+"b")
	assert.Contains(t, text, "▹"+sp+"c")
	assert.Contains(t, text, "•"+sp+"d")
}

func TestBulletDepthIgnoresOrderedLists(t *testing.T) {
	_, doc := render(t, `<ul><li>a<ol><li>b<ul><li>c</li></ul></li></ol></li></ul>`, Options{})
	text := doc.Text()
	assert.Contains(t, text, "1."+sp+"b")
	assert.Contains(t, text, "◦"+sp+"c")
}

func TestBulletMarker(t *testing.T) {
	assert.Equal(t, "•"+sp, BulletMarker(0))
	assert.Equal(t, "◦"+sp, BulletMarker(1))
	assert.Equal(t, "▹"+sp, BulletMarker(2))
	assert.Equal(t, "•"+sp, BulletMarker(3))
}

func TestOrderedCountersResetPerList(t *testing.T) {
	_, doc := render(t, `<ol><li>a</li><li>b</li></ol><ol><li>c</li></ol>`, Options{})
	text := doc.Text()
	assert.Contains(t, text, "1."+sp+"a")
	assert.Contains(t, text, "2."+sp+"b")
	assert.Contains(t, text, "1."+sp+"c")
	assert.NotContains(t, text, "3.")
}

func TestNestedOrderedCounters(t *testing.T) {
	_, doc := render(t, `<ol><li>a<ol><li>x</li><li>y</li></ol></li><li>b</li></ol>`, Options{})
	text := doc.Text()
	assert.Contains(t, text, "2."+sp+"y")
	assert.Contains(t, text, "2."+sp+"b")
}

func TestListItemOutsideListHasNoMarker(t *testing.T) {
	_, doc := render(t, `<li>loose</li>`, Options{})
	assert.Equal(t, []string{"", "loose", ""}, lines(doc))
}

func TestParagraphInsideListItem(t *testing.T) {
	_, doc := render(t, `<ul><li> <p>first</p> </li></ul>`, Options{})
	assert.Contains(t, doc.Text(), "•"+sp+"first")
}

func TestListDepthTag(t *testing.T) {
	_, doc := render(t, `<ul><li>a</li></ul>`, Options{})
	pos := strings.IndexRune(doc.Text(), 'a')
	assert.True(t, doc.TagsAt(len([]rune(doc.Text()[:pos]))).Has("list1"))
}

func TestTableCellCentering(t *testing.T) {
	_, doc := render(t, `<table><tr><td>abc</td><th>x</th></tr></table>`, Options{})
	var row string
	for _, l := range lines(doc) {
		if strings.Contains(l, "abc") {
			row = l
		}
	}
	require.NotEmpty(t, row)
	cell := []rune(row)[:CellWidth]
	assert.Equal(t, "abc", strings.Trim(string(cell), sp))
	left := strings.Index(string(cell), "abc") / len(sp)
	right := CellWidth - left - 3
	assert.InDelta(t, left, right, 1)
	assert.Equal(t, 2*CellWidth, len([]rune(row)))
}

func TestCenter(t *testing.T) {
	assert.Equal(t, strings.Repeat(sp, 8)+"abc"+strings.Repeat(sp, 9), center("abc", 20))
	long := strings.Repeat("x", 25)
	assert.Equal(t, long, center(long, 20))
}

func TestBreakAndRule(t *testing.T) {
	_, doc := render(t, `a<br>b<hr>c`, Options{})
	got := lines(doc)
	assert.Equal(t, "a"+sp, got[0])
	assert.Equal(t, "b", got[1])
	assert.Equal(t, strings.Repeat("─", RuleWidth), got[2])
	assert.Equal(t, "c", got[3])
}

func TestLinks(t *testing.T) {
	nav := &recordingNavigator{}
	r, doc := render(t, `<p>see <a href="/ex1">exercise</a> now</p>`, Options{Navigator: nav})
	text := []rune(doc.Text())
	pos := strings.Index(string(text), "exercise")
	runePos := len([]rune(string(text)[:pos]))

	target, ok := r.LinkAt(runePos)
	assert.True(t, ok)
	assert.Equal(t, "/ex1", target)
	assert.True(t, doc.TagsAt(runePos).Has("/ex1"))

	_, ok = r.LinkAt(1)
	assert.False(t, ok)

	assert.True(t, r.ActivateLink(runePos+2))
	assert.False(t, r.ActivateLink(1))
	assert.Equal(t, []string{"/ex1"}, nav.navigations)
}

func TestHiddenFieldSubmission(t *testing.T) {
	nav := &recordingNavigator{}
	_, doc := render(t, `<form action="/x"><input type=hidden name=a value=v1><input type=submit value="Go"></form>`, Options{Navigator: nav})
	btns := buttons(doc)
	require.Len(t, btns, 1)
	assert.Equal(t, "Go", btns[0].Label)

	btns[0].Activate()
	require.Len(t, nav.submissions, 1)
	assert.Equal(t, submission{target: "/x", pairs: []form.Pair{{Name: "a", Value: "v1"}}}, nav.submissions[0])
}

func TestSubmitDefaultLabelAndName(t *testing.T) {
	nav := &recordingNavigator{}
	_, doc := render(t, `<form action="/s"><input type="submit" name="op"></form>`, Options{Navigator: nav})
	btns := buttons(doc)
	require.Len(t, btns, 1)
	assert.Equal(t, "Submit", btns[0].Label)
	btns[0].Activate()
	require.Len(t, nav.submissions, 1)
	assert.Equal(t, []form.Pair{{Name: "op", Value: "Submit"}}, nav.submissions[0].pairs)
}

func TestExternalFieldResolved(t *testing.T) {
	nav := &recordingNavigator{}
	src := `<form action="/ex1/submit"><input type="hidden" name="$EDITOR_CONTENT" /><input type="submit" value="Send" /></form>`
	_, doc := render(t, src, Options{
		Navigator: nav,
		Resolver: form.ResolverFunc(func(token string) (string, bool) {
			assert.Equal(t, EditorContent, token)
			return "print('hi')", true
		}),
	})
	buttons(doc)[0].Activate()
	require.Len(t, nav.submissions, 1)
	v, ok := form.NewData(nav.submissions[0].pairs...).Get(EditorContent)
	assert.True(t, ok)
	assert.Equal(t, "print('hi')", v)
}

func TestExternalFieldUnavailableAbortsSubmission(t *testing.T) {
	nav := &recordingNavigator{}
	var dropped []string
	src := `<form action="/ex1/submit"><input type="hidden" name="keep" value="1"><input type="hidden" name="$EDITOR_CONTENT"><input type="submit"></form>`
	_, doc := render(t, src, Options{
		Navigator: nav,
		Resolver:  form.ResolverFunc(func(string) (string, bool) { return "", false }),
		OnSubmitError: func(action string, err error) {
			assert.ErrorIs(t, err, form.ErrUnavailable)
			dropped = append(dropped, action)
		},
	})
	buttons(doc)[0].Activate()
	assert.Empty(t, nav.submissions)
	assert.Equal(t, []string{"/ex1/submit"}, dropped)
}

func TestTextAndFileInputs(t *testing.T) {
	nav := &recordingNavigator{}
	src := `<form action="/f"><input name="q"><input type="file" name="src"><input type="file"><input type="checkbox" name="ignored"><input type="submit"></form>`
	_, doc := render(t, src, Options{
		Navigator:   nav,
		FileOptions: func() []string { return []string{"main.py", "util.py"} },
	})

	var field *embed.TextField
	var choices []*embed.FileChoice
	for _, p := range doc.Embeds() {
		switch e := p.Embed.(type) {
		case *embed.TextField:
			field = e
		case *embed.FileChoice:
			choices = append(choices, e)
		}
	}
	require.NotNil(t, field)
	require.Len(t, choices, 2)
	assert.Equal(t, "text", field.Attrs["type"])

	field.SetValue("typed later")
	choices[0].SetValue("util.py")
	buttons(doc)[0].Activate()

	require.Len(t, nav.submissions, 1)
	assert.Equal(t, []form.Pair{
		{Name: "q", Value: "typed later"},
		{Name: "src", Value: "util.py"},
	}, nav.submissions[0].pairs)
}

func TestSubmitSeesFieldsAddedAfterButton(t *testing.T) {
	nav := &recordingNavigator{}
	_, doc := render(t, `<form action="/late"><input type="submit"><input type="hidden" name="after" value="yes"></form>`, Options{Navigator: nav})
	buttons(doc)[0].Activate()
	require.Len(t, nav.submissions, 1)
	assert.Equal(t, []form.Pair{{Name: "after", Value: "yes"}}, nav.submissions[0].pairs)
}

func TestSequentialForms(t *testing.T) {
	nav := &recordingNavigator{}
	src := `<form action="/one"><input type="hidden" name="a" value="1"><input type="submit"></form>` +
		`<form action="/two"><input type="hidden" name="b" value="2"><input type="submit"></form>`
	_, doc := render(t, src, Options{Navigator: nav})
	btns := buttons(doc)
	require.Len(t, btns, 2)
	btns[1].Activate()
	btns[0].Activate()
	require.Len(t, nav.submissions, 2)
	assert.Equal(t, "/two", nav.submissions[0].target)
	assert.Equal(t, []form.Pair{{Name: "b", Value: "2"}}, nav.submissions[0].pairs)
	assert.Equal(t, "/one", nav.submissions[1].target)
}

func TestInputsOutsideFormAreHarmless(t *testing.T) {
	nav := &recordingNavigator{}
	_, doc := render(t, `<input type="hidden" name="a"><input type="submit"></form></form>`, Options{Navigator: nav})
	btns := buttons(doc)
	require.Len(t, btns, 1)
	btns[0].Activate()
	assert.Empty(t, nav.submissions)
}

func TestButtonsOfReplacedDocumentDoNothing(t *testing.T) {
	nav := &recordingNavigator{}
	r, doc := render(t, `<form action="/old"><input type="submit"></form>`, Options{Navigator: nav})
	old := buttons(doc)[0]
	require.NoError(t, r.SetHTML(`<p>new page</p>`))
	old.Activate()
	assert.Empty(t, nav.submissions)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImagePlaceholdersAndUpdate(t *testing.T) {
	var requested []string
	cache := images.NewCache()
	r, doc := render(t, `<img src="pic.png"><p>x <img src="pic.png"></p><img src="pic.png"><img src="other.png">`, Options{
		Cache:        cache,
		RequestImage: func(src string) { requested = append(requested, src) },
	})

	handles := r.ImageEmbeds("pic.png")
	require.Len(t, handles, 3)
	for _, h := range handles {
		assert.True(t, h.IsPlaceholder())
		assert.Same(t, images.Placeholder(), h.Content())
	}
	assert.Equal(t, []string{"pic.png", "pic.png", "pic.png", "other.png"}, requested)
	assert.Len(t, doc.Embeds(), 4)

	require.NoError(t, r.UpdateImage("pic.png", pngBytes(t, 3, 2)))
	for _, h := range handles {
		assert.False(t, h.IsPlaceholder())
		assert.Equal(t, 3, h.Content().Bounds().Dx())
	}
	assert.True(t, r.ImageEmbeds("other.png")[0].IsPlaceholder())

	// later documents get the cached bytes straight away
	requested = nil
	require.NoError(t, r.SetHTML(`<img src="pic.png">`))
	assert.Empty(t, requested)
	assert.False(t, r.ImageEmbeds("pic.png")[0].IsPlaceholder())
}

func TestUpdateImageIsRepeatable(t *testing.T) {
	r, _ := render(t, `<img src="a.png">`, Options{})
	require.NoError(t, r.UpdateImage("a.png", pngBytes(t, 1, 1)))
	require.NoError(t, r.UpdateImage("a.png", pngBytes(t, 5, 5)))
	assert.Equal(t, 5, r.ImageEmbeds("a.png")[0].Content().Bounds().Dx())
	require.NoError(t, r.UpdateImage("unknown.png", pngBytes(t, 1, 1)))
}

func TestUpdateImageBadBytesKeepsPlaceholder(t *testing.T) {
	r, _ := render(t, `<img src="a.png">`, Options{})
	err := r.UpdateImage("a.png", []byte("not an image"))
	assert.ErrorIs(t, err, images.ErrUnsupportedFormat)
	assert.True(t, r.ImageEmbeds("a.png")[0].IsPlaceholder())
}

func TestImageWithoutSourceIgnored(t *testing.T) {
	_, doc := render(t, `<img alt="none">`, Options{})
	assert.Empty(t, doc.Embeds())
}

func TestImageEmbedCarriesTags(t *testing.T) {
	_, doc := render(t, `<a href="/big"><img src="a.png"></a>`, Options{})
	placed := doc.Embeds()
	require.Len(t, placed, 1)
	assert.True(t, placed[0].Tags.Has("a"))
	assert.True(t, placed[0].Tags.Has("/big"))
	assert.True(t, placed[0].Tags.Has("img"))
}

func TestResetClearsState(t *testing.T) {
	doc := document.New()
	r := New(doc, Options{})
	r.OpenTag("ul", nil)
	r.OpenTag("li", nil)
	r.OpenTag("form", map[string]string{"action": "/x"})
	r.Text("dangling")
	r.Reset()
	assert.Equal(t, 0, doc.Len())
	assert.Equal(t, 0, r.Depth())
	assert.Nil(t, r.currentForm())
	assert.Empty(t, r.lists)
}

func TestVoidFramesClosedLazily(t *testing.T) {
	doc := document.New()
	r := New(doc, Options{})
	r.OpenTag("p", nil)
	r.OpenTag("br", nil)
	r.Text("after")
	assert.Equal(t, []string{"p"}, r.OpenTags())
}

func TestReplaceNBSPOption(t *testing.T) {
	_, doc := render(t, `<ul><li>a</li></ul>`, Options{ReplaceNBSP: true})
	assert.NotContains(t, doc.Text(), sp)
	assert.Contains(t, doc.Text(), "• a")
}

func TestBenchmarkPageRoundTrip(t *testing.T) {
	src := `
<div class="paragraph">
 <p>Koostada <a href="https://example.org/x">programm</a>, mille</p>
</div>
<div class="ulist">
 <ul>
  <li> <p>1. real <code>aasta</code>;</p> </li>
  <li> <p>2. real <code>liblikas</code>;</p> </li>
 </ul>
</div>
<details>
<summary class="title">Näited</summary>
 <pre class="highlight"><code>&gt;&gt;&gt; %Run yl1.2.py
  2020. aasta</code></pre>
</details>`
	r, doc := render(t, src, Options{})
	text := doc.Text()
	assert.Equal(t, 0, r.Depth())
	assert.Contains(t, text, "Koostada programm, mille")
	assert.Contains(t, text, "•"+sp+"1. real aasta;")
	assert.Contains(t, text, "•"+sp+"2. real liblikas;")
	assert.Contains(t, text, ">>> %Run yl1.2.py\n  2020. aasta")
	assert.NotContains(t, text, "  \n")
}
