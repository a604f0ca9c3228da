// Package document implements the styled text buffer the HTML renderer
// writes into. A Document is a sequence of cells, each either a rune or an
// embedded object, with a set of style tags per cell and a single movable
// insertion cursor.
package document

import (
	"strings"
)

const (
	// NBSP is used for list markers, table padding and vertical spacers.
	NBSP = '\u00A0'
	// ObjectReplacement stands in for an embedded object in plain text.
	ObjectReplacement = '\uFFFC'
)

// Embed is an object placed inline in the document: an image or an
// interactive widget. Describe gives a short label for text dumps.
type Embed interface {
	Describe() string
}

type cell struct {
	r    rune
	tags Tags
	obj  Embed
}

type Document struct {
	cells  []cell
	cursor int
}

func New() *Document {
	return &Document{}
}

// Len returns the number of positions (runes plus embeds) in the document.
func (d *Document) Len() int {
	return len(d.cells)
}

func (d *Document) Cursor() int {
	return d.cursor
}

// SetCursor moves the insertion mark, clamped to the document bounds.
func (d *Document) SetCursor(pos int) {
	d.cursor = max(0, min(pos, len(d.cells)))
}

// Clear removes all content and resets the cursor.
func (d *Document) Clear() {
	d.cells = nil
	d.cursor = 0
}

// InsertText inserts text at the cursor with the given tags and moves the
// cursor past it.
func (d *Document) InsertText(text string, tags Tags) {
	if text == "" {
		return
	}
	runes := []rune(text)
	ins := make([]cell, len(runes))
	for i, r := range runes {
		ins[i] = cell{r: r, tags: tags}
	}
	d.insert(ins)
}

// InsertEmbed places obj at the cursor and returns its position.
func (d *Document) InsertEmbed(obj Embed, tags Tags) int {
	pos := d.cursor
	d.insert([]cell{{r: ObjectReplacement, tags: tags, obj: obj}})
	return pos
}

func (d *Document) insert(ins []cell) {
	d.cells = append(d.cells[:d.cursor], append(ins, d.cells[d.cursor:]...)...)
	d.cursor += len(ins)
}

// CharBefore returns the rune immediately preceding the cursor. Embeds
// read as ObjectReplacement. ok is false at the start of the document.
func (d *Document) CharBefore() (r rune, ok bool) {
	if d.cursor == 0 {
		return 0, false
	}
	return d.cells[d.cursor-1].r, true
}

// TextBefore returns up to n runes immediately preceding the cursor.
func (d *Document) TextBefore(n int) string {
	start := max(0, d.cursor-n)
	var b strings.Builder
	for _, c := range d.cells[start:d.cursor] {
		b.WriteRune(c.r)
	}
	return b.String()
}

// DeleteBefore removes up to n positions before the cursor and reports
// how many were removed.
func (d *Document) DeleteBefore(n int) int {
	n = min(max(n, 0), d.cursor)
	if n == 0 {
		return 0
	}
	d.cells = append(d.cells[:d.cursor-n], d.cells[d.cursor:]...)
	d.cursor -= n
	return n
}

// TagsAt returns the tag set of the position, or nil when out of range.
func (d *Document) TagsAt(pos int) Tags {
	if pos < 0 || pos >= len(d.cells) {
		return nil
	}
	return d.cells[pos].tags
}

// AddTags adds names to the tag set of a single position.
func (d *Document) AddTags(pos int, names ...string) {
	if pos < 0 || pos >= len(d.cells) {
		return
	}
	d.cells[pos].tags = d.cells[pos].tags.With(names...)
}

// LineStart returns the position of the first cell on the line containing pos.
func (d *Document) LineStart(pos int) int {
	pos = min(pos, len(d.cells))
	for i := pos - 1; i >= 0; i-- {
		if d.cells[i].r == '\n' && d.cells[i].obj == nil {
			return i + 1
		}
	}
	return 0
}

// EmbedAt returns the object at pos, if any.
func (d *Document) EmbedAt(pos int) Embed {
	if pos < 0 || pos >= len(d.cells) {
		return nil
	}
	return d.cells[pos].obj
}

// ReplaceNBSP swaps every non-breaking space for a plain space. Some
// platforms render NBSP with the wrong width.
func (d *Document) ReplaceNBSP() {
	for i := range d.cells {
		if d.cells[i].r == NBSP && d.cells[i].obj == nil {
			d.cells[i].r = ' '
		}
	}
}

// Text returns the plain text, embeds shown as ObjectReplacement.
func (d *Document) Text() string {
	var b strings.Builder
	for _, c := range d.cells {
		b.WriteRune(c.r)
	}
	return b.String()
}

// String renders the document as text with embeds in brackets, which is
// handy in tests and in the CLI dump.
func (d *Document) String() string {
	var b strings.Builder
	for _, c := range d.cells {
		if c.obj != nil {
			b.WriteString("[" + c.obj.Describe() + "]")
			continue
		}
		b.WriteRune(c.r)
	}
	return b.String()
}
