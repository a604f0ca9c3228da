package htmltext

import (
	"strings"

	"easyview/pkg/document"
)

const nbsp = string(document.NBSP)

// VerticalSpacer is the blank line inserted between paragraph-like blocks.
// The NBSP keeps it from being trimmed as trailing whitespace.
const VerticalSpacer = nbsp + "\n"

// blockBoundary replaces any whitespace at the cursor with one line break
// and, for spaced blocks, adds a vertical spacer.
func (r *Renderer) blockBoundary(tag string) {
	for {
		c, ok := r.doc.CharBefore()
		if !ok || !isTrimmable(c) {
			break
		}
		r.doc.DeleteBefore(1)
	}

	var tags document.Tags
	if pos := r.doc.Cursor() - 1; pos >= 0 {
		tags = r.doc.TagsAt(pos).Filter(isBlock)
	}
	r.doc.InsertText("\n", tags)

	if tag == "table" {
		r.doc.InsertText(VerticalSpacer, nil)
		return
	}
	if spaced[tag] &&
		r.doc.TextBefore(2) != VerticalSpacer &&
		r.doc.LineStart(r.doc.Cursor()-1) != 0 {
		r.doc.InsertText(VerticalSpacer, nil)
	}
}

func isTrimmable(c rune) bool {
	return c == '\r' || c == '\n' || c == '\t' || c == ' '
}

func isHSpace(c rune) bool {
	return c == ' ' || c == '\t'
}

// prepareText normalizes line endings and, outside <pre>, collapses every
// whitespace run to one space.
func (r *Renderer) prepareText(data string) string {
	text := strings.ReplaceAll(data, "\r\n", "\n")
	if r.afterPreOpen {
		text = strings.TrimPrefix(text, "\n")
	}
	if r.isOpen("pre") {
		return text
	}
	return collapse(text)
}

// collapse maps runs of HTML whitespace to single spaces. NBSP is content,
// not whitespace.
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, c := range s {
		switch c {
		case ' ', '\t', '\n', '\r', '\f':
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
		default:
			b.WriteRune(c)
			inSpace = false
		}
	}
	return b.String()
}

// appendText inserts chars at the cursor with the effective tags, never
// leaving two horizontal spaces side by side and never starting a line
// with one. Preformatted text is inserted verbatim.
func (r *Renderer) appendText(chars string, extra ...string) {
	if !r.isOpen("pre") {
		trailingSpace := false
		var trailingTags document.Tags
		for {
			c, ok := r.doc.CharBefore()
			if !ok || !isHSpace(c) {
				break
			}
			trailingSpace = true
			trailingTags = trailingTags.With(r.doc.TagsAt(r.doc.Cursor() - 1)...)
			r.doc.DeleteBefore(1)
		}

		last, ok := r.doc.CharBefore()
		if !ok || last == '\n' || last == document.NBSP {
			trailingSpace = false
			chars = strings.TrimLeft(chars, " \t")
		}
		if trailingSpace && (chars == "" || !isHSpace(rune(chars[0]))) {
			r.doc.InsertText(" ", trailingTags)
		}
	}
	if chars == "" {
		return
	}
	r.doc.InsertText(chars, r.effectiveTags(extra...))
}

// center pads s with NBSP on both sides to width runes.
func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(nbsp, left) + s + strings.Repeat(nbsp, width-n-left)
}
