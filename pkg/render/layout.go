package render

import (
	"easyview/pkg/document"
	"easyview/pkg/embed"
	"easyview/pkg/text"
)

const (
	Margin      = 12.0
	IndentWidth = 18.0
	// WidgetWidth is the width of text entries and file choosers.
	WidgetWidth = 160.0
	widgetPad   = 6.0
)

// Fragment is one positioned piece of a laid out document: a wrapped
// slice of a text run or a whole embed.
type Fragment struct {
	X, Y          float64
	Width, Height float64
	Text          string
	Style         text.Style
	Embed         document.Embed
	// Pos is the document position of the first character.
	Pos int
}

// Layout places the document's lines top to bottom within width,
// wrapping text runs and flowing embeds inline. It returns the
// fragments and the total height.
func Layout(doc *document.Document, width float64, fonts *text.Fonts) ([]Fragment, float64) {
	var frags []Fragment
	y := Margin
	right := width - Margin

	for _, line := range doc.Lines() {
		base := text.StyleFor(nil)
		if len(line) > 0 {
			base = text.StyleFor(line[0].Tags)
		}
		left := Margin + float64(base.Indent)*IndentWidth
		x := left
		lineHeight := base.LineHeight()
		start := len(frags)

		newline := func() {
			for i := start; i < len(frags); i++ {
				frags[i].Y = y + lineHeight - frags[i].Height
			}
			y += lineHeight
			x = left
			lineHeight = base.LineHeight()
			start = len(frags)
		}

		for _, run := range line {
			style := text.StyleFor(run.Tags)
			if run.Embed != nil {
				w, h := embedSize(run.Embed, style, fonts)
				if x > left && x+w > right {
					newline()
				}
				frags = append(frags, Fragment{X: x, Width: w, Height: h, Embed: run.Embed, Style: style, Pos: run.Pos})
				x += w
				lineHeight = max(lineHeight, h)
				continue
			}

			pieces := fonts.BreakTextIntoLinesWithWrap(run.Text, style, right-x, right-left)
			pos := run.Pos
			for i, piece := range pieces {
				if i > 0 {
					newline()
				}
				w, h := fonts.MeasureText(piece, style)
				if piece != "" {
					frags = append(frags, Fragment{X: x, Width: w, Height: h, Text: piece, Style: style, Pos: pos})
					pos += len([]rune(piece)) + 1
				}
				x += w
				lineHeight = max(lineHeight, h)
			}
		}
		newline()
	}
	return frags, y + Margin
}

func embedSize(e document.Embed, style text.Style, fonts *text.Fonts) (float64, float64) {
	lh := style.LineHeight()
	switch e := e.(type) {
	case *embed.Image:
		if c := e.Content(); c != nil {
			b := c.Bounds()
			return float64(b.Dx()), float64(b.Dy())
		}
	case *embed.Button:
		w, _ := fonts.MeasureText(e.Label, style)
		return w + 4*widgetPad, lh + widgetPad
	case *embed.TextField, *embed.FileChoice:
		return WidgetWidth, lh + widgetPad
	}
	return lh, lh
}

// FragmentAt returns the fragment under the point, if any.
func FragmentAt(frags []Fragment, x, y float64) (Fragment, bool) {
	for _, f := range frags {
		if x >= f.X && x < f.X+f.Width && y >= f.Y && y < f.Y+f.Height {
			return f, true
		}
	}
	return Fragment{}, false
}
