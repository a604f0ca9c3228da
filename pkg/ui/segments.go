// Package ui shows a rendered document in a fyne window.
package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"easyview/pkg/document"
	"easyview/pkg/text"
)

// Segments converts text-only lines to rich text. Every line ends a
// paragraph. activate receives the document position of a tapped link.
func Segments(lines [][]document.Run, activate func(pos int)) []widget.RichTextSegment {
	var segs []widget.RichTextSegment
	for _, line := range lines {
		for _, run := range line {
			if run.Embed != nil {
				continue
			}
			segs = append(segs, segmentFor(run, activate))
		}
		segs = endParagraph(segs)
	}
	return segs
}

func segmentFor(run document.Run, activate func(pos int)) widget.RichTextSegment {
	s := text.StyleFor(run.Tags)
	if s.Link {
		pos := run.Pos
		return &widget.HyperlinkSegment{
			Text: run.Text,
			OnTapped: func() {
				if activate != nil {
					activate(pos)
				}
			},
		}
	}
	return &widget.TextSegment{Text: run.Text, Style: richStyle(s)}
}

func richStyle(s text.Style) widget.RichTextStyle {
	style := widget.RichTextStyle{
		Inline:    true,
		ColorName: theme.ColorNameForeground,
		SizeName:  theme.SizeNameText,
		TextStyle: fyne.TextStyle{Bold: s.Bold, Italic: s.Italic, Monospace: s.Mono},
	}
	switch {
	case s.Size >= 24:
		style.SizeName = theme.SizeNameHeadingText
	case s.Size > text.BaseSize:
		style.SizeName = theme.SizeNameSubHeadingText
	}
	return style
}

// endParagraph makes the last segment break the line, adding an empty
// paragraph when the line is empty or ends in a link.
func endParagraph(segs []widget.RichTextSegment) []widget.RichTextSegment {
	if n := len(segs); n > 0 {
		if last, ok := segs[n-1].(*widget.TextSegment); ok && last.Style.Inline {
			last.Style.Inline = false
			return segs
		}
	}
	return append(segs, &widget.TextSegment{Style: widget.RichTextStyleParagraph})
}
