// Package text maps document tags to font styles and measures and wraps
// text set in those styles.
package text

import "easyview/pkg/document"

const (
	// BaseSize is the body font size in points.
	BaseSize = 14.0
	// LineSpacing is the line height as a multiple of the font size.
	LineSpacing = 1.4
)

var headingSizes = map[string]float64{
	"h1": 24,
	"h2": 20,
	"h3": 17,
}

// Style is the typographic interpretation of a tag set.
type Style struct {
	Size   float64
	Bold   bool
	Italic bool
	Mono   bool
	Link   bool
	// Indent is the list nesting level (0-5).
	Indent int
}

// StyleFor derives the style of text carrying tags.
func StyleFor(tags document.Tags) Style {
	s := Style{Size: BaseSize}
	for _, t := range tags {
		switch t {
		case "strong", "summary":
			s.Bold = true
		case "em":
			s.Italic = true
		case "pre", "code":
			s.Mono = true
		case "a":
			s.Link = true
		case "list1", "list2", "list3", "list4", "list5":
			s.Indent = int(t[4] - '0')
		}
		if size, ok := headingSizes[t]; ok {
			s.Bold = true
			s.Size = max(s.Size, size)
		}
	}
	return s
}

// LineHeight is the vertical advance of one line in s.
func (s Style) LineHeight() float64 {
	return s.Size * LineSpacing
}
