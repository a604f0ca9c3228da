package htmltext

import "strings"

// RuleWidth is the length of the line drawn for <hr>.
const RuleWidth = 40

var blockTags = map[string]bool{
	"div": true, "p": true, "ul": true, "ol": true, "li": true, "pre": true,
	"form": true, "h1": true, "h2": true, "h3": true, "summary": true,
	"details": true, "hr": true, "table": true, "tr": true, "img": true,
}

// spaced blocks get a vertical spacer in addition to the line break.
var spaced = map[string]bool{
	"p": true, "ul": true, "ol": true, "summary": true, "details": true,
	"pre": true, "img": true,
}

func isBlock(tag string) bool {
	return blockTags[tag]
}

// tagHandler augments the generic open/close bookkeeping for one element.
type tagHandler struct {
	open  func(r *Renderer, attrs map[string]string)
	close func(r *Renderer)
}

var handlers = map[string]tagHandler{
	"a": {open: (*Renderer).openLink},
	"br": {open: func(r *Renderer, _ map[string]string) {
		r.appendText(nbsp + "\n")
	}},
	"hr": {open: func(r *Renderer, _ map[string]string) {
		r.appendText(strings.Repeat("\u2500", RuleWidth))
	}},
	"pre": {open: func(r *Renderer, _ map[string]string) {
		r.afterPreOpen = true
	}},
	"ul":    {open: (*Renderer).openUnordered, close: (*Renderer).closeUnordered},
	"ol":    {open: (*Renderer).openOrdered, close: (*Renderer).closeOrdered},
	"li":    {open: (*Renderer).openItem},
	"td":    {open: (*Renderer).openCell, close: (*Renderer).closeCell},
	"img":   {open: (*Renderer).openImage},
	"form":  {open: (*Renderer).openForm, close: (*Renderer).closeForm},
	"input": {open: (*Renderer).openInput},
}

func (r *Renderer) openLink(attrs map[string]string) {
	if href := attrs["href"]; href != "" {
		r.links[href] = true
	}
}

// suppressBoundary reports whether a block boundary for tag is skipped:
// a paragraph directly inside a list item or table cell stays on the
// marker's line.
func (r *Renderer) suppressBoundary(tag string) bool {
	if tag != "p" {
		return false
	}
	switch r.top() {
	case "li", "td":
		return true
	}
	return false
}
