package htmltext

import (
	"fmt"
	"strings"

	"easyview/pkg/document"
	"easyview/pkg/html"
)

// BaseTag is present in every effective tag set.
const BaseTag = "_base_"

// MaxListDepth caps the listN indentation tag.
const MaxListDepth = 5

var aliases = map[string]string{
	"b":  "strong",
	"i":  "em",
	"th": "td",
}

func normalize(tag string) string {
	tag = strings.ToLower(tag)
	if alt, ok := aliases[tag]; ok {
		return alt
	}
	return tag
}

type frame struct {
	name  string
	attrs map[string]string
}

// push records an open element.
func (r *Renderer) push(name string, attrs map[string]string) {
	r.frames = append(r.frames, frame{name: name, attrs: attrs})
}

// pop closes name: frames are discarded from the top down to and
// including the nearest frame called name. A closer with no matching
// frame empties the stack.
func (r *Renderer) pop(name string) {
	if html.IsVoid(name) {
		r.closeVoidFrames()
		return
	}
	for len(r.frames) > 0 {
		top := r.frames[len(r.frames)-1]
		r.frames = r.frames[:len(r.frames)-1]
		if top.name == name {
			return
		}
	}
}

// closeVoidFrames drops void elements left open by tokenizers that do
// not close them.
func (r *Renderer) closeVoidFrames() {
	kept := r.frames[:0]
	for _, f := range r.frames {
		if !html.IsVoid(f.name) {
			kept = append(kept, f)
		}
	}
	r.frames = kept
}

func (r *Renderer) top() string {
	if len(r.frames) == 0 {
		return ""
	}
	return r.frames[len(r.frames)-1].name
}

func (r *Renderer) isOpen(name string) bool {
	for _, f := range r.frames {
		if f.name == name {
			return true
		}
	}
	return false
}

// Depth returns the number of open elements.
func (r *Renderer) Depth() int {
	return len(r.frames)
}

// OpenTags lists the open element names, outermost first.
func (r *Renderer) OpenTags() []string {
	names := make([]string, len(r.frames))
	for i, f := range r.frames {
		names[i] = f.name
	}
	return names
}

// Attrs returns the attributes of the most recent open instance of tag,
// or nil once it has been closed.
func (r *Renderer) Attrs(tag string) map[string]string {
	return r.attrs[normalize(tag)]
}

// effectiveTags is the style set for the next insertion: the base tag,
// every open element, link targets of open anchors, the list depth tag
// and extra.
func (r *Renderer) effectiveTags(extra ...string) document.Tags {
	names := make([]string, 0, len(r.frames)+len(extra)+2)
	names = append(names, BaseTag)
	for _, f := range r.frames {
		names = append(names, f.name)
		if f.name == "a" {
			if href := f.attrs["href"]; href != "" {
				names = append(names, href)
			}
		}
	}
	if len(r.lists) > 0 {
		names = append(names, fmt.Sprintf("list%d", min(len(r.lists), MaxListDepth)))
	}
	names = append(names, extra...)
	return document.NewTags(names...)
}

// LinkAt returns the hyperlink target covering pos, if any.
func (r *Renderer) LinkAt(pos int) (string, bool) {
	tags := r.doc.TagsAt(pos)
	if !tags.Has("a") {
		return "", false
	}
	for _, t := range tags {
		if r.links[t] {
			return t, true
		}
	}
	return "", false
}
