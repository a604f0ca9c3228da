// Package htmltext renders the small HTML subset served by exercise pages
// into a styled document. The renderer is driven by tokenizer events and
// writes strictly at the document cursor: it tracks the open elements,
// inserts line breaks and spacers around blocks, collapses whitespace,
// numbers list items, centers table cells, builds forms and places images.
//
// A Renderer is single threaded. Callbacks from background work (image
// downloads) must be delivered on the same goroutine that feeds it.
package htmltext

import (
	"io"
	"strings"

	"easyview/pkg/document"
	"easyview/pkg/embed"
	"easyview/pkg/form"
	"easyview/pkg/html"
	"easyview/pkg/images"
)

// EditorContent is the hidden field name whose value is taken from the
// host's active editor at submit time.
const EditorContent = "$EDITOR_CONTENT"

// Navigator receives hyperlink activations and form submissions.
type Navigator interface {
	Navigate(target string)
	Submit(target string, data *form.Data)
}

type Options struct {
	Navigator Navigator
	// Resolver supplies values of external fields.
	Resolver form.Resolver
	// ExternalFields names hidden inputs resolved by Resolver.
	// Defaults to EditorContent.
	ExternalFields []string
	// OnSubmitError is told when a submission is dropped because a field
	// could not be resolved.
	OnSubmitError func(action string, err error)
	// Cache is the process-wide image cache. A private one is used when nil.
	Cache *images.Cache
	// RequestImage asks for the bytes of src to be fetched; the result
	// comes back through UpdateImage.
	RequestImage func(src string)
	// ImageWidth is the width decoded images are scaled down to.
	// Zero means images.DefaultBaseWidth, negative disables scaling.
	ImageWidth int
	// FileOptions lists the choices offered by file inputs.
	FileOptions func() []string
	// ReplaceNBSP swaps NBSP for plain spaces after each document.
	ReplaceNBSP bool
}

type Renderer struct {
	doc      *document.Document
	opts     Options
	cache    *images.Cache
	external map[string]bool

	frames       []frame
	attrs        map[string]map[string]string
	lists        []listFrame
	forms        []*form.Record
	inTableCell  bool
	afterPreOpen bool
	images       map[string][]*embed.Image
	links        map[string]bool
	generation   int
}

// New returns a renderer writing into doc.
func New(doc *document.Document, opts Options) *Renderer {
	if opts.ImageWidth == 0 {
		opts.ImageWidth = images.DefaultBaseWidth
	}
	if opts.ExternalFields == nil {
		opts.ExternalFields = []string{EditorContent}
	}
	r := &Renderer{
		doc:      doc,
		opts:     opts,
		cache:    opts.Cache,
		external: make(map[string]bool),
	}
	if r.cache == nil {
		r.cache = images.NewCache()
	}
	for _, name := range opts.ExternalFields {
		r.external[name] = true
	}
	r.resetState()
	return r
}

func (r *Renderer) resetState() {
	r.frames = nil
	r.attrs = make(map[string]map[string]string)
	r.lists = nil
	r.forms = nil
	r.inTableCell = false
	r.afterPreOpen = false
	r.images = make(map[string][]*embed.Image)
	r.links = make(map[string]bool)
	r.generation++
}

// Document returns the document being written.
func (r *Renderer) Document() *document.Document {
	return r.doc
}

// Reset clears the document and all per-document state. Widgets of the
// previous document stop submitting.
func (r *Renderer) Reset() {
	r.doc.Clear()
	r.resetState()
}

// SetHTML replaces the document with the rendering of s.
func (r *Renderer) SetHTML(s string) error {
	r.Reset()
	if err := r.Feed(strings.NewReader(s)); err != nil {
		return err
	}
	if r.opts.ReplaceNBSP {
		r.doc.ReplaceNBSP()
	}
	return nil
}

// Feed renders the HTML read from rd at the cursor.
func (r *Renderer) Feed(rd io.Reader) error {
	return html.Feed(rd, r)
}

// OpenTag handles a start tag event.
func (r *Renderer) OpenTag(name string, attrs map[string]string) {
	r.closeVoidFrames()
	r.afterPreOpen = false
	tag := normalize(name)
	if attrs == nil {
		attrs = map[string]string{}
	}
	r.attrs[tag] = attrs

	if isBlock(tag) && !r.suppressBoundary(tag) {
		r.blockBoundary(tag)
	}
	r.push(tag, attrs)
	if h, ok := handlers[tag]; ok && h.open != nil {
		h.open(r, attrs)
	}
}

// CloseTag handles an end tag event. Unmatched closers are tolerated.
func (r *Renderer) CloseTag(name string) {
	r.afterPreOpen = false
	tag := normalize(name)
	delete(r.attrs, tag)

	if h, ok := handlers[tag]; ok && h.close != nil {
		h.close(r)
	}
	r.pop(tag)
	if isBlock(tag) && !r.suppressBoundary(tag) {
		r.blockBoundary(tag)
	}
}

// Text handles character data.
func (r *Renderer) Text(data string) {
	r.closeVoidFrames()
	text := r.prepareText(data)
	r.afterPreOpen = false
	if r.inTableCell && strings.TrimSpace(text) != "" {
		text = center(text, CellWidth)
	}
	r.appendText(text)
}

// ActivateLink follows the hyperlink covering pos, if any.
func (r *Renderer) ActivateLink(pos int) bool {
	target, ok := r.LinkAt(pos)
	if !ok || r.opts.Navigator == nil {
		return false
	}
	r.opts.Navigator.Navigate(target)
	return true
}
