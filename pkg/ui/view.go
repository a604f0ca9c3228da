package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"easyview/pkg/document"
	"easyview/pkg/embed"
	"easyview/pkg/htmltext"
)

// View displays the document of a renderer. Runs of text-only lines
// become one RichText; a line holding embeds becomes a row of widgets.
// Widgets are kept per embed handle, so rebuilding the view does not lose
// what the user typed.
type View struct {
	renderer *htmltext.Renderer
	box      *fyne.Container
	scroll   *container.Scroll
	widgets  map[document.Embed]fyne.CanvasObject
}

func NewView(r *htmltext.Renderer) *View {
	box := container.NewVBox()
	return &View{
		renderer: r,
		box:      box,
		scroll:   container.NewVScroll(box),
		widgets:  map[document.Embed]fyne.CanvasObject{},
	}
}

func (v *View) CanvasObject() fyne.CanvasObject { return v.scroll }

// Objects returns the rows currently shown.
func (v *View) Objects() []fyne.CanvasObject { return v.box.Objects }

// Rebuild reads the document again. Must run on the fyne thread.
func (v *View) Rebuild() {
	var (
		objects []fyne.CanvasObject
		para    [][]document.Run
	)
	flush := func() {
		if len(para) == 0 {
			return
		}
		rt := widget.NewRichText(Segments(para, v.activate)...)
		rt.Wrapping = fyne.TextWrapWord
		objects = append(objects, rt)
		para = nil
	}

	kept := make(map[document.Embed]fyne.CanvasObject, len(v.widgets))
	for _, line := range v.renderer.Document().Lines() {
		if !hasEmbed(line) {
			para = append(para, line)
			continue
		}
		flush()
		row := container.NewHBox()
		for _, run := range line {
			if run.Embed == nil {
				row.Add(widget.NewRichText(segmentFor(run, v.activate)))
				continue
			}
			w := v.widgetFor(run.Embed)
			kept[run.Embed] = w
			row.Add(w)
		}
		objects = append(objects, row)
	}
	flush()

	v.widgets = kept
	v.box.Objects = objects
	v.box.Refresh()
}

// ScrollToTop resets the scroll position, used after a new page arrives.
func (v *View) ScrollToTop() {
	v.scroll.ScrollToTop()
}

func (v *View) activate(pos int) {
	v.renderer.ActivateLink(pos)
}

func (v *View) widgetFor(e document.Embed) fyne.CanvasObject {
	if w, ok := v.widgets[e]; ok {
		return w
	}
	var w fyne.CanvasObject
	switch e := e.(type) {
	case *embed.Image:
		img := canvas.NewImageFromImage(e.Content())
		img.FillMode = canvas.ImageFillOriginal
		e.OnChange(func() {
			img.Image = e.Content()
			img.Refresh()
		})
		w = img
	case *embed.Button:
		w = widget.NewButton(e.Label, e.Activate)
	case *embed.TextField:
		entry := widget.NewEntry()
		entry.SetText(e.Value())
		entry.OnChanged = e.SetValue
		w = entry
	case *embed.FileChoice:
		sel := widget.NewSelect(e.Options, e.SetValue)
		sel.SetSelected(e.Value())
		w = sel
	default:
		w = widget.NewLabel(e.Describe())
	}
	return w
}

func hasEmbed(line []document.Run) bool {
	for _, run := range line {
		if run.Embed != nil {
			return true
		}
	}
	return false
}
