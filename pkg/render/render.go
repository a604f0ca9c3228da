// Package render paints a laid out document with gg. It backs the headless
// renderer and PNG snapshots of exercise pages.
package render

import (
	"image"

	"github.com/fogleman/gg"

	"easyview/pkg/document"
	"easyview/pkg/embed"
	"easyview/pkg/text"
)

type Renderer struct {
	context *gg.Context
	fonts   *text.Fonts
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{context: gg.NewContext(width, height), fonts: text.NewFonts(text.DefaultFontConfig())}
}

// NewRendererForImage paints directly into target.
func NewRendererForImage(target *image.RGBA) *Renderer {
	return &Renderer{context: gg.NewContextForRGBA(target), fonts: text.NewFonts(text.DefaultFontConfig())}
}

func (r *Renderer) SetFonts(fonts *text.Fonts) {
	r.fonts = fonts
}

func (r *Renderer) Fonts() *text.Fonts {
	return r.fonts
}

// Render clears the canvas and paints frags.
func (r *Renderer) Render(frags []Fragment) {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()
	for _, f := range frags {
		if f.Embed != nil {
			r.drawEmbed(f)
			continue
		}
		r.drawText(f)
	}
}

// RenderDocument lays doc out at the canvas width and paints it.
func (r *Renderer) RenderDocument(doc *document.Document) []Fragment {
	frags, _ := Layout(doc, float64(r.context.Width()), r.fonts)
	r.Render(frags)
	return frags
}

func (r *Renderer) drawText(f Fragment) {
	face, err := r.fonts.Face(f.Style)
	if err != nil {
		return
	}
	r.context.SetFontFace(face)

	baseline := f.Y + f.Style.Size
	if f.Style.Link {
		r.context.SetRGB(0.02, 0.31, 0.74)
		r.context.SetLineWidth(1)
		r.context.DrawLine(f.X, baseline+2, f.X+f.Width, baseline+2)
		r.context.Stroke()
	} else {
		r.context.SetRGB(0.1, 0.1, 0.1)
	}
	r.context.DrawString(f.Text, f.X, baseline)
}

func (r *Renderer) drawEmbed(f Fragment) {
	switch e := f.Embed.(type) {
	case *embed.Image:
		if c := e.Content(); c != nil {
			r.context.DrawImage(c, int(f.X), int(f.Y))
		}
	case *embed.Button:
		r.context.SetRGB(0.92, 0.92, 0.92)
		r.context.DrawRoundedRectangle(f.X+1, f.Y+1, f.Width-2, f.Height-2, 4)
		r.context.FillPreserve()
		r.context.SetRGB(0.6, 0.6, 0.6)
		r.context.SetLineWidth(1)
		r.context.Stroke()
		r.drawLabel(e.Label, f, true)
	case *embed.TextField:
		r.drawField(f)
		r.drawLabel(e.Value(), f, false)
	case *embed.FileChoice:
		r.drawField(f)
		r.drawLabel(e.Value()+" ▾", f, false)
	}
}

func (r *Renderer) drawField(f Fragment) {
	r.context.SetRGB(1, 1, 1)
	r.context.DrawRectangle(f.X+1, f.Y+1, f.Width-2, f.Height-2)
	r.context.FillPreserve()
	r.context.SetRGB(0.6, 0.6, 0.6)
	r.context.SetLineWidth(1)
	r.context.Stroke()
}

func (r *Renderer) drawLabel(label string, f Fragment, centered bool) {
	style := f.Style
	style.Link = false
	face, err := r.fonts.Face(style)
	if err != nil {
		return
	}
	r.context.SetFontFace(face)
	r.context.SetRGB(0.1, 0.1, 0.1)
	ax := 0.0
	x := f.X + widgetPad
	if centered {
		ax, x = 0.5, f.X+f.Width/2
	}
	r.context.DrawStringAnchored(label, x, f.Y+f.Height/2, ax, 0.35)
}

func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}
