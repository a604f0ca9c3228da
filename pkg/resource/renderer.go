package resource

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"easyview/pkg/document"
	"easyview/pkg/htmltext"
	"easyview/pkg/render"
	"easyview/pkg/text"
)

// Renderer renders HTML content onto an image.
type Renderer interface {
	Render(ctx context.Context, htmlContent string, target *image.RGBA) error
}

// HTMLRenderer renders pages without a window: markup goes through the
// text renderer, images are fetched synchronously and the document is
// painted with gg.
type HTMLRenderer struct {
	fetcher    Fetcher
	fonts      *text.Fonts
	imageWidth int
	logger     *slog.Logger
}

// NewHTMLRenderer creates a renderer loading images through fetcher. If
// fonts is empty the bundled fonts are used.
func NewHTMLRenderer(fetcher Fetcher, fonts ...text.FontConfig) *HTMLRenderer {
	fc := text.DefaultFontConfig()
	if len(fonts) > 0 {
		fc = fonts[0]
	}
	return &HTMLRenderer{
		fetcher: fetcher,
		fonts:   text.NewFonts(fc),
		logger:  slog.Default(),
	}
}

// SetImageWidth sets the width images are scaled down to.
func (r *HTMLRenderer) SetImageWidth(width int) {
	r.imageWidth = width
}

func (r *HTMLRenderer) SetLogger(logger *slog.Logger) {
	r.logger = logger
}

// Document renders htmlContent into a new document with every image
// resolved. Images that fail to load keep their placeholder.
func (r *HTMLRenderer) Document(ctx context.Context, htmlContent string) (*document.Document, error) {
	doc := document.New()
	var pending []string
	tr := htmltext.New(doc, htmltext.Options{
		ImageWidth:   r.imageWidth,
		RequestImage: func(src string) { pending = append(pending, src) },
	})
	if err := tr.SetHTML(htmlContent); err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	seen := make(map[string]bool)
	for _, src := range pending {
		if seen[src] || r.fetcher == nil {
			continue
		}
		seen[src] = true
		body, _, err := r.fetcher.Fetch(ctx, src)
		if err == nil {
			err = tr.UpdateImage(src, body)
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Warn("image not loaded", "src", src, "error", err)
		}
	}
	return doc, nil
}

// Render paints htmlContent onto target, using its width for layout.
func (r *HTMLRenderer) Render(ctx context.Context, htmlContent string, target *image.RGBA) error {
	doc, err := r.Document(ctx, htmlContent)
	if err != nil {
		return err
	}
	painter := render.NewRendererForImage(target)
	painter.SetFonts(r.fonts)
	painter.RenderDocument(doc)
	return nil
}

// RenderImage paints htmlContent at width onto an image tall enough for
// the whole page.
func (r *HTMLRenderer) RenderImage(ctx context.Context, htmlContent string, width int) (*image.RGBA, error) {
	doc, err := r.Document(ctx, htmlContent)
	if err != nil {
		return nil, err
	}
	frags, height := render.Layout(doc, float64(width), r.fonts)
	target := image.NewRGBA(image.Rect(0, 0, width, int(height)+1))
	painter := render.NewRendererForImage(target)
	painter.SetFonts(r.fonts)
	painter.Render(frags)
	return target, nil
}
