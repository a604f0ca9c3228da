package htmltext

import (
	"image"

	"easyview/pkg/embed"
	"easyview/pkg/images"
)

// openImage inserts the picture for src right away: the cached image when
// one exists, the broken-image placeholder otherwise (and the fetch is
// requested).
func (r *Renderer) openImage(attrs map[string]string) {
	src := attrs["src"]
	if src == "" {
		return
	}
	content, ok := r.cache.Get(src)
	if !ok {
		content = images.Placeholder()
		if r.opts.RequestImage != nil {
			r.opts.RequestImage(src)
		}
	}
	img := embed.NewImage(src, content, !ok)
	r.insertEmbed(img)
	r.images[src] = append(r.images[src], img)
}

// UpdateImage decodes data for src, stores it in the shared cache and
// swaps it into every embed showing src. On a decode error the
// placeholders stay.
func (r *Renderer) UpdateImage(src string, data []byte) error {
	img, err := images.Decode(data, r.opts.ImageWidth)
	if err != nil {
		return err
	}
	r.cache.Put(src, img)
	r.SetImage(src, img)
	return nil
}

// SetImage shows an already decoded image in every embed for src.
func (r *Renderer) SetImage(src string, img image.Image) {
	for _, e := range r.images[src] {
		e.SetContent(img)
	}
}

// ImageEmbeds returns the embeds inserted for src in this document.
func (r *Renderer) ImageEmbeds(src string) []*embed.Image {
	return r.images[src]
}
