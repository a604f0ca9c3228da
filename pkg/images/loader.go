package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultBaseWidth is the width wider images are scaled down to.
const DefaultBaseWidth = 250

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Cache holds decoded images by source identifier. One cache lives for
// the whole process and is shared by every document rendered in it.
type Cache struct {
	cache map[string]image.Image
	mu    sync.RWMutex
}

func NewCache() *Cache {
	return &Cache{cache: make(map[string]image.Image)}
}

func (c *Cache) Get(src string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.cache[src]
	return img, ok
}

func (c *Cache) Put(src string, img image.Image) {
	c.mu.Lock()
	c.cache[src] = img
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Decode turns raw bytes into an image scaled to at most baseWidth
// pixels wide, keeping the aspect ratio. baseWidth <= 0 disables scaling.
func Decode(data []byte, baseWidth int) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return Scale(img, baseWidth), nil
}

// Scale shrinks img to width pixels wide. Narrower images are returned as is.
func Scale(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || b.Dx() <= width {
		return img
	}
	height := max(1, int(float64(b.Dy())*float64(width)/float64(b.Dx())))
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

var (
	placeholderOnce sync.Once
	placeholder     image.Image
)

// Placeholder returns the broken-image glyph shown until an image's bytes
// arrive. It is drawn once and shared.
func Placeholder() image.Image {
	placeholderOnce.Do(func() {
		dc := gg.NewContext(24, 24)
		dc.SetRGB(1, 1, 1)
		dc.Clear()
		dc.SetRGB(0.55, 0.55, 0.55)
		dc.SetLineWidth(1.5)
		dc.DrawRectangle(2.5, 2.5, 19, 19)
		dc.Stroke()
		dc.MoveTo(5, 19)
		dc.LineTo(10, 11)
		dc.LineTo(13, 15)
		dc.LineTo(16, 12)
		dc.LineTo(19, 19)
		dc.ClosePath()
		dc.Fill()
		dc.DrawCircle(16, 7, 2)
		dc.Fill()
		dc.SetRGB(0.8, 0.15, 0.15)
		dc.SetLineWidth(2)
		dc.DrawLine(4, 4, 20, 20)
		dc.Stroke()
		placeholder = dc.Image()
	})
	return placeholder
}

// IsDataURI reports whether s is an inline data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DataURIBytes extracts the payload of a data: URI.
func DataURIBytes(uri string) ([]byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URI: %.20q", uri)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data URI without payload")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding data URI: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data URI: %w", err)
	}
	return []byte(s), nil
}
