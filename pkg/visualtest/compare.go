// Package visualtest compares page snapshots pixel by pixel. It checks
// rendered exercise pages against stored PNG references.
package visualtest

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// CompareResult contains the results of an image comparison
type CompareResult struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int // largest channel difference, 0-255
}

// DifferentPercent is the share of mismatching pixels.
func (r *CompareResult) DifferentPercent() float64 {
	if r.TotalPixels == 0 {
		return 0
	}
	return float64(r.DifferentPixels) / float64(r.TotalPixels) * 100
}

// CompareOptions configures the image comparison
type CompareOptions struct {
	// Tolerance is the largest channel difference still counted as equal.
	Tolerance int

	// FuzzyRadius lets a pixel match any reference pixel within the radius,
	// absorbing one or two pixel glyph shifts between font rasterizers.
	FuzzyRadius int

	// MaxDifferentPercent passes comparisons with at most this share of
	// mismatching pixels.
	MaxDifferentPercent float64

	// DiffImagePath, when set, receives a picture of the mismatches.
	DiffImagePath string
}

func DefaultOptions() CompareOptions {
	return CompareOptions{Tolerance: 2}
}

// Compare checks actual against expected.
func Compare(actual, expected image.Image, opts CompareOptions) (*CompareResult, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return &CompareResult{}, fmt.Errorf("image dimensions differ: actual=%v, expected=%v", bounds, expected.Bounds())
	}

	result := &CompareResult{Match: true, TotalPixels: bounds.Dx() * bounds.Dy()}
	var diffImg *image.RGBA
	if opts.DiffImagePath != "" {
		diffImg = image.NewRGBA(bounds)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			d := pixelDiff(actual.At(x, y), expected.At(x, y))
			result.MaxDifference = max(result.MaxDifference, d)

			ok := d <= opts.Tolerance ||
				opts.FuzzyRadius > 0 && fuzzyMatch(actual, expected, x, y, opts.FuzzyRadius, opts.Tolerance)
			if !ok {
				result.Match = false
				result.DifferentPixels++
			}
			if diffImg != nil {
				diffImg.Set(x, y, diffColor(actual.At(x, y), ok))
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 && result.DifferentPercent() <= opts.MaxDifferentPercent {
		result.Match = true
	}

	if diffImg != nil && !result.Match {
		if err := savePNG(diffImg, opts.DiffImagePath); err != nil {
			return result, fmt.Errorf("saving diff image: %w", err)
		}
	}
	return result, nil
}

// CompareImages compares two PNG files.
func CompareImages(actualPath, expectedPath string, opts CompareOptions) (*CompareResult, error) {
	actual, err := loadPNG(actualPath)
	if err != nil {
		return nil, fmt.Errorf("loading actual image: %w", err)
	}
	expected, err := loadPNG(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("loading expected image: %w", err)
	}
	return Compare(actual, expected, opts)
}

func pixelDiff(a, b color.Color) int {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return max(
		channelDiff(ar, br),
		channelDiff(ag, bg),
		channelDiff(ab, bb),
		channelDiff(aa, ba),
	)
}

// channelDiff compares two 16-bit channels at 8-bit precision.
func channelDiff(a, b uint32) int {
	d := int(a>>8) - int(b>>8)
	if d < 0 {
		return -d
	}
	return d
}

func diffColor(c color.Color, ok bool) color.Color {
	if !ok {
		return color.RGBA{255, 0, 0, 255}
	}
	gray := color.GrayModel.Convert(c).(color.Gray)
	return color.RGBA{gray.Y, gray.Y, gray.Y, 255}
}

// fuzzyMatch checks if the actual pixel at (x, y) matches any expected pixel within radius
func fuzzyMatch(actual, expected image.Image, x, y, radius, tolerance int) bool {
	bounds := expected.Bounds()
	c := actual.At(x, y)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := image.Pt(x+dx, y+dy)
			if !p.In(bounds) {
				continue
			}
			if pixelDiff(c, expected.At(p.X, p.Y)) <= tolerance {
				return true
			}
		}
	}
	return false
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func savePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}
