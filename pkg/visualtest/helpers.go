package visualtest

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"easyview/pkg/resource"
)

// RenderHTML renders markup at the given width. Images are read from files
// relative to basePath.
func RenderHTML(ctx context.Context, markup string, width int, basePath string) (image.Image, error) {
	r := resource.NewHTMLRenderer(resource.NewFileFetcher(basePath, nil))
	img, err := r.RenderImage(ctx, markup, width)
	if err != nil {
		return nil, fmt.Errorf("rendering markup: %w", err)
	}
	return img, nil
}

// RenderHTMLToFile renders markup into a PNG file.
func RenderHTMLToFile(ctx context.Context, markup, outputPath string, width int, basePath string) error {
	img, err := RenderHTML(ctx, markup, width, basePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := savePNG(img, outputPath); err != nil {
		return fmt.Errorf("saving %s: %w", outputPath, err)
	}
	return nil
}
