package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"easyview/pkg/render"
	"easyview/pkg/resource"
	"easyview/pkg/visualtest"
)

func main() {
	width := flag.Int("w", 800, "page width in pixels")
	output := flag.String("o", "", "write a PNG instead of the text dump")
	imageWidth := flag.Int("image-width", 250, "width images are scaled down to")
	compare := flag.String("compare", "", "reference PNG to compare the output with")
	maxDiff := flag.Float64("max-diff", 0, "percentage of pixels allowed to differ from the reference")
	offline := flag.Bool("offline", false, "do not fetch network images")
	verbose := flag.Bool("v", false, "log image loading")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: easyrender [flags] <input.html|->\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	input := flag.Arg(0)
	markup, baseDir, err := readInput(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", input, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var fallback resource.Fetcher
	if !*offline {
		fallback = resource.NewFetcher("")
	}
	renderer := resource.NewHTMLRenderer(resource.NewFileFetcher(baseDir, fallback))
	renderer.SetImageWidth(*imageWidth)
	renderer.SetLogger(logger)

	if *output == "" {
		doc, err := renderer.Document(ctx, markup)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(doc.String())
		return
	}

	img, err := renderer.RenderImage(ctx, markup, *width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}
	painter := render.NewRendererForImage(img)
	if err := painter.SavePNG(*output); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving PNG: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Saved %dx%d to %s\n", img.Bounds().Dx(), img.Bounds().Dy(), *output)

	if *compare == "" {
		return
	}
	opts := visualtest.DefaultOptions()
	opts.MaxDifferentPercent = *maxDiff
	opts.DiffImagePath = *output + ".diff.png"
	result, err := visualtest.CompareImages(*output, *compare, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error comparing: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%d of %d pixels differ (%.2f%%)\n", result.DifferentPixels, result.TotalPixels, result.DifferentPercent())
	if !result.Match {
		os.Exit(2)
	}
}

func readInput(name string) (markup, baseDir string, err error) {
	if name == "-" {
		body, err := io.ReadAll(os.Stdin)
		return string(body), ".", err
	}
	body, err := os.ReadFile(name)
	return string(body), filepath.Dir(name), err
}
