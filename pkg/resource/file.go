package resource

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"easyview/pkg/images"
	stdnet "easyview/std/net"
)

// FileFetcher reads resources from a directory. Network URIs are
// delegated to an optional fallback.
type FileFetcher struct {
	root     string
	fallback Fetcher
}

func NewFileFetcher(root string, fallback Fetcher) *FileFetcher {
	return &FileFetcher{root: root, fallback: fallback}
}

func (f *FileFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	if images.IsDataURI(uri) {
		body, err := images.DataURIBytes(uri)
		return body, "", err
	}
	if stdnet.IsNetworkURL(uri) {
		if f.fallback == nil {
			return nil, "", fmt.Errorf("no network access for %s", uri)
		}
		return f.fallback.Fetch(ctx, uri)
	}
	rel := filepath.FromSlash(strings.TrimPrefix(uri, "file://"))
	path := rel
	if !filepath.IsAbs(rel) {
		path = filepath.Join(f.root, rel)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", uri, err)
	}
	return body, mime.TypeByExtension(filepath.Ext(path)), nil
}
