package resource

import (
	"context"
	"errors"
	"fmt"

	"easyview/pkg/images"
	stdnet "easyview/std/net"
)

var ErrNotNetwork = errors.New("cannot fetch non-network URI")

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher fetches resources over HTTP/HTTPS, resolving relative URIs
// against a base URL. Inline data: URIs are decoded without a request.
type DefaultFetcher struct {
	baseURL string
}

// NewFetcher creates a DefaultFetcher with the given base URL.
// Relative URIs passed to Fetch will be resolved against this base.
func NewFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{baseURL: baseURL}
}

func (f *DefaultFetcher) BaseURL() string {
	return f.baseURL
}

// Resolve returns uri made absolute against the base URL.
func (f *DefaultFetcher) Resolve(uri string) string {
	if !stdnet.IsNetworkURL(uri) && f.baseURL != "" {
		return stdnet.ResolveURL(f.baseURL, uri)
	}
	return uri
}

// Fetch retrieves the resource at the given URI.
// Relative URIs are resolved against the fetcher's base URL.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	if images.IsDataURI(uri) {
		body, err := images.DataURIBytes(uri)
		return body, "", err
	}
	resolved := f.Resolve(uri)
	if !stdnet.IsNetworkURL(resolved) {
		return nil, "", fmt.Errorf("%w: %s", ErrNotNetwork, resolved)
	}
	return stdnet.Fetch(ctx, resolved)
}

// Post submits an encoded form to uri, resolved like Fetch.
func (f *DefaultFetcher) Post(ctx context.Context, uri, encoded string) ([]byte, string, error) {
	resolved := f.Resolve(uri)
	if !stdnet.IsNetworkURL(resolved) {
		return nil, "", fmt.Errorf("%w: %s", ErrNotNetwork, resolved)
	}
	return stdnet.PostForm(ctx, resolved, encoded)
}

// FetchImage fetches an image URI and returns its raw bytes.
func (f *DefaultFetcher) FetchImage(ctx context.Context, uri string) ([]byte, error) {
	body, _, err := f.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	return body, nil
}
