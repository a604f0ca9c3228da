package exercise

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"easyview/pkg/form"
	"easyview/pkg/resource"
)

// HTTP serves pages from a web service that returns HTML fragments.
// Provider URLs are paths resolved against the service base URL; form
// submissions are POSTed urlencoded.
type HTTP struct {
	fetcher    *resource.DefaultFetcher
	maxThreads int
}

func NewHTTP(baseURL string, maxThreads int) *HTTP {
	if maxThreads <= 0 {
		maxThreads = DefaultMaxThreads
	}
	return &HTTP{fetcher: resource.NewFetcher(baseURL), maxThreads: maxThreads}
}

func (h *HTTP) Page(ctx context.Context, target string, data *form.Data) (Page, error) {
	var (
		body []byte
		err  error
	)
	if data.Len() > 0 {
		body, _, err = h.fetcher.Post(ctx, target, data.Encode())
	} else {
		body, _, err = h.fetcher.Fetch(ctx, target)
	}
	if err != nil {
		return Page{}, fmt.Errorf("loading %s: %w", target, err)
	}
	return Page{HTML: string(body), Breadcrumbs: PathBreadcrumbs(target)}, nil
}

func (h *HTTP) Image(ctx context.Context, src string) ([]byte, error) {
	return h.fetcher.FetchImage(ctx, src)
}

func (h *HTTP) MaxThreads() int { return h.maxThreads }

func (h *HTTP) MenuItems() []MenuItem {
	return []MenuItem{{Label: "Home", URL: "/"}}
}

// PathBreadcrumbs builds a trail with one crumb per path segment of target.
func PathBreadcrumbs(target string) []Breadcrumb {
	crumbs := []Breadcrumb{{URL: "/", Label: "Home"}}
	u, err := url.Parse(target)
	if err != nil {
		return crumbs
	}
	prefix := ""
	for _, seg := range strings.Split(strings.Trim(u.EscapedPath(), "/"), "/") {
		if seg == "" {
			continue
		}
		prefix += "/" + seg
		label, err := url.PathUnescape(seg)
		if err != nil {
			label = seg
		}
		crumbs = append(crumbs, Breadcrumb{URL: prefix, Label: label})
	}
	return crumbs
}
