// Package exercise defines where exercise pages come from. A Provider
// turns a provider URL plus optional form data into an HTML fragment and
// breadcrumbs; the host renders the fragment and routes links and form
// submissions back to the provider.
package exercise

import (
	"context"
	"errors"

	"easyview/pkg/form"
	"easyview/pkg/htmltext"
)

// EditorContentName is the hidden field filled with the active editor's
// text at submit time.
const EditorContentName = htmltext.EditorContent

// DefaultMaxThreads bounds concurrent fetches unless a provider says otherwise.
const DefaultMaxThreads = 10

// ErrNotFound is returned for provider URLs with no page.
var ErrNotFound = errors.New("page not found")

// Breadcrumb is one step of the navigation trail above a page.
type Breadcrumb struct {
	URL   string
	Label string
}

// Page is a rendered provider response.
type Page struct {
	HTML        string
	Breadcrumbs []Breadcrumb
}

// Separator is the label of a menu separator.
const Separator = "-"

// MenuItem is an entry of the provider menu. Exactly one of URL and Action
// is set for an enabled item; neither for a disabled one.
type MenuItem struct {
	Label string
	// URL is a provider URL fetched like a clicked link.
	URL string
	// Action runs on the host's UI thread.
	Action func()
}

func (m MenuItem) IsSeparator() bool { return m.Label == Separator }

func (m MenuItem) Enabled() bool { return m.URL != "" || m.Action != nil }

// Provider serves exercise pages. Page and Image are called from worker
// goroutines and must be safe for concurrent use.
type Provider interface {
	// Page returns the page for url. data is empty for plain navigation.
	Page(ctx context.Context, url string, data *form.Data) (Page, error)
	// Image returns the raw bytes of an image referenced by a page.
	Image(ctx context.Context, url string) ([]byte, error)
	// MaxThreads bounds the number of concurrent fetches.
	MaxThreads() int
	// MenuItems is asked each time the menu opens.
	MenuItems() []MenuItem
}
