// Package browser drives an exercise view without depending on a widget
// toolkit. It fetches pages from a provider in the background, renders
// them on the caller's thread, loads images and routes links and form
// submissions.
//
// Every method except Run must be called on the host's UI thread. Run
// delivers Poll onto that thread through the supplied dispatcher.
package browser

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"easyview/pkg/document"
	"easyview/pkg/exercise"
	"easyview/pkg/form"
	"easyview/pkg/htmltext"
	"easyview/pkg/images"
)

// WaitPage is shown while a page is loading.
const WaitPage = "<p>Please wait...</p>"

// DefaultPollInterval is how often finished background work is applied.
const DefaultPollInterval = 200 * time.Millisecond

type Options struct {
	Provider exercise.Provider
	// Editor returns the content of the active editor; ok=false when
	// there is none.
	Editor func() (content string, ok bool)
	// OpenURL opens targets that are not provider URLs, typically in the
	// system browser.
	OpenURL func(url string)
	// OnUnavailable is told when a submission is dropped because its
	// editor content could not be read.
	OnUnavailable func(action string)
	// OnChange runs after the document or breadcrumbs were replaced.
	OnChange func()

	Cache       *images.Cache
	ImageWidth  int
	ReplaceNBSP bool
	FileOptions func() []string
	Logger      *slog.Logger
}

type pageRequest struct {
	url    string
	cancel context.CancelFunc

	done bool
	page exercise.Page
	err  error
}

type Controller struct {
	opts     Options
	log      *slog.Logger
	doc      *document.Document
	renderer *htmltext.Renderer
	sem      *semaphore.Weighted
	images   *images.Fetcher

	mu      sync.Mutex
	pending *pageRequest

	current     string
	breadcrumbs []exercise.Breadcrumb
	closed      bool
}

func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Cache == nil {
		opts.Cache = images.NewCache()
	}
	threads := int64(opts.Provider.MaxThreads())
	if threads <= 0 {
		threads = exercise.DefaultMaxThreads
	}

	c := &Controller{
		opts: opts,
		log:  opts.Logger,
		doc:  document.New(),
		sem:  semaphore.NewWeighted(threads),
	}
	c.images = images.NewFetcher(opts.Provider.Image, threads, opts.Logger)
	c.renderer = htmltext.New(c.doc, htmltext.Options{
		Navigator:      c,
		Resolver:       form.ResolverFunc(c.resolve),
		ExternalFields: []string{exercise.EditorContentName},
		OnSubmitError:  c.submitFailed,
		Cache:          opts.Cache,
		RequestImage:   func(src string) { c.images.Request(src) },
		ImageWidth:     opts.ImageWidth,
		FileOptions:    opts.FileOptions,
		ReplaceNBSP:    opts.ReplaceNBSP,
	})
	return c
}

func (c *Controller) Document() *document.Document { return c.doc }

func (c *Controller) Renderer() *htmltext.Renderer { return c.renderer }

// CurrentURL is the provider URL of the page being shown or loaded.
func (c *Controller) CurrentURL() string { return c.current }

func (c *Controller) Breadcrumbs() []exercise.Breadcrumb { return c.breadcrumbs }

// GoTo starts loading a provider page. A request still in flight is
// cancelled and its result dropped.
func (c *Controller) GoTo(url string, data *form.Data) {
	if c.closed {
		return
	}
	if data == nil {
		data = form.NewData()
	}
	ctx, cancel := context.WithCancel(context.Background())
	req := &pageRequest{url: url, cancel: cancel}

	c.mu.Lock()
	if c.pending != nil {
		c.pending.cancel()
	}
	c.pending = req
	c.mu.Unlock()

	c.current = url
	c.log.Debug("loading page", "url", url, "fields", data.Len())
	go c.load(ctx, req, data)

	c.show(WaitPage)
}

func (c *Controller) load(ctx context.Context, req *pageRequest, data *form.Data) {
	defer req.cancel()
	var (
		page exercise.Page
		err  error
	)
	if err = c.sem.Acquire(ctx, 1); err == nil {
		page, err = c.opts.Provider.Page(ctx, req.url, data)
		c.sem.Release(1)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != req {
		return
	}
	req.done, req.page, req.err = true, page, err
}

// Reload fetches the current page again.
func (c *Controller) Reload() {
	if c.current != "" {
		c.GoTo(c.current, nil)
	}
}

// Navigate follows a hyperlink: provider URLs load in the view, anything
// else goes to OpenURL.
func (c *Controller) Navigate(target string) {
	c.Submit(target, nil)
}

// Submit sends form data to target.
func (c *Controller) Submit(target string, data *form.Data) {
	if IsProviderURL(target) {
		c.GoTo(target, data)
		return
	}
	if c.opts.OpenURL != nil {
		c.opts.OpenURL(target)
		return
	}
	c.log.Warn("no handler for external link", "url", target)
}

// IsProviderURL reports whether target is served by the provider.
func IsProviderURL(target string) bool {
	return strings.HasPrefix(target, "/")
}

// Poll applies finished background work: a loaded page replaces the
// document and completed images replace their placeholders. It reports
// whether anything changed.
func (c *Controller) Poll() bool {
	if c.closed {
		return false
	}
	changed := false

	c.mu.Lock()
	req := c.pending
	if req != nil && req.done {
		c.pending = nil
	} else {
		req = nil
	}
	c.mu.Unlock()

	if req != nil {
		if req.err != nil {
			c.log.Error("page load failed", "url", req.url, "err", req.err)
			c.show(ErrorPage(req.err))
		} else {
			c.breadcrumbs = req.page.Breadcrumbs
			c.show(req.page.HTML)
		}
		changed = true
	}

	updated := false
	for _, res := range c.images.Drain() {
		if res.Err != nil {
			continue
		}
		if err := c.renderer.UpdateImage(res.Source, res.Data); err != nil {
			c.log.Warn("image not shown", "src", res.Source, "err", err)
			continue
		}
		updated = true
	}
	if updated && c.opts.OnChange != nil {
		c.opts.OnChange()
	}
	return changed || updated
}

// Loading reports whether a page request is outstanding.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Run polls every interval until ctx ends. dispatch must run its argument
// on the UI thread, e.g. fyne.Do.
func (c *Controller) Run(ctx context.Context, interval time.Duration, dispatch func(func())) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dispatch(func() { c.Poll() })
		}
	}
}

// MenuItems asks the provider for its current menu.
func (c *Controller) MenuItems() []exercise.MenuItem {
	return c.opts.Provider.MenuItems()
}

// ActivateMenuItem runs a menu entry. Separators and disabled items do nothing.
func (c *Controller) ActivateMenuItem(item exercise.MenuItem) {
	switch {
	case item.IsSeparator():
	case item.URL != "":
		c.GoTo(item.URL, nil)
	case item.Action != nil:
		item.Action()
	}
}

// Close cancels outstanding work. The controller is unusable afterwards.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.mu.Lock()
	if c.pending != nil {
		c.pending.cancel()
		c.pending = nil
	}
	c.mu.Unlock()
	c.images.Close()
}

func (c *Controller) show(markup string) {
	if err := c.renderer.SetHTML(markup); err != nil {
		c.log.Error("rendering page", "url", c.current, "err", err)
	}
	if c.opts.OnChange != nil {
		c.opts.OnChange()
	}
}

func (c *Controller) resolve(token string) (string, bool) {
	if token != exercise.EditorContentName || c.opts.Editor == nil {
		return "", false
	}
	return c.opts.Editor()
}

func (c *Controller) submitFailed(action string, err error) {
	c.log.Warn("submission dropped", "action", action, "err", err)
	if c.opts.OnUnavailable != nil {
		c.opts.OnUnavailable(action)
	}
}

// ErrorPage renders err as preformatted text.
func ErrorPage(err error) string {
	return fmt.Sprintf("<pre>%s</pre>", html.EscapeString(err.Error()))
}
