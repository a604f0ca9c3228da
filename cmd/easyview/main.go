package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"easyview/pkg/browser"
	"easyview/pkg/config"
	"easyview/pkg/images"
	"easyview/pkg/ui"
)

func main() {
	configPath := flag.String("config", "easyview.toml", "configuration file")
	provider := flag.String("provider", "", "page source, demo or http")
	baseURL := flag.String("url", "", "base URL of the http provider")
	editorFile := flag.String("editor", "", "file submitted as the editor content")
	start := flag.String("start", "/", "first page to open")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *editorFile != "" {
		cfg.EditorFile = *editorFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	a := app.New()
	w := a.NewWindow("easyview")
	w.Resize(fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)))

	var (
		ctrl   *browser.Controller
		view   *ui.View
		crumbs *ui.Breadcrumbs
		shown  string
	)
	ctrl = browser.New(browser.Options{
		Provider: cfg.NewProvider(),
		Editor:   editor(cfg.EditorFile),
		OpenURL: func(target string) {
			u, err := url.Parse(target)
			if err != nil {
				logger.Warn("bad link", "url", target, "err", err)
				return
			}
			if err := a.OpenURL(u); err != nil {
				logger.Warn("opening link", "url", target, "err", err)
			}
		},
		OnUnavailable: func(string) {
			dialog.ShowInformation("Not submitted", "Open a solution file in the editor before submitting.", w)
		},
		OnChange: func() {
			view.Rebuild()
			crumbs.Set(ctrl.Breadcrumbs())
			if cur := ctrl.CurrentURL(); cur != shown {
				shown = cur
				view.ScrollToTop()
			}
		},
		Cache:       images.NewCache(),
		ImageWidth:  cfg.ImageWidth,
		ReplaceNBSP: cfg.ReplaceNBSP,
		FileOptions: fileOptions(cfg.EditorFile),
		Logger:      logger,
	})
	view = ui.NewView(ctrl.Renderer())
	crumbs = ui.NewBreadcrumbs(func(target string) { ctrl.GoTo(target, nil) })

	reload := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), ctrl.Reload)
	var menuButton *widget.Button
	menuButton = widget.NewButtonWithIcon("", theme.MenuIcon(), func() {
		menu := ui.NewMenu("", ctrl.MenuItems(), ctrl.ActivateMenuItem)
		pos := a.Driver().AbsolutePositionForObject(menuButton)
		pos = pos.Add(fyne.NewPos(0, menuButton.Size().Height))
		widget.ShowPopUpMenuAtPosition(menu, w.Canvas(), pos)
	})

	top := container.NewBorder(nil, nil, nil, container.NewHBox(reload, menuButton), crumbs.CanvasObject())
	w.SetContent(container.NewBorder(top, nil, nil, nil, view.CanvasObject()))

	ctx, cancel := context.WithCancel(context.Background())
	go ctrl.Run(ctx, cfg.PollInterval, fyne.Do)
	w.SetOnClosed(func() {
		cancel()
		ctrl.Close()
	})

	ctrl.GoTo(*start, nil)
	w.ShowAndRun()
}
