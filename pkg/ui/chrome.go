package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"easyview/pkg/exercise"
)

// BreadcrumbSeparator is placed between crumbs.
const BreadcrumbSeparator = "›"

// Breadcrumbs is the trail above the document. Every crumb but the last is
// a link.
type Breadcrumbs struct {
	box  *fyne.Container
	goTo func(url string)
}

func NewBreadcrumbs(goTo func(url string)) *Breadcrumbs {
	return &Breadcrumbs{box: container.NewHBox(), goTo: goTo}
}

func (b *Breadcrumbs) CanvasObject() fyne.CanvasObject { return b.box }

func (b *Breadcrumbs) Objects() []fyne.CanvasObject { return b.box.Objects }

func (b *Breadcrumbs) Set(crumbs []exercise.Breadcrumb) {
	var objects []fyne.CanvasObject
	for i, crumb := range crumbs {
		if i > 0 {
			objects = append(objects, widget.NewLabel(BreadcrumbSeparator))
		}
		if i == len(crumbs)-1 {
			objects = append(objects, widget.NewLabelWithStyle(crumb.Label, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
			continue
		}
		link := widget.NewHyperlink(crumb.Label, nil)
		url := crumb.URL
		link.OnTapped = func() { b.goTo(url) }
		objects = append(objects, link)
	}
	b.box.Objects = objects
	b.box.Refresh()
}

// NewMenu converts provider menu items. Items with neither URL nor action
// are shown disabled.
func NewMenu(label string, items []exercise.MenuItem, activate func(exercise.MenuItem)) *fyne.Menu {
	var out []*fyne.MenuItem
	for _, item := range items {
		if item.IsSeparator() {
			out = append(out, fyne.NewMenuItemSeparator())
			continue
		}
		it := item
		mi := fyne.NewMenuItem(it.Label, func() { activate(it) })
		mi.Disabled = !it.Enabled()
		out = append(out, mi)
	}
	return fyne.NewMenu(label, out...)
}
