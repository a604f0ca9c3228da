// Package embed holds the objects the renderer places inline in a
// document: images and form widgets. Each is a pointer handle, so the
// toolkit layer and the renderer can keep referring to the same object
// after it scrolls out of view or its content changes.
package embed

import (
	"fmt"
	"image"
)

// Valued is implemented by embeds that hold a user-editable value.
type Valued interface {
	Value() string
}

type listeners struct {
	fns []func()
}

// OnChange registers fn to run after every content change.
func (l *listeners) OnChange(fn func()) {
	l.fns = append(l.fns, fn)
}

func (l *listeners) notify() {
	for _, fn := range l.fns {
		fn()
	}
}

// Image is an inline picture. Until real bytes arrive it shows a placeholder.
type Image struct {
	listeners
	Source      string
	content     image.Image
	placeholder bool
}

func NewImage(src string, content image.Image, placeholder bool) *Image {
	return &Image{Source: src, content: content, placeholder: placeholder}
}

func (i *Image) Content() image.Image { return i.content }

func (i *Image) IsPlaceholder() bool { return i.placeholder }

// SetContent replaces the displayed picture in place.
func (i *Image) SetContent(img image.Image) {
	i.content = img
	i.placeholder = false
	i.notify()
}

func (i *Image) Describe() string {
	if i.placeholder {
		return "image " + i.Source + " (loading)"
	}
	if i.content != nil {
		b := i.content.Bounds()
		return fmt.Sprintf("image %s %dx%d", i.Source, b.Dx(), b.Dy())
	}
	return "image " + i.Source
}

// Button is a submit button.
type Button struct {
	Label      string
	Attrs      map[string]string
	onActivate func()
}

func NewButton(label string, attrs map[string]string, onActivate func()) *Button {
	return &Button{Label: label, Attrs: attrs, onActivate: onActivate}
}

// Activate runs the bound action, if any.
func (b *Button) Activate() {
	if b.onActivate != nil {
		b.onActivate()
	}
}

func (b *Button) Describe() string { return "button " + b.Label }

// TextField is a single text entry.
type TextField struct {
	listeners
	Attrs map[string]string
	value string
}

func NewTextField(attrs map[string]string) *TextField {
	return &TextField{Attrs: attrs, value: attrs["value"]}
}

func (f *TextField) Value() string { return f.value }

func (f *TextField) SetValue(v string) {
	if v == f.value {
		return
	}
	f.value = v
	f.notify()
}

func (f *TextField) Describe() string { return fmt.Sprintf("text %s=%q", f.Attrs["name"], f.value) }

// FileChoice lets the user pick one of a fixed set of file names.
type FileChoice struct {
	listeners
	Attrs    map[string]string
	Options  []string
	selected string
}

func NewFileChoice(attrs map[string]string, options []string) *FileChoice {
	c := &FileChoice{Attrs: attrs, Options: options}
	if len(options) > 0 {
		c.selected = options[0]
	}
	return c
}

func (c *FileChoice) Value() string { return c.selected }

func (c *FileChoice) SetValue(v string) {
	if v == c.selected {
		return
	}
	c.selected = v
	c.notify()
}

func (c *FileChoice) Describe() string { return fmt.Sprintf("file %s=%q", c.Attrs["name"], c.selected) }
