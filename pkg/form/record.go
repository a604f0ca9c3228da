package form

import (
	"errors"
	"fmt"

	"easyview/pkg/embed"
)

// ErrUnavailable is returned when an external field value cannot be
// produced, which cancels the whole submission.
var ErrUnavailable = errors.New("field value unavailable")

type Source int

const (
	Literal Source = iota
	External
	Widget
)

// Field describes one form input and where its value comes from.
type Field struct {
	Attrs   map[string]string
	Source  Source
	Literal string
	Token   string       // External: opaque key handed to the Resolver
	Widget  embed.Valued // Widget: read at submit time
}

func LiteralField(attrs map[string]string, value string) Field {
	return Field{Attrs: attrs, Source: Literal, Literal: value}
}

func ExternalField(attrs map[string]string, token string) Field {
	return Field{Attrs: attrs, Source: External, Token: token}
}

func WidgetField(attrs map[string]string, w embed.Valued) Field {
	return Field{Attrs: attrs, Source: Widget, Widget: w}
}

// Name returns the field's name attribute; unnamed fields are never submitted.
func (f Field) Name() (string, bool) {
	name, ok := f.Attrs["name"]
	return name, ok
}

// Resolver supplies values for External fields, e.g. the content of the
// active editor. ok=false means the value is unavailable.
type Resolver interface {
	Resolve(token string) (value string, ok bool)
}

type ResolverFunc func(token string) (string, bool)

func (f ResolverFunc) Resolve(token string) (string, bool) { return f(token) }

// Record is one <form>: its action target and fields in encounter order.
type Record struct {
	Action string
	Fields []Field
}

func NewRecord(action string) *Record {
	return &Record{Action: action}
}

func (r *Record) Add(f Field) {
	r.Fields = append(r.Fields, f)
}

// Resolve produces the submitted pairs. Any unavailable External field
// fails the whole form; nothing partial is returned.
func (r *Record) Resolve(ext Resolver) (*Data, error) {
	data := NewData()
	for _, f := range r.Fields {
		name, ok := f.Name()
		if !ok {
			continue
		}
		switch f.Source {
		case Literal:
			data.Add(name, f.Literal)
		case Widget:
			if f.Widget == nil {
				continue
			}
			data.Add(name, f.Widget.Value())
		case External:
			if ext == nil {
				return nil, fmt.Errorf("resolving %q: %w", name, ErrUnavailable)
			}
			value, ok := ext.Resolve(f.Token)
			if !ok {
				return nil, fmt.Errorf("resolving %q: %w", name, ErrUnavailable)
			}
			data.Add(name, value)
		}
	}
	return data, nil
}
