package htmltext

import (
	"maps"
	"strings"

	"easyview/pkg/document"
	"easyview/pkg/embed"
	"easyview/pkg/form"
)

// textTypes are the input types rendered as a plain text entry.
var textTypes = map[string]bool{
	"text": true, "password": true, "email": true, "search": true,
	"url": true, "tel": true, "number": true,
}

func (r *Renderer) openForm(attrs map[string]string) {
	r.forms = append(r.forms, form.NewRecord(attrs["action"]))
}

func (r *Renderer) closeForm() {
	if len(r.forms) > 0 {
		r.forms = r.forms[:len(r.forms)-1]
	}
}

func (r *Renderer) currentForm() *form.Record {
	if len(r.forms) == 0 {
		return nil
	}
	return r.forms[len(r.forms)-1]
}

func (r *Renderer) openInput(attrs map[string]string) {
	attrs = maps.Clone(attrs)
	if attrs == nil {
		attrs = make(map[string]string)
	}
	typ := strings.ToLower(attrs["type"])
	if typ == "" {
		typ = "text"
	}
	attrs["type"] = typ
	rec := r.currentForm()
	name, named := attrs["name"]

	switch {
	case typ == "hidden":
		if rec == nil {
			return
		}
		if named && r.external[name] {
			rec.Add(form.ExternalField(attrs, name))
			return
		}
		rec.Add(form.LiteralField(attrs, attrs["value"]))

	case typ == "submit":
		label, ok := attrs["value"]
		if !ok {
			label = "Submit"
		}
		gen := r.generation
		btn := embed.NewButton(label, attrs, func() {
			r.submit(gen, rec, attrs, label)
		})
		r.insertEmbed(btn)

	case typ == "file":
		var options []string
		if r.opts.FileOptions != nil {
			options = r.opts.FileOptions()
		}
		choice := embed.NewFileChoice(attrs, options)
		r.insertEmbed(choice)
		if rec != nil && named {
			rec.Add(form.WidgetField(attrs, choice))
		}

	case textTypes[typ]:
		field := embed.NewTextField(attrs)
		r.insertEmbed(field)
		if rec != nil {
			rec.Add(form.WidgetField(attrs, field))
		}
	}
}

// submit resolves rec and hands the result to the navigator. Buttons of
// a replaced document, buttons outside any form and forms with an
// unavailable field do nothing.
func (r *Renderer) submit(gen int, rec *form.Record, btnAttrs map[string]string, label string) {
	if gen != r.generation || rec == nil || r.opts.Navigator == nil {
		return
	}
	data, err := rec.Resolve(r.opts.Resolver)
	if err != nil {
		if r.opts.OnSubmitError != nil {
			r.opts.OnSubmitError(rec.Action, err)
		}
		return
	}
	if name, ok := btnAttrs["name"]; ok {
		data.Add(name, label)
	}
	r.opts.Navigator.Submit(rec.Action, data)
}

func (r *Renderer) insertEmbed(obj document.Embed) int {
	return r.doc.InsertEmbed(obj, r.effectiveTags())
}
