// Package form models HTML forms collected while rendering: the fields a
// form declares, where each field's value comes from, and the ordered
// name/value pairs produced when the form is submitted.
package form

import (
	"net/url"
	"strings"
)

type Pair struct {
	Name  string
	Value string
}

// Data is an ordered multiset of submitted fields. Names may repeat, as
// with checkbox groups; order of encounter is kept.
type Data struct {
	pairs []Pair
}

func NewData(pairs ...Pair) *Data {
	return &Data{pairs: append([]Pair(nil), pairs...)}
}

func (d *Data) Add(name, value string) {
	d.pairs = append(d.pairs, Pair{Name: name, Value: value})
}

// Get returns the first value submitted under name.
func (d *Data) Get(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, p := range d.pairs {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// GetAll returns every value submitted under name, in order.
func (d *Data) GetAll(name string) []string {
	if d == nil {
		return nil
	}
	var out []string
	for _, p := range d.pairs {
		if p.Name == name {
			out = append(out, p.Value)
		}
	}
	return out
}

func (d *Data) Has(name string) bool {
	_, ok := d.Get(name)
	return ok
}

func (d *Data) Len() int {
	if d == nil {
		return 0
	}
	return len(d.pairs)
}

// Pairs returns a copy of the submitted pairs.
func (d *Data) Pairs() []Pair {
	if d == nil {
		return nil
	}
	return append([]Pair(nil), d.pairs...)
}

// Encode renders the pairs as application/x-www-form-urlencoded, keeping
// order and duplicates (url.Values would sort and group them).
func (d *Data) Encode() string {
	var b strings.Builder
	for i, p := range d.Pairs() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

func (d *Data) String() string {
	var parts []string
	for _, p := range d.Pairs() {
		parts = append(parts, p.Name+"="+p.Value)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
