package document

import (
	"slices"
	"sort"
)

// Tags is a sorted set of style tag names attached to a document position.
type Tags []string

// NewTags builds a normalized tag set from the given names.
func NewTags(names ...string) Tags {
	if len(names) == 0 {
		return nil
	}
	t := make(Tags, 0, len(names))
	t = append(t, names...)
	sort.Strings(t)
	return slices.Compact(t)
}

func (t Tags) Has(name string) bool {
	i := sort.SearchStrings(t, name)
	return i < len(t) && t[i] == name
}

// With returns a new set holding the union of t and names.
func (t Tags) With(names ...string) Tags {
	all := make([]string, 0, len(t)+len(names))
	all = append(all, t...)
	all = append(all, names...)
	return NewTags(all...)
}

// Filter returns the members of t for which keep is true.
func (t Tags) Filter(keep func(string) bool) Tags {
	var out Tags
	for _, name := range t {
		if keep(name) {
			out = append(out, name)
		}
	}
	return out
}

func (t Tags) Equal(other Tags) bool {
	return slices.Equal(t, other)
}
