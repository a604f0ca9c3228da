package document

import "strings"

// Run is a maximal stretch of cells sharing one tag set. An embed is
// always a run of its own with empty Text.
type Run struct {
	Text  string
	Tags  Tags
	Embed Embed
	Pos   int
}

// Runs splits the document into style runs in document order.
func (d *Document) Runs() []Run {
	var runs []Run
	var b strings.Builder
	start := 0
	var cur Tags
	flush := func(end int) {
		if end > start {
			runs = append(runs, Run{Text: b.String(), Tags: cur, Pos: start})
		}
		b.Reset()
		start = end
	}
	for i, c := range d.cells {
		if c.obj != nil {
			flush(i)
			runs = append(runs, Run{Tags: c.tags, Embed: c.obj, Pos: i})
			start = i + 1
			continue
		}
		if i > start && !c.tags.Equal(cur) {
			flush(i)
		}
		if i == start {
			cur = c.tags
		}
		b.WriteRune(c.r)
	}
	flush(len(d.cells))
	return runs
}

// Lines groups runs by line. Line break characters are dropped; an empty
// line yields an empty slice.
func (d *Document) Lines() [][]Run {
	lines := [][]Run{nil}
	for _, run := range d.Runs() {
		if run.Embed != nil {
			lines[len(lines)-1] = append(lines[len(lines)-1], run)
			continue
		}
		pos := run.Pos
		for i, part := range strings.Split(run.Text, "\n") {
			if i > 0 {
				lines = append(lines, nil)
				pos++
			}
			if part != "" {
				lines[len(lines)-1] = append(lines[len(lines)-1], Run{Text: part, Tags: run.Tags, Pos: pos})
			}
			pos += len([]rune(part))
		}
	}
	return lines
}

// Placed is an embed together with where it sits.
type Placed struct {
	Pos   int
	Embed Embed
	Tags  Tags
}

// Embeds lists every embedded object in document order.
func (d *Document) Embeds() []Placed {
	var out []Placed
	for i, c := range d.cells {
		if c.obj != nil {
			out = append(out, Placed{Pos: i, Embed: c.obj, Tags: c.tags})
		}
	}
	return out
}
