package htmltext

import "fmt"

// CellWidth is the field width table cell text is centered in.
const CellWidth = 20

// Bullets cycle with the nesting depth of unordered lists.
var Bullets = [...]string{"•", "◦", "▹"}

type listFrame struct {
	ordered bool
	counter int
}

func (r *Renderer) openUnordered(map[string]string) {
	r.lists = append(r.lists, listFrame{})
}

func (r *Renderer) openOrdered(map[string]string) {
	r.lists = append(r.lists, listFrame{ordered: true})
}

func (r *Renderer) closeUnordered() { r.closeList(false) }

func (r *Renderer) closeOrdered() { r.closeList(true) }

// closeList pops list frames down to and including the nearest one of
// the given kind, like the tag stack does for mismatched closers.
func (r *Renderer) closeList(ordered bool) {
	for len(r.lists) > 0 {
		top := r.lists[len(r.lists)-1]
		r.lists = r.lists[:len(r.lists)-1]
		if top.ordered == ordered {
			return
		}
	}
}

func (r *Renderer) openItem(map[string]string) {
	if len(r.lists) == 0 {
		return
	}
	top := &r.lists[len(r.lists)-1]
	if top.ordered {
		top.counter++
		r.appendText(fmt.Sprintf("%d.%s", top.counter, nbsp))
		return
	}
	r.appendText(BulletMarker(r.unorderedDepth()))
}

// unorderedDepth is the 0-based nesting level among open unordered lists.
func (r *Renderer) unorderedDepth() int {
	n := 0
	for _, l := range r.lists {
		if !l.ordered {
			n++
		}
	}
	return max(0, n-1)
}

// BulletMarker returns the item marker for an unordered list at depth.
func BulletMarker(depth int) string {
	return Bullets[depth%len(Bullets)] + nbsp
}

func (r *Renderer) openCell(map[string]string) {
	r.inTableCell = true
}

func (r *Renderer) closeCell() {
	r.inTableCell = false
}
