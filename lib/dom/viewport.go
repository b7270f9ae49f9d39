package dom

import (
	"strconv"
	"strings"
)

// Viewport is the visible window onto the document.
type Viewport struct {
	Width   int
	Height  int
	ScrollX int
	ScrollY int
}

// Rect is an element's declared geometry in document coordinates.
type Rect struct {
	Top    int
	Left   int
	Width  int
	Height int
}

// Bottom returns the rect's bottom edge.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Viewport returns the current viewport.
func (d *Document) Viewport() Viewport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewport
}

// SetViewport replaces the viewport geometry without dispatching.
func (d *Document) SetViewport(v Viewport) {
	d.mu.Lock()
	d.viewport = v
	d.mu.Unlock()
}

// SetScroll updates the scroll position and dispatches a document-level
// "scroll" event, which the scroll-driven controllers listen for.
func (d *Document) SetScroll(x, y int) {
	d.mu.Lock()
	d.viewport.ScrollX = x
	d.viewport.ScrollY = y
	d.mu.Unlock()
	d.DispatchDocument("scroll", nil)
}

// Rect parses the element's declared geometry from the x-rect
// attribute ("top,left,width,height", later values optional). The
// second return is false when no geometry is declared.
func (e *Element) Rect() (Rect, bool) {
	raw := e.Attr("x-rect")
	if raw == "" {
		return Rect{}, false
	}
	parts := strings.Split(raw, ",")
	vals := [4]int{}
	for i := 0; i < len(parts) && i < 4; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return Rect{}, false
		}
		vals[i] = v
	}
	return Rect{Top: vals[0], Left: vals[1], Width: vals[2], Height: vals[3]}, true
}

// SetRect declares the element's geometry.
func (e *Element) SetRect(r Rect) {
	e.SetAttr("x-rect", strings.Join([]string{
		strconv.Itoa(r.Top),
		strconv.Itoa(r.Left),
		strconv.Itoa(r.Width),
		strconv.Itoa(r.Height),
	}, ","))
}

// InViewport reports whether any part of the element's declared rect
// is inside the viewport, expanded by offset pixels on the vertical
// axis. Elements without geometry are never in view.
func (e *Element) InViewport(offset int) bool {
	r, ok := e.Rect()
	if !ok {
		return false
	}
	v := e.doc.Viewport()
	top := v.ScrollY - offset
	bottom := v.ScrollY + v.Height + offset
	return r.Bottom() > top && r.Top < bottom
}
