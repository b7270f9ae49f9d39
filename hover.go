package x

import (
	"context"
	"sync"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
)

const (
	attrHover  = "x-hover"
	classHover = "hover"
)

// HoverController mirrors hover state across elements sharing an
// x-hover key: pointer enter on any of them applies the hover class to
// the whole group, pointer leave removes it. Used to highlight linked
// navigation and content pairs.
type HoverController struct {
	doc *dom.Document

	mu      sync.Mutex
	groups  map[string][]*dom.Element
	handles []dom.ListenerHandle
}

// NewHoverController creates the controller.
func NewHoverController(doc *dom.Document) *HoverController {
	return &HoverController{doc: doc, groups: make(map[string][]*dom.Element)}
}

// Attribute implements Controller.
func (c *HoverController) Attribute() string { return attrHover }

// Attach groups elements by key and wires pointer events.
func (c *HoverController) Attach(ctx context.Context) error {
	c.Detach()

	c.mu.Lock()
	c.groups = make(map[string][]*dom.Element)
	for _, el := range c.doc.QueryAll("[" + attrHover + "]") {
		key := el.Attr(attrHover)
		if key == "" {
			continue
		}
		c.groups[key] = append(c.groups[key], el)
	}
	groups := c.groups
	c.mu.Unlock()

	var handles []dom.ListenerHandle
	for key, members := range groups {
		k := key
		for _, el := range members {
			handles = append(handles,
				el.On("mouseenter", func(*dom.Event) { c.set(k, true) }),
				el.On("mouseleave", func(*dom.Event) { c.set(k, false) }),
			)
		}
	}

	c.mu.Lock()
	c.handles = handles
	c.mu.Unlock()
	return nil
}

// Detach removes the controller's listeners.
func (c *HoverController) Detach() {
	c.mu.Lock()
	handles := c.handles
	c.handles = nil
	c.mu.Unlock()
	for _, h := range handles {
		c.doc.Off(h)
	}
}

// set applies or removes the hover class on a whole group.
func (c *HoverController) set(key string, on bool) {
	c.mu.Lock()
	members := c.groups[key]
	c.mu.Unlock()
	for _, el := range members {
		if on {
			el.AddClass(classHover)
		} else {
			el.RemoveClass(classHover)
		}
	}
}
