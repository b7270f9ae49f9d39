package x

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
)

const (
	attrDropdown       = "x-dropdown"
	attrDropdownToggle = "x-dropdown-toggle"
	classOpen          = "open"
)

// DropdownController toggles dropdown menus. A container carries
// x-dropdown; clicking its toggle (an x-dropdown-toggle descendant, or
// the container itself) flips the open class. Opening one dropdown
// closes the others, and any click outside an open dropdown closes it.
type DropdownController struct {
	doc *dom.Document
	log zerolog.Logger

	mu        sync.Mutex
	dropdowns []*dom.Element
	handles   []dom.ListenerHandle
}

// NewDropdownController creates the controller.
func NewDropdownController(doc *dom.Document, log zerolog.Logger) *DropdownController {
	return &DropdownController{
		doc: doc,
		log: log.With().Str("controller", attrDropdown).Logger(),
	}
}

// Attribute implements Controller.
func (c *DropdownController) Attribute() string { return attrDropdown }

// Attach discovers dropdowns and installs listeners.
func (c *DropdownController) Attach(ctx context.Context) error {
	c.Detach()

	c.mu.Lock()
	c.dropdowns = c.doc.QueryAll("[" + attrDropdown + "]")
	dropdowns := c.dropdowns
	c.mu.Unlock()

	var handles []dom.ListenerHandle
	for _, dd := range dropdowns {
		toggle := dd.Query("[" + attrDropdownToggle + "]")
		if toggle == nil {
			toggle = dd
		}
		container := dd
		handles = append(handles, toggle.On("click", func(ev *dom.Event) {
			ev.PreventDefault()
			c.toggle(container)
		}))
	}
	handles = append(handles, c.doc.OnDocument("click", c.onDocumentClick))

	c.mu.Lock()
	c.handles = handles
	c.mu.Unlock()
	return nil
}

// Detach removes the controller's listeners.
func (c *DropdownController) Detach() {
	c.mu.Lock()
	handles := c.handles
	c.handles = nil
	c.mu.Unlock()
	for _, h := range handles {
		c.doc.Off(h)
	}
}

// toggle flips one dropdown and closes the rest.
func (c *DropdownController) toggle(dd *dom.Element) {
	wasOpen := dd.HasClass(classOpen)
	c.closeAll(dd)
	if wasOpen {
		dd.RemoveClass(classOpen)
		dd.Dispatch("close", nil)
		return
	}
	dd.AddClass(classOpen)
	dd.Dispatch("open", nil)
}

// onDocumentClick closes open dropdowns when the click lands outside
// every dropdown container.
func (c *DropdownController) onDocumentClick(ev *dom.Event) {
	if ev.Target == nil {
		return
	}
	if ev.Target.Closest("["+attrDropdown+"]") != nil {
		return
	}
	c.closeAll(nil)
}

// closeAll closes every open dropdown except skip.
func (c *DropdownController) closeAll(skip *dom.Element) {
	c.mu.Lock()
	dropdowns := c.dropdowns
	c.mu.Unlock()
	for _, dd := range dropdowns {
		if skip != nil && dd.Node() == skip.Node() {
			continue
		}
		if dd.HasClass(classOpen) {
			dd.RemoveClass(classOpen)
			dd.Dispatch("close", nil)
		}
	}
}
