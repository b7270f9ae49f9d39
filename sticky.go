package x

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
)

const (
	attrSticky  = "x-sticky"
	classSticky = "sticky"
)

// StickyController pins headers: once the page scrolls past an
// element's top (minus an optional pixel offset carried as the
// attribute value), the sticky class is applied; scrolling back
// releases it. stick/unstick events fire on each change.
type StickyController struct {
	doc *dom.Document
	log zerolog.Logger

	mu      sync.Mutex
	targets []*stickyTarget
	handles []dom.ListenerHandle
}

type stickyTarget struct {
	el     *dom.Element
	offset int
	stuck  bool
}

// NewStickyController creates the controller.
func NewStickyController(doc *dom.Document, log zerolog.Logger) *StickyController {
	return &StickyController{
		doc: doc,
		log: log.With().Str("controller", attrSticky).Logger(),
	}
}

// Attribute implements Controller.
func (c *StickyController) Attribute() string { return attrSticky }

// Attach collects sticky elements and tracks document scroll.
func (c *StickyController) Attach(ctx context.Context) error {
	c.Detach()

	c.mu.Lock()
	c.targets = nil
	for _, el := range c.doc.QueryAll("[" + attrSticky + "]") {
		offset := 0
		if raw := el.Attr(attrSticky); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				c.log.Warn().Err(ErrBadConfig).Str("offset", raw).
					Msg("sticky element skipped")
				continue
			}
			offset = v
		}
		c.targets = append(c.targets, &stickyTarget{
			el:     el,
			offset: offset,
			stuck:  el.HasClass(classSticky),
		})
	}
	c.handles = []dom.ListenerHandle{
		c.doc.OnDocument("scroll", func(*dom.Event) { c.update() }),
	}
	c.mu.Unlock()

	c.update()
	return nil
}

// Detach removes the scroll listener.
func (c *StickyController) Detach() {
	c.mu.Lock()
	handles := c.handles
	c.handles = nil
	c.mu.Unlock()
	for _, h := range handles {
		c.doc.Off(h)
	}
}

// update re-evaluates each element against the scroll position.
func (c *StickyController) update() {
	c.mu.Lock()
	targets := c.targets
	c.mu.Unlock()

	v := c.doc.Viewport()
	for _, t := range targets {
		rect, ok := t.el.Rect()
		if !ok {
			continue
		}
		stuck := v.ScrollY > rect.Top-t.offset
		if stuck == t.stuck {
			continue
		}
		t.stuck = stuck
		if stuck {
			t.el.AddClass(classSticky)
			t.el.Dispatch("stick", nil)
		} else {
			t.el.RemoveClass(classSticky)
			t.el.Dispatch("unstick", nil)
		}
	}
}
