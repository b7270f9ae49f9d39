package x

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
)

const (
	attrLazyload = "x-lazyload"
	attrLazySrc  = "x-src"
	attrLazySet  = "x-srcset"
	classLoaded  = "loaded"

	// lazyloadOffset expands the viewport check so images start
	// loading slightly before they scroll into view.
	lazyloadOffset = 100
)

// LazyloadController defers image loading until the element scrolls
// near the viewport. Elements carry x-lazyload plus the deferred
// x-src/x-srcset attributes; on first intersection the real attributes
// are swapped in, the loaded class is added and a load event fires.
// Each element loads once.
type LazyloadController struct {
	doc *dom.Document
	log zerolog.Logger

	mu      sync.Mutex
	pending []*dom.Element
	handles []dom.ListenerHandle
}

// NewLazyloadController creates the controller.
func NewLazyloadController(doc *dom.Document, log zerolog.Logger) *LazyloadController {
	return &LazyloadController{
		doc: doc,
		log: log.With().Str("controller", attrLazyload).Logger(),
	}
}

// Attribute implements Controller.
func (c *LazyloadController) Attribute() string { return attrLazyload }

// Attach collects pending elements, loads anything already in view,
// and watches the document scroll for the rest.
func (c *LazyloadController) Attach(ctx context.Context) error {
	c.Detach()

	c.mu.Lock()
	c.pending = nil
	for _, el := range c.doc.QueryAll("[" + attrLazyload + "]") {
		if el.HasClass(classLoaded) {
			continue
		}
		if !el.HasAttr(attrLazySrc) && !el.HasAttr(attrLazySet) {
			c.log.Warn().Err(ErrBadConfig).Msg("lazyload element has no deferred source")
			continue
		}
		c.pending = append(c.pending, el)
	}
	c.handles = []dom.ListenerHandle{
		c.doc.OnDocument("scroll", func(*dom.Event) { c.sweep() }),
	}
	c.mu.Unlock()

	c.sweep()
	return nil
}

// Detach removes the scroll listener. Pending elements stay pending.
func (c *LazyloadController) Detach() {
	c.mu.Lock()
	handles := c.handles
	c.handles = nil
	c.mu.Unlock()
	for _, h := range handles {
		c.doc.Off(h)
	}
}

// Pending returns how many elements still wait to load.
func (c *LazyloadController) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// sweep loads every pending element currently near the viewport.
func (c *LazyloadController) sweep() {
	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()

	var still []*dom.Element
	var loaded []*dom.Element
	for _, el := range pending {
		if el.InViewport(lazyloadOffset) {
			loaded = append(loaded, el)
		} else {
			still = append(still, el)
		}
	}

	c.mu.Lock()
	c.pending = still
	c.mu.Unlock()

	for _, el := range loaded {
		c.load(el)
	}
}

// load swaps the deferred attributes in and marks the element loaded.
func (c *LazyloadController) load(el *dom.Element) {
	if src := el.Attr(attrLazySrc); src != "" {
		el.SetAttr("src", src)
		el.RemoveAttr(attrLazySrc)
	}
	if set := el.Attr(attrLazySet); set != "" {
		el.SetAttr("srcset", set)
		el.RemoveAttr(attrLazySet)
	}
	el.AddClass(classLoaded)
	el.Dispatch("load", map[string]any{"src": el.Attr("src")})
}
