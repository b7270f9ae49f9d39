package x

import (
	"context"
	"strconv"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
)

const (
	attrAnimate   = "x-animate"
	attrProgress  = "x-progress"
	classAnimated = "animated"
)

// AnimateConfig is the per-element configuration carried as JSON in the
// x-animate attribute. All fields are optional.
type AnimateConfig struct {
	// Class applied while the element is traversing the viewport.
	// Defaults to "animated".
	Class string `json:"class"`

	// Offset expands the viewport on the vertical axis, starting the
	// animation before the element is strictly visible.
	Offset int `json:"offset"`

	// Once keeps the class applied after the element has fully passed
	// through, instead of removing it again.
	Once bool `json:"once"`
}

// AnimateController maps scroll position to a 0..1 progress value per
// element. Progress is a linear interpolation of the element's travel
// through the viewport: 0 while its top is below the fold, 1 once its
// bottom has cleared the viewport top. The value is written to the
// x-progress attribute, the configured class tracks the in-range
// state, and a progress event fires whenever the value changes.
type AnimateController struct {
	doc *dom.Document
	log zerolog.Logger

	mu      sync.Mutex
	targets []*animateTarget
	handles []dom.ListenerHandle
}

type animateTarget struct {
	el   *dom.Element
	cfg  AnimateConfig
	last float64
	done bool // Once fired and pinned
}

// NewAnimateController creates the controller.
func NewAnimateController(doc *dom.Document, log zerolog.Logger) *AnimateController {
	return &AnimateController{
		doc: doc,
		log: log.With().Str("controller", attrAnimate).Logger(),
	}
}

// Attribute implements Controller.
func (c *AnimateController) Attribute() string { return attrAnimate }

// Attach parses each element's configuration and starts tracking
// scroll. Malformed JSON is a configuration error: logged, element
// skipped.
func (c *AnimateController) Attach(ctx context.Context) error {
	c.Detach()

	c.mu.Lock()
	c.targets = nil
	for _, el := range c.doc.QueryAll("[" + attrAnimate + "]") {
		cfg := AnimateConfig{Class: classAnimated}
		if raw := el.Attr(attrAnimate); raw != "" {
			if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
				c.log.Warn().Err(ErrBadConfig).Str("config", raw).
					Msg("animate element skipped")
				continue
			}
			if cfg.Class == "" {
				cfg.Class = classAnimated
			}
		}
		c.targets = append(c.targets, &animateTarget{el: el, cfg: cfg, last: -1})
	}
	c.handles = []dom.ListenerHandle{
		c.doc.OnDocument("scroll", func(*dom.Event) { c.update() }),
	}
	c.mu.Unlock()

	c.update()
	return nil
}

// Detach removes the scroll listener.
func (c *AnimateController) Detach() {
	c.mu.Lock()
	handles := c.handles
	c.handles = nil
	c.mu.Unlock()
	for _, h := range handles {
		c.doc.Off(h)
	}
}

// update recomputes progress for every tracked element.
func (c *AnimateController) update() {
	c.mu.Lock()
	targets := c.targets
	c.mu.Unlock()

	v := c.doc.Viewport()
	for _, t := range targets {
		if t.done {
			continue
		}
		rect, ok := t.el.Rect()
		if !ok {
			continue
		}
		p := travelProgress(rect, v, t.cfg.Offset)
		if p == t.last {
			continue
		}
		t.last = p

		t.el.SetAttr(attrProgress, strconv.FormatFloat(p, 'f', 2, 64))
		switch {
		case p > 0 && p < 1:
			t.el.AddClass(t.cfg.Class)
		case t.cfg.Once && p >= 1:
			t.el.AddClass(t.cfg.Class)
			t.done = true
		default:
			t.el.RemoveClass(t.cfg.Class)
		}
		t.el.Dispatch("progress", map[string]any{"progress": p})
	}
}

// travelProgress returns how far the element has travelled through the
// viewport, clamped to 0..1. The span runs from the element's top
// touching the viewport bottom to its bottom clearing the viewport top.
func travelProgress(r dom.Rect, v dom.Viewport, offset int) float64 {
	start := r.Top - v.Height - offset
	span := v.Height + r.Height + 2*offset
	if span <= 0 {
		return 0
	}
	p := float64(v.ScrollY-start) / float64(span)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
