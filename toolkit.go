package x

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
)

// Controller is the contract every toolkit feature implements: it owns
// one markup attribute, attaches listeners for elements carrying it,
// and can detach them again so Init can be re-run without duplicating
// handlers.
type Controller interface {
	// Attribute returns the markup attribute this controller owns
	// (e.g. "x-modal"). The toolkit rejects a second controller
	// claiming the same attribute.
	Attribute() string

	// Attach discovers matching elements and wires listeners. Attach
	// must be idempotent: implementations detach their own listeners
	// first.
	Attach(ctx context.Context) error

	// Detach removes every listener the controller installed.
	Detach()
}

// Durations are the modeled visual-transition delays. They stand in
// for CSS transition times, so tests swap them out together with the
// clock rather than waiting on the wall clock.
type Durations struct {
	// Ready is the paint delay between marking an element ready and
	// starting its transition.
	Ready time.Duration

	// Transition is the open/close CSS transition time.
	Transition time.Duration

	// Settle is the extra delay after an open transition before the
	// open notification fires.
	Settle time.Duration
}

// DefaultDurations matches the stylesheet the toolkit ships with.
func DefaultDurations() Durations {
	return Durations{
		Ready:      10 * time.Millisecond,
		Transition: 200 * time.Millisecond,
		Settle:     200 * time.Millisecond,
	}
}

// Toolkit aggregates the controllers over one document. Controllers
// are registered explicitly (no init() side effects) and attached
// together by Init.
type Toolkit struct {
	mu          sync.Mutex
	doc         *dom.Document
	log         zerolog.Logger
	dur         Durations
	userAgent   string
	controllers []Controller
	claimed     map[string]Controller

	modal    *ModalController
	dropdown *DropdownController
	sheets   *SheetsController
	lazyload *LazyloadController
	animate  *AnimateController
	sticky   *StickyController
	hover    *HoverController
	device   *DeviceController
}

// ToolkitOption configures a Toolkit.
type ToolkitOption func(*Toolkit)

// WithLogger sets the logger used for configuration errors and
// swallowed transition errors. Defaults to a disabled logger.
func WithLogger(log zerolog.Logger) ToolkitOption {
	return func(t *Toolkit) { t.log = log }
}

// WithDurations overrides the modeled transition delays.
func WithDurations(d Durations) ToolkitOption {
	return func(t *Toolkit) { t.dur = d }
}

// WithUserAgent sets the user agent string the device controller
// classifies.
func WithUserAgent(ua string) ToolkitOption {
	return func(t *Toolkit) { t.userAgent = ua }
}

// New builds a Toolkit with the full default controller set.
func New(doc *dom.Document, opts ...ToolkitOption) *Toolkit {
	t := &Toolkit{
		doc:     doc,
		log:     zerolog.Nop(),
		dur:     DefaultDurations(),
		claimed: make(map[string]Controller),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.modal = NewModalController(doc, t.log, t.dur)
	t.dropdown = NewDropdownController(doc, t.log)
	t.sheets = NewSheetsController(doc, t.log)
	t.lazyload = NewLazyloadController(doc, t.log)
	t.animate = NewAnimateController(doc, t.log)
	t.sticky = NewStickyController(doc, t.log)
	t.hover = NewHoverController(doc)
	t.device = NewDeviceController(doc, t.userAgent)

	t.Register(
		t.modal,
		t.dropdown,
		t.sheets,
		t.lazyload,
		t.animate,
		t.sticky,
		t.hover,
		t.device,
	)
	return t
}

// Register adds controllers to the toolkit. A controller claiming an
// attribute already owned by another is a configuration error: it is
// logged and skipped, never overwrites the existing one.
func (t *Toolkit) Register(controllers ...Controller) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range controllers {
		attr := c.Attribute()
		if prev, exists := t.claimed[attr]; exists && prev != c {
			t.log.Warn().Str("attribute", attr).
				Err(ErrAttributeClaimed).
				Msg("controller skipped")
			continue
		}
		t.claimed[attr] = c
		t.controllers = append(t.controllers, c)
	}
}

// Init attaches every registered controller to the document. Safe to
// call again after markup changes: controllers detach their previous
// listeners before re-attaching, so document-level handlers are never
// duplicated.
func (t *Toolkit) Init(ctx context.Context) error {
	t.mu.Lock()
	controllers := make([]Controller, len(t.controllers))
	copy(controllers, t.controllers)
	t.mu.Unlock()

	for _, c := range controllers {
		if err := c.Attach(ctx); err != nil {
			t.log.Error().Str("attribute", c.Attribute()).Err(err).
				Msg("controller attach failed")
		}
	}
	return nil
}

// Shutdown detaches every controller's listeners.
func (t *Toolkit) Shutdown() {
	t.mu.Lock()
	controllers := make([]Controller, len(t.controllers))
	copy(controllers, t.controllers)
	t.mu.Unlock()

	for _, c := range controllers {
		c.Detach()
	}
}

// Document returns the toolkit's document.
func (t *Toolkit) Document() *dom.Document { return t.doc }

// Modal returns the modal controller.
func (t *Toolkit) Modal() *ModalController { return t.modal }

// Dropdown returns the dropdown controller.
func (t *Toolkit) Dropdown() *DropdownController { return t.dropdown }

// Sheets returns the sheets controller.
func (t *Toolkit) Sheets() *SheetsController { return t.sheets }

// Lazyload returns the lazyload controller.
func (t *Toolkit) Lazyload() *LazyloadController { return t.lazyload }

// Animate returns the animate controller.
func (t *Toolkit) Animate() *AnimateController { return t.animate }

// Sticky returns the sticky controller.
func (t *Toolkit) Sticky() *StickyController { return t.sticky }

// Device returns the device controller.
func (t *Toolkit) Device() *DeviceController { return t.device }

// Query returns the first element matching the selector, or nil.
func (t *Toolkit) Query(selector string) *dom.Element {
	return t.doc.Query(selector)
}

// QueryAll returns every element matching the selector.
func (t *Toolkit) QueryAll(selector string) []*dom.Element {
	return t.doc.QueryAll(selector)
}
