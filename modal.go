package x

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strconv"
	"sync"

	"github.com/a-h/templ"
	"github.com/rs/zerolog"
	nethtml "golang.org/x/net/html"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
)

// Modal markup contract. A template element carries x-modal="<id>" and
// optionally x-modal-window="<classes>"; its class list may include the
// uniq and hash modifiers. Triggers carry x-modal-open="<id>". The
// synthesized shell nests positioning, overlay, scroll, centering and
// window layers, with a close control inside the window.
const (
	attrModal       = "x-modal"
	attrModalOpen   = "x-modal-open"
	attrModalWindow = "x-modal-window"
	attrModalMount  = "x-modal-mount"

	classModifierUniq = "uniq"
	classModifierHash = "hash"

	classModal       = "modal"
	classOverlay     = "modal-overlay"
	classScroll      = "modal-scroll"
	classCenter      = "modal-center"
	classWindow      = "modal-window"
	classClose       = "modal-close"
	classReady       = "ready"
	classActive      = "active"
	classRootActive  = "modal-active"
	rootActivePrefix = "modal-active-"
)

// ModalConfig is a modal's registration-time configuration, parsed once
// from the template's class list instead of re-testing class membership
// on every transition.
type ModalConfig struct {
	// Unique closes every other open modal before this one opens.
	Unique bool

	// SyncHash mirrors open state into the URL fragment, enabling
	// deep links.
	SyncHash bool

	// WindowClasses are applied to the window layer only.
	WindowClasses string
}

// modal is one registered modal's runtime state.
type modal struct {
	id       string
	cfg      ModalConfig
	shell    *dom.Element
	window   *dom.Element
	scroller *dom.Element
	triggers []*dom.Element
	zClass   string // z class assigned at open, "" when closed
}

// ModalController owns modal discovery, the open/close/stack lifecycle,
// URL-fragment mirroring and the global dismiss listeners. All
// transitions are serialized through a single Session lock: a Show or
// Hide arriving while another transition runs is silently dropped.
//
// Lifecycle notifications fire on the shell element, each carrying the
// modal id as detail:
//
//	ready: after shell preparation, before the visual transition
//	open:  after the open transition and settle delay
//	close: after the close transition, before state flags clear
type ModalController struct {
	doc *dom.Document
	log zerolog.Logger
	dur Durations

	mu      sync.Mutex
	modals  map[string]*modal
	session *Session
	handles []dom.ListenerHandle
}

// NewModalController creates the controller. Call Attach (usually via
// Toolkit.Init) to discover markup and install listeners.
func NewModalController(doc *dom.Document, log zerolog.Logger, dur Durations) *ModalController {
	return &ModalController{
		doc:     doc,
		log:     log.With().Str("controller", attrModal).Logger(),
		dur:     dur,
		modals:  make(map[string]*modal),
		session: NewSession(),
	}
}

// Attribute implements Controller.
func (c *ModalController) Attribute() string { return attrModal }

// Session exposes the stack/lock state for collaborators that need to
// query it (read-mostly; transitions stay inside the controller).
func (c *ModalController) Session() *Session { return c.session }

// Attach discovers modal templates and triggers and installs exactly
// one document-level click handler and one keydown handler. Re-running
// Attach removes the previous listeners first, so handlers are never
// duplicated.
func (c *ModalController) Attach(ctx context.Context) error {
	c.Detach()

	mount := c.doc.Query("[" + attrModalMount + "]")
	if mount == nil {
		mount = c.doc.Body()
	}
	if mount == nil {
		return errNoMount
	}

	for _, tpl := range c.doc.QueryAll("[" + attrModal + "]") {
		if err := c.register(tpl, mount); err != nil {
			c.log.Warn().Err(err).Msg("modal template skipped")
		}
	}

	c.bindTriggers(ctx)

	c.mu.Lock()
	c.handles = append(c.handles,
		c.doc.OnDocument("click", func(ev *dom.Event) { c.onDocumentClick(ctx, ev) }),
		c.doc.OnDocument("keydown", func(ev *dom.Event) { c.onKeydown(ctx, ev) }),
	)
	c.mu.Unlock()

	// Deep links: a hash modal whose id is already in the fragment
	// opens immediately.
	fragment := c.doc.Location().Fragment()
	if fragment != "" {
		c.mu.Lock()
		m := c.modals[fragment]
		c.mu.Unlock()
		if m != nil && m.cfg.SyncHash {
			c.Show(ctx, fragment)
		}
	}
	return nil
}

// Detach removes every listener the controller installed. Registered
// modals stay in place; only the wiring is undone.
func (c *ModalController) Detach() {
	c.mu.Lock()
	handles := c.handles
	c.handles = nil
	c.mu.Unlock()
	for _, h := range handles {
		c.doc.Off(h)
	}
}

var errNoMount = fmt.Errorf("%w: no mount point and no body", ErrBadConfig)

// register turns one template element into a live modal shell.
func (c *ModalController) register(tpl *dom.Element, mount *dom.Element) error {
	id := tpl.Attr(attrModal)
	if id == "" {
		return fmt.Errorf("%w: %s attribute is empty", ErrMissingID, attrModal)
	}

	c.mu.Lock()
	_, dup := c.modals[id]
	c.mu.Unlock()
	if dup {
		// First registration wins; overwriting a live modal would
		// orphan its listeners and stack entry.
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}

	cfg := ModalConfig{
		WindowClasses: tpl.Attr(attrModalWindow),
	}
	var passthrough []string
	for _, class := range tpl.Classes() {
		switch class {
		case classModifierUniq:
			cfg.Unique = true
		case classModifierHash:
			cfg.SyncHash = true
		}
		passthrough = append(passthrough, class)
	}

	markup, err := renderShell(id, passthrough, cfg.WindowClasses)
	if err != nil {
		return fmt.Errorf("%w: shell render: %v", ErrBadConfig, err)
	}
	nodes, err := c.doc.ParseFragment(markup)
	if err != nil {
		return fmt.Errorf("%w: shell parse: %v", ErrBadConfig, err)
	}
	mount.Insert(dom.BeforeEnd, nodes...)

	shell := c.doc.Query("#" + cssEscape(id))
	if shell == nil {
		return fmt.Errorf("%w: shell not found after insert", ErrBadConfig)
	}
	window := shell.Query("." + classWindow)
	scroller := shell.Query("." + classScroll)
	if window == nil || scroller == nil {
		return fmt.Errorf("%w: shell missing layers", ErrBadConfig)
	}

	// Move, not copy: the template's content relocates into the
	// window layer ahead of the close control, and the template
	// element itself leaves the tree.
	closeControl := window.Query("." + classClose)
	if closeControl == nil {
		return fmt.Errorf("%w: shell missing close control", ErrBadConfig)
	}
	closeControl.Insert(dom.BeforeBegin, childNodes(tpl)...)
	tpl.Remove()

	c.mu.Lock()
	c.modals[id] = &modal{
		id:       id,
		cfg:      cfg,
		shell:    shell,
		window:   window,
		scroller: scroller,
	}
	c.mu.Unlock()
	return nil
}

// bindTriggers wires every x-modal-open element to Show on click.
func (c *ModalController) bindTriggers(ctx context.Context) {
	c.mu.Lock()
	for _, m := range c.modals {
		m.triggers = nil
	}
	c.mu.Unlock()
	for _, trg := range c.doc.QueryAll("[" + attrModalOpen + "]") {
		target := trg.Attr(attrModalOpen)
		if target == "" {
			c.log.Warn().Err(ErrMissingID).Str("attribute", attrModalOpen).
				Msg("trigger skipped")
			continue
		}
		c.mu.Lock()
		m := c.modals[target]
		c.mu.Unlock()
		if m == nil {
			c.log.Warn().Err(ErrUnknownTarget).Str("target", target).
				Msg("trigger skipped")
			continue
		}
		m.triggers = append(m.triggers, trg)
		trigger := trg
		handle := trigger.On("click", func(ev *dom.Event) {
			ev.PreventDefault()
			c.Show(ctx, target)
		})
		c.mu.Lock()
		c.handles = append(c.handles, handle)
		c.mu.Unlock()
	}
}

// Show opens the modal with the given id.
//
// Quirks preserved from the markup contract: Show on an already-open
// modal toggles it closed, and a Show arriving while any transition is
// in flight is a silent no-op (no queueing, no retry). Unknown ids are
// logged and ignored.
func (c *ModalController) Show(ctx context.Context, id string) {
	c.mu.Lock()
	m := c.modals[id]
	c.mu.Unlock()
	if m == nil {
		c.log.Warn().Err(ErrUnknownTarget).Str("id", id).Msg("show dropped")
		return
	}

	if c.IsActive(id) {
		c.Hide(ctx, id)
		return
	}

	if c.session.Locked() {
		return
	}

	// uniq: close everything else first, each close awaited in full,
	// so at most this one modal is open afterwards.
	if m.cfg.Unique {
		c.HideAll(ctx)
	}

	if !c.session.TryBegin() {
		return
	}
	defer c.session.End()

	if err := c.open(ctx, m); err != nil {
		// A partially applied visual state beats a stuck modal
		// subsystem: log and move on, the deferred End releases the
		// lock regardless.
		c.log.Error().Err(err).Str("id", id).Msg("open transition failed")
	}
}

// open runs the OPENING sequence. The session lock is already held.
func (c *ModalController) open(ctx context.Context, m *modal) error {
	// Pre-transition marker, then a short paint delay so the initial
	// state exists before anything animates.
	m.shell.AddClass(classReady)
	if err := c.doc.Sleep(ctx, c.dur.Ready); err != nil {
		return err
	}
	m.shell.Dispatch("ready", map[string]any{"id": m.id})

	if m.cfg.SyncHash {
		c.doc.Location().ReplaceFragment(m.id)
	}

	if root := c.doc.Root(); root != nil {
		root.AddClass(classRootActive, rootActivePrefix+m.id)
	}
	for _, trg := range m.triggers {
		trg.AddClass(classActive)
	}

	depth := c.session.Push(m.id)
	m.zClass = "z" + strconv.Itoa(depth)
	m.shell.AddClass(m.zClass)

	if err := m.shell.AddClassAfter(ctx, classActive, c.dur.Transition); err != nil {
		return err
	}

	m.scroller.SetScrollTop(0)

	if err := c.doc.Sleep(ctx, c.dur.Settle); err != nil {
		return err
	}
	m.shell.Dispatch("open", map[string]any{"id": m.id})
	return nil
}

// Hide closes the modal with the given id. Same silent-drop semantics
// as Show when a transition is in flight; unknown ids are logged and
// ignored, and hiding a modal that is not open is a no-op.
func (c *ModalController) Hide(ctx context.Context, id string) {
	c.mu.Lock()
	m := c.modals[id]
	c.mu.Unlock()
	if m == nil {
		c.log.Warn().Err(ErrUnknownTarget).Str("id", id).Msg("hide dropped")
		return
	}
	if !c.IsActive(id) {
		return
	}

	if !c.session.TryBegin() {
		return
	}
	defer c.session.End()

	if err := c.close(ctx, m); err != nil {
		c.log.Error().Err(err).Str("id", id).Msg("close transition failed")
	}
}

// close runs the CLOSING sequence. The session lock is already held.
func (c *ModalController) close(ctx context.Context, m *modal) error {
	if m.cfg.SyncHash && c.doc.Location().Fragment() == m.id {
		c.doc.Location().ClearFragment()
	}

	for _, trg := range m.triggers {
		trg.RemoveClass(classActive)
	}

	if err := m.shell.RemoveClassAfter(ctx, classActive, c.dur.Transition); err != nil {
		return err
	}
	m.shell.RemoveClass(classReady)

	// Release the z layer assigned when this modal opened, not the
	// layer at the current depth; out-of-order closes keep the other
	// modals' stacking intact.
	if m.zClass != "" {
		m.shell.RemoveClass(m.zClass)
		m.zClass = ""
	}

	m.shell.Dispatch("close", map[string]any{"id": m.id})

	root := c.doc.Root()
	if root != nil {
		root.RemoveClass(rootActivePrefix + m.id)
	}
	if depth := c.session.Remove(m.id); depth == 0 && root != nil {
		root.RemoveClass(classRootActive)
	}
	return nil
}

// HideAll closes every open modal sequentially, most recently opened
// first, each close awaited to completion before the next starts.
func (c *ModalController) HideAll(ctx context.Context) {
	open := c.session.Open()
	for i := len(open) - 1; i >= 0; i-- {
		c.Hide(ctx, open[i])
	}
}

// IsActive reports whether the modal's shell currently carries the
// active class. Pure query, no side effects.
func (c *ModalController) IsActive(id string) bool {
	c.mu.Lock()
	m := c.modals[id]
	c.mu.Unlock()
	if m == nil {
		return false
	}
	return m.shell.HasClass(classActive)
}

// Depth returns the number of currently open modals.
func (c *ModalController) Depth() int { return c.session.Depth() }

// onDocumentClick dismisses a modal when the click lands on its close
// control, or on the shell outside the window layer (the overlay).
// Clicks inside the window layer never dismiss, whatever markers the
// content carries.
func (c *ModalController) onDocumentClick(ctx context.Context, ev *dom.Event) {
	if ev.Target == nil || c.session.Depth() == 0 {
		return
	}

	shellEl := ev.Target.Closest("." + classModal)
	if shellEl == nil {
		return
	}
	id := shellEl.ID()

	c.mu.Lock()
	m := c.modals[id]
	c.mu.Unlock()
	if m == nil || !c.IsActive(id) {
		return
	}

	if ev.Target.Closest("."+classClose) != nil {
		c.Hide(ctx, id)
		return
	}
	if !m.window.Contains(ev.Target) {
		c.Hide(ctx, id)
	}
}

// onKeydown closes the most recently opened modal on Escape.
func (c *ModalController) onKeydown(ctx context.Context, ev *dom.Event) {
	if ev.Key == nil || ev.Key.Key != "Escape" {
		return
	}
	if top := c.session.Top(); top != "" {
		c.Hide(ctx, top)
	}
}

// renderShell produces the modal shell markup: positioning layer,
// overlay, scroll container, centering layer, window layer carrying
// the window classes, and the close control. Template content is moved
// in after parsing.
func renderShell(id string, classes []string, windowClasses string) (string, error) {
	shell := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		outer := classModal
		for _, cl := range classes {
			outer += " " + cl
		}
		window := classWindow
		if windowClasses != "" {
			window += " " + windowClasses
		}
		_, err := fmt.Fprintf(w,
			`<div id="%s" class="%s">`+
				`<div class="%s">`+
				`<div class="%s">`+
				`<div class="%s">`+
				`<div class="%s"><div class="%s"></div></div>`+
				`</div></div></div></div>`,
			html.EscapeString(id),
			html.EscapeString(outer),
			classOverlay,
			classScroll,
			classCenter,
			html.EscapeString(window),
			classClose,
		)
		return err
	})

	var buf bytes.Buffer
	if err := shell.Render(context.Background(), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// childNodes snapshots an element's child nodes so they can be moved
// while iterating.
func childNodes(e *dom.Element) []*nethtml.Node {
	var nodes []*nethtml.Node
	for n := e.Node().FirstChild; n != nil; n = n.NextSibling {
		nodes = append(nodes, n)
	}
	return nodes
}

// cssEscape quotes an id for use in a selector. Ids in this toolkit
// are plain tokens; anything else is the author's configuration error.
func cssEscape(id string) string { return id }
