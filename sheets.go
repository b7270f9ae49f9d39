package x

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
)

const (
	attrSheets    = "x-sheets"
	attrSheetOpen = "x-sheet-open"
	attrSheet     = "x-sheet"
)

// SheetsController drives tab sheets. A container carries x-sheets;
// inside it, buttons carry x-sheet-open="<id>" and panes x-sheet="<id>".
// Activating a sheet moves the active class to the matching
// button/pane pair and dispatches a change event on the container.
//
// A container with the hash modifier class mirrors the active sheet id
// into the URL fragment, giving tab deep links the same replace-only
// semantics as modals.
type SheetsController struct {
	doc *dom.Document
	log zerolog.Logger

	mu      sync.Mutex
	groups  []*dom.Element
	handles []dom.ListenerHandle
}

// NewSheetsController creates the controller.
func NewSheetsController(doc *dom.Document, log zerolog.Logger) *SheetsController {
	return &SheetsController{
		doc: doc,
		log: log.With().Str("controller", attrSheets).Logger(),
	}
}

// Attribute implements Controller.
func (c *SheetsController) Attribute() string { return attrSheets }

// Attach discovers sheet groups, wires their buttons, and activates an
// initial sheet per group: the deep-linked one when the fragment names
// a sheet in a hash group, else the first button's target if nothing is
// active yet.
func (c *SheetsController) Attach(ctx context.Context) error {
	c.Detach()

	c.mu.Lock()
	c.groups = c.doc.QueryAll("[" + attrSheets + "]")
	groups := c.groups
	c.mu.Unlock()

	var handles []dom.ListenerHandle
	fragment := c.doc.Location().Fragment()

	for _, group := range groups {
		g := group
		buttons := g.QueryAll("[" + attrSheetOpen + "]")
		if len(buttons) == 0 {
			c.log.Warn().Err(ErrBadConfig).Msg("sheet group has no buttons")
			continue
		}
		for _, btn := range buttons {
			id := btn.Attr(attrSheetOpen)
			if id == "" {
				c.log.Warn().Err(ErrMissingID).Str("attribute", attrSheetOpen).
					Msg("sheet button skipped")
				continue
			}
			target := id
			handles = append(handles, btn.On("click", func(ev *dom.Event) {
				ev.PreventDefault()
				c.Activate(g, target)
			}))
		}

		switch {
		case fragment != "" && g.HasClass(classModifierHash) && g.Query("["+attrSheet+"=\""+fragment+"\"]") != nil:
			c.Activate(g, fragment)
		case c.Active(g) == "":
			c.Activate(g, buttons[0].Attr(attrSheetOpen))
		}
	}

	c.mu.Lock()
	c.handles = handles
	c.mu.Unlock()
	return nil
}

// Detach removes the controller's listeners.
func (c *SheetsController) Detach() {
	c.mu.Lock()
	handles := c.handles
	c.handles = nil
	c.mu.Unlock()
	for _, h := range handles {
		c.doc.Off(h)
	}
}

// Activate opens the sheet with the given id within a group, moving
// the active class and dispatching a change event with the old and new
// ids. Activating the already-active sheet is a no-op.
func (c *SheetsController) Activate(group *dom.Element, id string) {
	previous := c.Active(group)
	if previous == id {
		return
	}

	pane := group.Query("[" + attrSheet + "=\"" + id + "\"]")
	if pane == nil {
		c.log.Warn().Err(ErrUnknownTarget).Str("sheet", id).Msg("activate dropped")
		return
	}

	for _, btn := range group.QueryAll("[" + attrSheetOpen + "]") {
		if btn.Attr(attrSheetOpen) == id {
			btn.AddClass(classActive)
		} else {
			btn.RemoveClass(classActive)
		}
	}
	for _, p := range group.QueryAll("[" + attrSheet + "]") {
		if p.Attr(attrSheet) == id {
			p.AddClass(classActive)
		} else {
			p.RemoveClass(classActive)
		}
	}

	if group.HasClass(classModifierHash) {
		c.doc.Location().ReplaceFragment(id)
	}

	group.Dispatch("change", map[string]any{"sheet": id, "previous": previous})
}

// Active returns the id of the group's active sheet, or "".
func (c *SheetsController) Active(group *dom.Element) string {
	for _, p := range group.QueryAll("[" + attrSheet + "]") {
		if p.HasClass(classActive) {
			return p.Attr(attrSheet)
		}
	}
	return ""
}
