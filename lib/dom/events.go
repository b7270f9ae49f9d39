package dom

import (
	"golang.org/x/net/html"

	"github.com/andreyshpigunov/x-sub000/lib/encoding"
)

// Event is delivered to listeners on dispatch. Detail is decoded per
// listener from an encoded snapshot taken at dispatch time, so a
// listener mutating its map never affects another listener.
type Event struct {
	// Type is the event name ("click", "keydown", "open", ...).
	Type string

	// Target is the element the event was dispatched on. Nil for
	// document-level synthetic events with no target.
	Target *Element

	// Mouse is set for synthetic mouse events.
	Mouse *MouseEvent

	// Key is set for synthetic keyboard events.
	Key *KeyboardEvent

	detail []byte

	defaultPrevented bool
}

// MouseEvent carries pointer position for synthetic mouse events.
type MouseEvent struct {
	ClientX int
	ClientY int
	Button  int
}

// KeyboardEvent carries key identity for synthetic keyboard events.
type KeyboardEvent struct {
	Key  string
	Code string
}

// Detail decodes the event's detail payload. Each call returns a fresh
// copy; returns nil when the event carries no detail.
func (ev *Event) Detail() map[string]any {
	if len(ev.detail) == 0 {
		return nil
	}
	m, err := encoding.Unmarshal(ev.detail)
	if err != nil {
		return nil
	}
	return m
}

// PreventDefault marks the event's default action as suppressed.
// Trigger bindings check this before acting.
func (ev *Event) PreventDefault() { ev.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (ev *Event) DefaultPrevented() bool { return ev.defaultPrevented }

// Handler receives dispatched events.
type Handler func(*Event)

// ListenerHandle identifies a registered listener so it can be removed.
type ListenerHandle struct {
	id    int
	node  *html.Node // nil for document-level listeners
	event string
}

type listener struct {
	id int
	fn Handler
}

// On registers a listener for the named event on this element.
func (e *Element) On(event string, fn Handler) ListenerHandle {
	d := e.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextListener++
	byEvent, ok := d.listeners[e.node]
	if !ok {
		byEvent = make(map[string][]*listener)
		d.listeners[e.node] = byEvent
	}
	byEvent[event] = append(byEvent[event], &listener{id: d.nextListener, fn: fn})
	return ListenerHandle{id: d.nextListener, node: e.node, event: event}
}

// OnDocument registers a document-level listener. Document listeners
// see every dispatched event after the target's own listeners ran.
func (d *Document) OnDocument(event string, fn Handler) ListenerHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextListener++
	d.docListeners[event] = append(d.docListeners[event], &listener{id: d.nextListener, fn: fn})
	return ListenerHandle{id: d.nextListener, event: event}
}

// Off removes a previously registered listener. Unknown handles are
// ignored.
func (d *Document) Off(h ListenerHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if h.node == nil {
		d.docListeners[h.event] = dropListener(d.docListeners[h.event], h.id)
		return
	}
	if byEvent, ok := d.listeners[h.node]; ok {
		byEvent[h.event] = dropListener(byEvent[h.event], h.id)
	}
}

func dropListener(list []*listener, id int) []*listener {
	for i, l := range list {
		if l.id == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func (d *Document) dropListeners(n *html.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.listeners, n)
}

// Dispatch fires the named event on the element with an optional detail
// payload. Element listeners run first in registration order, then
// document-level listeners. Runs synchronously; returns after every
// listener ran.
func (e *Element) Dispatch(event string, detail map[string]any) {
	ev := &Event{Type: event, Target: e}
	if detail != nil {
		if raw, err := encoding.Marshal(detail); err == nil {
			ev.detail = raw
		}
	}
	e.doc.deliver(e.node, ev)
}

// DispatchDocument fires a document-level event with no element target.
func (d *Document) DispatchDocument(event string, detail map[string]any) {
	ev := &Event{Type: event}
	if detail != nil {
		if raw, err := encoding.Marshal(detail); err == nil {
			ev.detail = raw
		}
	}
	d.deliver(nil, ev)
}

// Click synthesizes a click on the element and bubbles it to document
// listeners.
func (e *Element) Click() {
	e.ClickAt(MouseEvent{})
}

// ClickAt synthesizes a click with pointer coordinates.
func (e *Element) ClickAt(m MouseEvent) {
	ev := &Event{Type: "click", Target: e, Mouse: &m}
	e.doc.deliver(e.node, ev)
}

// Keydown synthesizes a document-level keydown ("Escape", "Enter", ...).
func (d *Document) Keydown(key string) {
	ev := &Event{Type: "keydown", Key: &KeyboardEvent{Key: key, Code: key}}
	d.deliver(nil, ev)
}

// deliver runs target listeners, then listeners on ancestors walking up
// to the root (bubbling), then document-level listeners. The listener
// snapshot is taken up front so handlers may register or remove
// listeners without affecting this delivery.
func (d *Document) deliver(target *html.Node, ev *Event) {
	d.mu.Lock()
	var fns []Handler
	for n := target; n != nil; n = n.Parent {
		for _, l := range d.listeners[n][ev.Type] {
			fns = append(fns, l.fn)
		}
	}
	for _, l := range d.docListeners[ev.Type] {
		fns = append(fns, l.fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
