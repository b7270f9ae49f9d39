package x

import (
	"sync"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
)

// TestPage bundles everything a toolkit test needs: a parsed document
// with an instant clock (transitions complete immediately, recording
// their requested durations), a known location, and the toolkit wired
// on top. Call Toolkit.Init to attach controllers.
type TestPage struct {
	Doc      *dom.Document
	Toolkit  *Toolkit
	Clock    *dom.Instant
	Location *dom.Location
}

// NewTestPage parses markup into a test page.
//
//	page, err := x.NewTestPage(`<body><div x-modal="a">hi</div></body>`)
//	page.Toolkit.Init(ctx)
func NewTestPage(markup string, opts ...ToolkitOption) (*TestPage, error) {
	clock := &dom.Instant{}
	loc, err := dom.NewLocation("https://example.test/page")
	if err != nil {
		return nil, err
	}
	doc, err := dom.ParseString(markup,
		dom.WithClock(clock),
		dom.WithLocation(loc),
	)
	if err != nil {
		return nil, err
	}
	return &TestPage{
		Doc:      doc,
		Toolkit:  New(doc, opts...),
		Clock:    clock,
		Location: loc,
	}, nil
}

// RecordedEvent is one observed lifecycle event.
type RecordedEvent struct {
	Type string
	ID   string // "id" field of the event detail, when present
}

// EventRecorder captures dispatched events for assertions. Listeners
// are document-level, so events from any element are seen.
type EventRecorder struct {
	mu     sync.Mutex
	events []RecordedEvent
}

// Listen subscribes the recorder to the named event types.
func (r *EventRecorder) Listen(doc *dom.Document, types ...string) {
	for _, typ := range types {
		doc.OnDocument(typ, func(ev *dom.Event) {
			rec := RecordedEvent{Type: ev.Type}
			if detail := ev.Detail(); detail != nil {
				if id, ok := detail["id"].(string); ok {
					rec.ID = id
				}
			}
			r.mu.Lock()
			r.events = append(r.events, rec)
			r.mu.Unlock()
		})
	}
}

// Events returns a copy of the recorded events in order.
func (r *EventRecorder) Events() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns just the event type names in order.
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

// Reset clears the recorded events.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
