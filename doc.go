// Package x is an attribute-driven UI controller toolkit over an
// in-memory HTML document. Each controller owns one markup attribute
// (x-modal, x-dropdown, x-sheets, ...), discovers matching elements at
// init, wires event listeners, and reacts to interaction or viewport
// changes by toggling CSS classes and dispatching lifecycle events.
//
// # Core Concepts
//
// A Toolkit aggregates independent controllers over one dom.Document:
//
//	doc, _ := dom.ParseString(page)
//	tk := x.New(doc, x.WithLogger(log))
//	tk.Init(ctx)
//
// Init is idempotent: controllers detach their previous listeners
// before re-attaching, so document-level handlers never duplicate.
// Controllers register explicitly (no init() side effects), and an
// attribute can only be claimed once; collisions are configuration
// errors that are logged and skipped.
//
// # Modals
//
// The modal controller owns the only real state in the toolkit: an
// ordered stack of open modals and a single transition lock. A
// template element
//
//	<div x-modal="profile" class="uniq hash" x-modal-window="wide">...</div>
//
// is replaced at init by a generated shell (positioning, overlay,
// scroll, centering and window layers plus a close control), and any
// element with x-modal-open="profile" opens it on click. The uniq
// modifier closes every other modal first; hash mirrors open state
// into the URL fragment for deep links. Transitions are serialized by
// the lock: a Show or Hide arriving while one is in flight is silently
// dropped, never queued. Lifecycle events ready, open and close fire
// on the shell element.
//
// Transition timing is injected (Durations plus the document Clock),
// so tests run the full open/close state machine instantly.
//
// # Scroll-driven controllers
//
// lazyload, animate and sticky react to document scroll using element
// geometry declared in markup (x-rect) and the document viewport,
// which is enough to run headless, without a layout engine.
//
// # Error Handling
//
// Nothing in the toolkit propagates during normal operation: bad
// markup is logged and skipped, transition failures are logged and the
// lock is still released, and calls dropped by the lock are not errors
// at all. User-visible failure is "nothing happens", never a crash.
package x
