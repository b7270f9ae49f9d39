package x

import (
	"context"
	"testing"
)

func newAnimatePage(t *testing.T, markup string) *TestPage {
	t.Helper()
	page, err := NewTestPage(markup)
	if err != nil {
		t.Fatalf("NewTestPage failed: %v", err)
	}
	if err := page.Toolkit.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return page
}

func TestAnimateProgress(t *testing.T) {
	page := newAnimatePage(t, `<html><body>
		<div x-animate="" x-rect="1000,0,600,200" id="box">content</div>
	</body></html>`)
	box := page.Doc.Query("#box")

	// Viewport is 1024x768; travel span runs from the top touching the
	// fold (scroll 232) to the bottom clearing the top (scroll 1200).
	if got := box.Attr("x-progress"); got != "0.00" {
		t.Errorf("x-progress = %q at scroll 0, want 0.00", got)
	}
	if box.HasClass("animated") {
		t.Error("class applied while out of range")
	}

	page.Doc.SetScroll(0, 716)
	if got := box.Attr("x-progress"); got != "0.50" {
		t.Errorf("x-progress = %q at midpoint, want 0.50", got)
	}
	if !box.HasClass("animated") {
		t.Error("class not applied mid-travel")
	}

	page.Doc.SetScroll(0, 1300)
	if got := box.Attr("x-progress"); got != "1.00" {
		t.Errorf("x-progress = %q past the end, want 1.00", got)
	}
	if box.HasClass("animated") {
		t.Error("class not removed after travel completed")
	}
}

func TestAnimateCustomClass(t *testing.T) {
	page := newAnimatePage(t, `<html><body>
		<div x-animate='{"class":"fly"}' x-rect="1000,0,600,200" id="box">content</div>
	</body></html>`)
	box := page.Doc.Query("#box")

	page.Doc.SetScroll(0, 716)
	if !box.HasClass("fly") {
		t.Error("configured class not applied")
	}
	if box.HasClass("animated") {
		t.Error("default class applied despite an override")
	}
}

func TestAnimateOncePins(t *testing.T) {
	page := newAnimatePage(t, `<html><body>
		<div x-animate='{"once":true}' x-rect="1000,0,600,200" id="box">content</div>
	</body></html>`)
	box := page.Doc.Query("#box")

	page.Doc.SetScroll(0, 1300)
	if !box.HasClass("animated") {
		t.Fatal("once element lost its class after completing the travel")
	}

	// Scrolling back must not undo a pinned element.
	page.Doc.SetScroll(0, 0)
	if !box.HasClass("animated") {
		t.Error("pinned class removed on scroll back")
	}
	if got := box.Attr("x-progress"); got != "1.00" {
		t.Errorf("x-progress = %q after pin, want 1.00", got)
	}
}

func TestAnimateMalformedConfigSkipped(t *testing.T) {
	page := newAnimatePage(t, `<html><body>
		<div x-animate='{"offset": nope}' x-rect="1000,0,600,200" id="box">content</div>
	</body></html>`)
	box := page.Doc.Query("#box")

	page.Doc.SetScroll(0, 716)
	if box.HasAttr("x-progress") {
		t.Error("element with malformed config was tracked")
	}
}

func TestAnimateProgressEventFiresOnChange(t *testing.T) {
	page := newAnimatePage(t, `<html><body>
		<div x-animate="" x-rect="1000,0,600,200">content</div>
	</body></html>`)

	var rec EventRecorder
	rec.Listen(page.Doc, "progress")

	page.Doc.SetScroll(0, 716)
	page.Doc.SetScroll(0, 716) // same position: no change, no event

	if got := len(rec.Events()); got != 1 {
		t.Errorf("%d progress events for one effective change, want 1", got)
	}
}
