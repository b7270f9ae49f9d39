package x

import (
	"context"
	"testing"
)

const lazyloadPage = `<html><body>
<img x-lazyload x-src="/a.jpg" x-rect="100,0,600,400" id="near">
<img x-lazyload x-src="/b.jpg" x-srcset="/b@2x.jpg 2x" x-rect="3000,0,600,400" id="far">
<img x-lazyload x-rect="100,0,600,400" id="broken">
</body></html>`

func newLazyloadPage(t *testing.T) *TestPage {
	t.Helper()
	page, err := NewTestPage(lazyloadPage)
	if err != nil {
		t.Fatalf("NewTestPage failed: %v", err)
	}
	if err := page.Toolkit.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return page
}

func TestLazyloadLoadsVisibleOnInit(t *testing.T) {
	page := newLazyloadPage(t)

	near := page.Doc.Query("#near")
	if got := near.Attr("src"); got != "/a.jpg" {
		t.Errorf("src = %q, want /a.jpg", got)
	}
	if near.HasAttr("x-src") {
		t.Error("deferred attribute not removed after load")
	}
	if !near.HasClass("loaded") {
		t.Error("loaded class missing")
	}

	far := page.Doc.Query("#far")
	if far.HasAttr("src") {
		t.Error("offscreen element loaded prematurely")
	}

	// near loads, far waits, broken (no deferred source) is skipped.
	if got := page.Toolkit.Lazyload().Pending(); got != 1 {
		t.Errorf("Pending() = %d, want 1", got)
	}
}

func TestLazyloadLoadsOnScroll(t *testing.T) {
	page := newLazyloadPage(t)

	page.Doc.SetScroll(0, 2500)

	far := page.Doc.Query("#far")
	if got := far.Attr("src"); got != "/b.jpg" {
		t.Errorf("src = %q after scrolling into view, want /b.jpg", got)
	}
	if got := far.Attr("srcset"); got != "/b@2x.jpg 2x" {
		t.Errorf("srcset = %q, want deferred set swapped in", got)
	}
	if got := page.Toolkit.Lazyload().Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0", got)
	}
}

func TestLazyloadFiresLoadEventOnce(t *testing.T) {
	page := newLazyloadPage(t)

	var rec EventRecorder
	rec.Listen(page.Doc, "load")

	page.Doc.SetScroll(0, 2500)
	page.Doc.SetScroll(0, 2600)
	page.Doc.SetScroll(0, 0)

	if got := len(rec.Events()); got != 1 {
		t.Errorf("%d load events after repeated scrolling, want 1", got)
	}
}
