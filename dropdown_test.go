package x

import (
	"context"
	"testing"
)

const dropdownPage = `<html><body>
<div x-dropdown id="menu"><button x-dropdown-toggle id="menu-toggle">menu</button><ul><li>item</li></ul></div>
<div x-dropdown id="plain">plain</div>
<p id="outside">outside</p>
</body></html>`

func newDropdownPage(t *testing.T) *TestPage {
	t.Helper()
	page, err := NewTestPage(dropdownPage)
	if err != nil {
		t.Fatalf("NewTestPage failed: %v", err)
	}
	if err := page.Toolkit.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return page
}

func TestDropdownToggle(t *testing.T) {
	page := newDropdownPage(t)
	menu := page.Doc.Query("#menu")

	page.Doc.Query("#menu-toggle").Click()
	if !menu.HasClass("open") {
		t.Fatal("toggle click did not open the dropdown")
	}

	page.Doc.Query("#menu-toggle").Click()
	if menu.HasClass("open") {
		t.Error("second toggle click did not close the dropdown")
	}
}

func TestDropdownWithoutToggleUsesContainer(t *testing.T) {
	page := newDropdownPage(t)
	plain := page.Doc.Query("#plain")

	plain.Click()
	if !plain.HasClass("open") {
		t.Error("container click did not open a toggle-less dropdown")
	}
}

func TestOpeningOneDropdownClosesOthers(t *testing.T) {
	page := newDropdownPage(t)

	page.Doc.Query("#menu-toggle").Click()
	page.Doc.Query("#plain").Click()

	if page.Doc.Query("#menu").HasClass("open") {
		t.Error("first dropdown stayed open")
	}
	if !page.Doc.Query("#plain").HasClass("open") {
		t.Error("second dropdown did not open")
	}
}

func TestOutsideClickClosesDropdowns(t *testing.T) {
	page := newDropdownPage(t)

	page.Doc.Query("#menu-toggle").Click()
	page.Doc.Query("#outside").Click()

	if page.Doc.Query("#menu").HasClass("open") {
		t.Error("outside click did not close the dropdown")
	}
}

func TestDropdownEvents(t *testing.T) {
	page := newDropdownPage(t)

	var rec EventRecorder
	rec.Listen(page.Doc, "open", "close")

	page.Doc.Query("#menu-toggle").Click()
	page.Doc.Query("#menu-toggle").Click()

	if got := rec.Types(); len(got) != 2 || got[0] != "open" || got[1] != "close" {
		t.Errorf("events = %v, want [open close]", got)
	}
}
