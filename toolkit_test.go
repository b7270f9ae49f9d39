package x

import (
	"context"
	"testing"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
)

type stubController struct {
	attr     string
	attached int
	detached int
}

func (s *stubController) Attribute() string            { return s.attr }
func (s *stubController) Attach(context.Context) error { s.attached++; return nil }
func (s *stubController) Detach()                      { s.detached++ }

func TestRegisterSkipsClaimedAttribute(t *testing.T) {
	page, err := NewTestPage(`<html><body></body></html>`)
	if err != nil {
		t.Fatalf("NewTestPage failed: %v", err)
	}

	// x-modal is claimed by the built-in controller.
	usurper := &stubController{attr: "x-modal"}
	extra := &stubController{attr: "x-custom"}
	page.Toolkit.Register(usurper, extra)

	if err := page.Toolkit.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if usurper.attached != 0 {
		t.Error("controller with a claimed attribute was attached")
	}
	if extra.attached != 1 {
		t.Errorf("extra controller attached %d times, want 1", extra.attached)
	}
}

func TestShutdownDetachesControllers(t *testing.T) {
	page, err := NewTestPage(`<html><body></body></html>`)
	if err != nil {
		t.Fatalf("NewTestPage failed: %v", err)
	}
	extra := &stubController{attr: "x-custom"}
	page.Toolkit.Register(extra)

	if err := page.Toolkit.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	page.Toolkit.Shutdown()

	if extra.detached == 0 {
		t.Error("Shutdown did not detach the controller")
	}
}

func TestToolkitQuery(t *testing.T) {
	doc, err := dom.ParseString(`<html><body><p id="a">hi</p><p>bye</p></body></html>`)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	tk := New(doc)

	if el := tk.Query("#a"); el == nil || el.Text() != "hi" {
		t.Error("Query(#a) did not find the element")
	}
	if got := len(tk.QueryAll("p")); got != 2 {
		t.Errorf("QueryAll(p) = %d elements, want 2", got)
	}
	if tk.Query("#missing") != nil {
		t.Error("Query on a missing id returned an element")
	}
}

func TestDurationOverride(t *testing.T) {
	page, err := NewTestPage(`<html><body><div x-modal="a">hi</div></body></html>`,
		WithDurations(Durations{Ready: 1, Transition: 2, Settle: 3}))
	if err != nil {
		t.Fatalf("NewTestPage failed: %v", err)
	}
	if err := page.Toolkit.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	page.Toolkit.Modal().Show(context.Background(), "a")

	got := page.Clock.Slept()
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("Slept() = %v, want [1 2 3]", got)
	}
}
