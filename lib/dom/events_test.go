package dom

import (
	"testing"
)

func TestDispatchBubbles(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="outer"><span id="inner">x</span></div></body></html>`)
	inner := doc.Query("#inner")
	outer := doc.Query("#outer")

	var order []string
	inner.On("click", func(*Event) { order = append(order, "inner") })
	outer.On("click", func(*Event) { order = append(order, "outer") })
	doc.OnDocument("click", func(*Event) { order = append(order, "document") })

	inner.Click()

	want := []string{"inner", "outer", "document"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestDispatchOnlyMatchingType(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="a">x</div></body></html>`)
	el := doc.Query("#a")

	fired := 0
	el.On("open", func(*Event) { fired++ })
	el.Dispatch("close", nil)

	if fired != 0 {
		t.Errorf("listener for another type fired %d times", fired)
	}
}

func TestOffRemovesListener(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="a">x</div></body></html>`)
	el := doc.Query("#a")

	fired := 0
	h := el.On("click", func(*Event) { fired++ })
	el.Click()
	doc.Off(h)
	el.Click()

	if fired != 1 {
		t.Errorf("listener fired %d times, want 1", fired)
	}
}

func TestDetailIsolation(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="a">x</div></body></html>`)
	el := doc.Query("#a")

	var second map[string]any
	el.On("change", func(ev *Event) {
		m := ev.Detail()
		m["id"] = "tampered"
	})
	el.On("change", func(ev *Event) {
		second = ev.Detail()
	})

	el.Dispatch("change", map[string]any{"id": "original"})

	if second == nil {
		t.Fatal("second listener saw no detail")
	}
	if got := second["id"]; got != "original" {
		t.Errorf("detail id = %v, want original: mutation in one listener leaked into another", got)
	}
}

func TestDetailNilWhenAbsent(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="a">x</div></body></html>`)
	el := doc.Query("#a")

	var detail map[string]any = map[string]any{"sentinel": true}
	el.On("ping", func(ev *Event) { detail = ev.Detail() })
	el.Dispatch("ping", nil)

	if detail != nil {
		t.Errorf("Detail() = %v for a detail-less event, want nil", detail)
	}
}

func TestKeydown(t *testing.T) {
	doc := mustParse(t, `<html><body></body></html>`)

	var key string
	doc.OnDocument("keydown", func(ev *Event) {
		if ev.Key != nil {
			key = ev.Key.Key
		}
	})
	doc.Keydown("Escape")

	if key != "Escape" {
		t.Errorf("key = %q, want Escape", key)
	}
}

func TestClickAtCarriesCoordinates(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="a">x</div></body></html>`)

	var mouse MouseEvent
	doc.OnDocument("click", func(ev *Event) {
		if ev.Mouse != nil {
			mouse = *ev.Mouse
		}
	})
	doc.Query("#a").ClickAt(MouseEvent{ClientX: 10, ClientY: 20})

	if mouse.ClientX != 10 || mouse.ClientY != 20 {
		t.Errorf("mouse = %+v, want 10,20", mouse)
	}
}

func TestListenerRegisteredDuringDeliveryNotInvoked(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="a">x</div></body></html>`)
	el := doc.Query("#a")

	late := 0
	el.On("click", func(*Event) {
		el.On("click", func(*Event) { late++ })
	})
	el.Click()

	if late != 0 {
		t.Errorf("listener added mid-delivery fired %d times in the same delivery", late)
	}
}
