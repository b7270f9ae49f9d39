package dom

import "testing"

func TestRectRoundTrip(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="a">x</div></body></html>`)
	el := doc.Query("#a")

	if _, ok := el.Rect(); ok {
		t.Error("Rect() reported geometry on an element without any")
	}

	el.SetRect(Rect{Top: 100, Left: 20, Width: 600, Height: 400})
	r, ok := el.Rect()
	if !ok {
		t.Fatal("Rect() lost declared geometry")
	}
	if r.Top != 100 || r.Left != 20 || r.Width != 600 || r.Height != 400 {
		t.Errorf("Rect() = %+v", r)
	}
	if got := r.Bottom(); got != 500 {
		t.Errorf("Bottom() = %d, want 500", got)
	}
}

func TestRectPartialDeclaration(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="a" x-rect="250">x</div></body></html>`)
	r, ok := doc.Query("#a").Rect()
	if !ok {
		t.Fatal("partial declaration rejected")
	}
	if r.Top != 250 || r.Height != 0 {
		t.Errorf("Rect() = %+v, want top only", r)
	}
}

func TestRectMalformed(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="a" x-rect="tall,0,0,0">x</div></body></html>`)
	if _, ok := doc.Query("#a").Rect(); ok {
		t.Error("malformed geometry accepted")
	}
}

func TestInViewport(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="a">x</div></body></html>`,
		WithViewport(Viewport{Width: 1024, Height: 768}))
	el := doc.Query("#a")

	tests := []struct {
		name   string
		rect   Rect
		scroll int
		offset int
		want   bool
	}{
		{"above fold", Rect{Top: 100, Height: 200}, 0, 0, true},
		{"below fold", Rect{Top: 2000, Height: 200}, 0, 0, false},
		{"scrolled into view", Rect{Top: 2000, Height: 200}, 1500, 0, true},
		{"scrolled past", Rect{Top: 100, Height: 200}, 500, 0, false},
		{"near with offset", Rect{Top: 800, Height: 200}, 0, 100, true},
		{"just below fold", Rect{Top: 769, Height: 200}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el.SetRect(tt.rect)
			doc.SetScroll(0, tt.scroll)
			if got := el.InViewport(tt.offset); got != tt.want {
				t.Errorf("InViewport(%d) = %v, want %v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestInViewportWithoutGeometry(t *testing.T) {
	doc := mustParse(t, `<html><body><div id="a">x</div></body></html>`)
	if doc.Query("#a").InViewport(0) {
		t.Error("element without geometry reported in view")
	}
}

func TestSetScrollDispatchesScrollEvent(t *testing.T) {
	doc := mustParse(t, `<html><body></body></html>`)

	fired := 0
	doc.OnDocument("scroll", func(*Event) { fired++ })
	doc.SetScroll(0, 300)

	if fired != 1 {
		t.Errorf("scroll event fired %d times, want 1", fired)
	}
	if v := doc.Viewport(); v.ScrollY != 300 {
		t.Errorf("ScrollY = %d, want 300", v.ScrollY)
	}
}
