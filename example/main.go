// Headless walkthrough of the toolkit: parses a page, attaches every
// controller, simulates a user session and prints what changed.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	x "github.com/andreyshpigunov/x-sub000"
	"github.com/andreyshpigunov/x-sub000/lib/dom"
)

//go:embed page.html
var page string

func main() {
	ctx := context.Background()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	loc, err := dom.NewLocation("https://shop.example/catalog")
	if err != nil {
		log.Fatal(err)
	}
	doc, err := dom.ParseString(page, dom.WithLocation(loc))
	if err != nil {
		log.Fatal(err)
	}

	tk := x.New(doc,
		x.WithLogger(logger),
		x.WithUserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	doc.OnDocument("open", func(ev *dom.Event) {
		if d := ev.Detail(); d != nil {
			fmt.Printf("modal opened: %v\n", d["id"])
		}
	})
	doc.OnDocument("close", func(ev *dom.Event) {
		if d := ev.Detail(); d != nil {
			fmt.Printf("modal closed: %v\n", d["id"])
		}
	})

	if err := tk.Init(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("device: %+v\n", tk.Device().Info())

	// Open the signup modal from its trigger, then the cart on top of
	// it. The cart is uniq, so signup closes first.
	doc.Query("#signup-link").Click()
	fmt.Printf("stack depth: %d\n", tk.Modal().Depth())

	doc.Query("#cart-link").Click()
	fmt.Printf("stack depth: %d, url: %s\n", tk.Modal().Depth(), loc)

	// Escape dismisses the cart and clears the fragment.
	doc.Keydown("Escape")
	fmt.Printf("stack depth: %d, url: %s\n", tk.Modal().Depth(), loc)

	// Switch the catalog tab; the hash group mirrors it.
	tk.Sheets().Activate(doc.Query("#catalog"), "new")
	fmt.Printf("active sheet: %s, url: %s\n", tk.Sheets().Active(doc.Query("#catalog")), loc)

	// Scroll down: the second image loads, the featured section
	// starts revealing.
	doc.SetScroll(0, 2400)
	fmt.Printf("images pending: %d\n", tk.Lazyload().Pending())
	fmt.Printf("featured progress: %s\n", doc.Query("section").Attr("x-progress"))

	html, err := doc.HTML()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("--- final markup ---")
	fmt.Println(html)
}
