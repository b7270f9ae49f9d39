// Package dom provides an in-memory HTML document the toolkit's
// controllers operate on. It wraps a golang.org/x/net/html node tree
// with CSS selector queries, class mutation (including the delayed,
// transition-aware forms), event listeners and dispatch, a URL
// location, and a scrollable viewport.
//
// The package is headless: there is no layout engine and no renderer.
// Element geometry is declared in markup via the x-rect attribute and
// scroll offsets live in attributes, which is enough for controllers
// that react to viewport position (lazyload, animate, sticky) and for
// exercising every controller without a browser.
package dom

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page plus the runtime state controllers
// need: listeners, clock, location and viewport.
//
// Tree mutation and queries are safe for concurrent use; dispatch runs
// listeners synchronously on the calling goroutine.
type Document struct {
	mu   sync.Mutex
	root *html.Node
	sel  *goquery.Document

	clock    Clock
	location *Location
	viewport Viewport

	listeners    map[*html.Node]map[string][]*listener
	docListeners map[string][]*listener
	nextListener int
}

// Option configures a Document at parse time.
type Option func(*Document)

// WithClock sets the clock used for delayed class mutation and sleeps.
// Tests pass an Instant clock to make transitions immediate.
func WithClock(c Clock) Option {
	return func(d *Document) { d.clock = c }
}

// WithLocation sets the document's URL. Defaults to about:blank.
func WithLocation(l *Location) Option {
	return func(d *Document) { d.location = l }
}

// WithViewport sets the initial viewport geometry.
func WithViewport(v Viewport) Option {
	return func(d *Document) { d.viewport = v }
}

// Parse reads an HTML document from r.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	d := &Document{
		root:         root,
		sel:          goquery.NewDocumentFromNode(root),
		clock:        RealClock(),
		viewport:     Viewport{Width: 1024, Height: 768},
		listeners:    make(map[*html.Node]map[string][]*listener),
		docListeners: make(map[string][]*listener),
	}
	if d.location, err = NewLocation("about:blank"); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// ParseString reads an HTML document from a string.
func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// Clock returns the document's clock.
func (d *Document) Clock() Clock { return d.clock }

// Location returns the document's URL.
func (d *Document) Location() *Location { return d.location }

// Sleep suspends through the document clock. ctx cancellation aborts
// the wait early.
func (d *Document) Sleep(ctx context.Context, dur time.Duration) error {
	return d.clock.Sleep(ctx, dur)
}

// Query returns the first element matching the CSS selector, or nil.
func (d *Document) Query(selector string) *Element {
	nodes := d.sel.Find(selector).Nodes
	if len(nodes) == 0 {
		return nil
	}
	return &Element{doc: d, node: nodes[0]}
}

// QueryAll returns every element matching the CSS selector in document
// order.
func (d *Document) QueryAll(selector string) []*Element {
	nodes := d.sel.Find(selector).Nodes
	els := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		els = append(els, &Element{doc: d, node: n})
	}
	return els
}

// Root returns the <html> element.
func (d *Document) Root() *Element {
	return d.firstOfType("html")
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.firstOfType("body")
}

// Head returns the <head> element.
func (d *Document) Head() *Element {
	return d.firstOfType("head")
}

func (d *Document) firstOfType(tag string) *Element {
	var walk func(n *html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == tag {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	n := walk(d.root)
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}

// HTML serializes the document back to markup.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseFragment parses a markup fragment in body context and returns
// the top-level nodes. Used to synthesize element shells.
func (d *Document) ParseFragment(fragment string) ([]*html.Node, error) {
	body := d.Body()
	if body == nil {
		return nil, errNoBody
	}
	return html.ParseFragment(strings.NewReader(fragment), body.node)
}
