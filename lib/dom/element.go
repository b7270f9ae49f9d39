package dom

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var errNoBody = errors.New("dom: document has no body")

// Element is a handle on a single element node within a Document.
// Handles are cheap and compare by node identity: two handles for the
// same node address the same listeners and attributes.
type Element struct {
	doc  *Document
	node *html.Node
}

// Node returns the underlying html node.
func (e *Element) Node() *html.Node { return e.node }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.node.Data }

// ID returns the id attribute.
func (e *Element) ID() string { return e.Attr("id") }

// Attr returns the value of the named attribute, or "".
func (e *Element) Attr(name string) string {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

// SetAttr sets the named attribute, replacing any existing value.
func (e *Element) SetAttr(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr removes the named attribute if present.
func (e *Element) RemoveAttr(name string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

// Classes returns the element's class list.
func (e *Element) Classes() []string {
	return strings.Fields(e.Attr("class"))
}

// HasClass reports whether the element carries the class.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds classes to the element. Already-present classes are
// left alone.
func (e *Element) AddClass(classes ...string) {
	list := e.Classes()
	for _, class := range classes {
		if class == "" {
			continue
		}
		present := false
		for _, c := range list {
			if c == class {
				present = true
				break
			}
		}
		if !present {
			list = append(list, class)
		}
	}
	e.SetAttr("class", strings.Join(list, " "))
}

// RemoveClass removes classes from the element.
func (e *Element) RemoveClass(classes ...string) {
	list := e.Classes()
	kept := list[:0]
	for _, c := range list {
		drop := false
		for _, class := range classes {
			if c == class {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// ToggleClass adds the class if absent, removes it if present.
func (e *Element) ToggleClass(class string) {
	if e.HasClass(class) {
		e.RemoveClass(class)
		return
	}
	e.AddClass(class)
}

// AddClassAfter is the transition-aware add: the "<class>-ready"
// companion class is applied immediately, the call suspends for delay
// through the document clock, then the requested class is applied.
// Returns once the class is in place, or early with ctx's error.
func (e *Element) AddClassAfter(ctx context.Context, class string, delay time.Duration) error {
	e.AddClass(class + "-ready")
	if err := e.doc.clock.Sleep(ctx, delay); err != nil {
		return err
	}
	e.AddClass(class)
	return nil
}

// RemoveClassAfter is the transition-aware remove: the requested class
// is removed immediately (starting the visual transition), the call
// suspends for delay, then the "<class>-ready" companion is removed.
// The order deliberately mirrors AddClassAfter rather than reversing
// it: dropping the class first kicks off the exit transition, and the
// companion stays in place until the transition completes so any
// companion-keyed styles remain live for its whole duration.
func (e *Element) RemoveClassAfter(ctx context.Context, class string, delay time.Duration) error {
	e.RemoveClass(class)
	if err := e.doc.clock.Sleep(ctx, delay); err != nil {
		return err
	}
	e.RemoveClass(class + "-ready")
	return nil
}

// Matches reports whether the element matches the CSS selector.
func (e *Element) Matches(selector string) bool {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return false
	}
	return sel.Match(e.node)
}

// Closest walks up from the element (inclusive) and returns the first
// ancestor matching the selector, or nil.
func (e *Element) Closest(selector string) *Element {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && sel.Match(n) {
			return &Element{doc: e.doc, node: n}
		}
	}
	return nil
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// Parent returns the parent element, or nil at the tree root.
func (e *Element) Parent() *Element {
	for n := e.node.Parent; n != nil; n = n.Parent {
		if n.Type == html.ElementNode {
			return &Element{doc: e.doc, node: n}
		}
	}
	return nil
}

// Query returns the first descendant matching the selector, or nil.
func (e *Element) Query(selector string) *Element {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	var walk func(n *html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && sel.Match(c) {
				return c
			}
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	n := walk(e.node)
	if n == nil {
		return nil
	}
	return &Element{doc: e.doc, node: n}
}

// QueryAll returns every descendant matching the selector in document
// order.
func (e *Element) QueryAll(selector string) []*Element {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	var els []*Element
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && sel.Match(c) {
				els = append(els, &Element{doc: e.doc, node: c})
			}
			walk(c)
		}
	}
	walk(e.node)
	return els
}

// Detach removes the element from its parent, keeping the subtree
// intact so it can be re-inserted elsewhere (move, not copy).
func (e *Element) Detach() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// Remove detaches the element and drops its listeners.
func (e *Element) Remove() {
	e.Detach()
	e.doc.dropListeners(e.node)
}

// AppendChild appends a node as the element's last child. The node is
// detached from any previous parent first.
func (e *Element) AppendChild(n *html.Node) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	e.node.AppendChild(n)
}

// MoveChildrenTo moves every child of e (elements, text, comments)
// into target, preserving order.
func (e *Element) MoveChildrenTo(target *Element) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for e.node.FirstChild != nil {
		c := e.node.FirstChild
		e.node.RemoveChild(c)
		target.node.AppendChild(c)
	}
}

// Text returns the concatenated text content of the subtree.
func (e *Element) Text() string {
	var buf bytes.Buffer
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return buf.String()
}

// OuterHTML serializes the element subtree.
func (e *Element) OuterHTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, e.node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ScrollTop returns the element's scroll offset. Headless documents
// carry scroll state in the x-scroll-top attribute.
func (e *Element) ScrollTop() int {
	v, err := strconv.Atoi(e.Attr("x-scroll-top"))
	if err != nil {
		return 0
	}
	return v
}

// SetScrollTop sets the element's scroll offset.
func (e *Element) SetScrollTop(v int) {
	if v <= 0 {
		e.RemoveAttr("x-scroll-top")
		return
	}
	e.SetAttr("x-scroll-top", strconv.Itoa(v))
}
