package dom

import "golang.org/x/net/html"

// InsertPosition says where Insert places nodes relative to an element,
// mirroring the insertAdjacentElement positions.
type InsertPosition string

const (
	// BeforeBegin inserts before the element (as previous sibling).
	BeforeBegin InsertPosition = "beforebegin"

	// AfterBegin prepends inside the element (after its opening tag).
	AfterBegin InsertPosition = "afterbegin"

	// BeforeEnd appends inside the element (before its closing tag).
	// This is the default used for synthesized shells.
	BeforeEnd InsertPosition = "beforeend"

	// AfterEnd inserts after the element (as next sibling).
	AfterEnd InsertPosition = "afterend"
)

// Insert places nodes at the given position relative to the element,
// preserving order. Nodes are detached from any previous parent first.
// Sibling positions are ignored when the element has no parent.
func (e *Element) Insert(pos InsertPosition, nodes ...*html.Node) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	// Resolve the parent and reference sibling once so multiple nodes
	// keep their relative order.
	var parent, ref *html.Node
	switch pos {
	case BeforeBegin:
		parent, ref = e.node.Parent, e.node
	case AfterBegin:
		parent, ref = e.node, e.node.FirstChild
	case AfterEnd:
		parent, ref = e.node.Parent, e.node.NextSibling
	default: // BeforeEnd
		parent, ref = e.node, nil
	}
	if parent == nil {
		return
	}

	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		if ref != nil {
			parent.InsertBefore(n, ref)
		} else {
			parent.AppendChild(n)
		}
	}
}
