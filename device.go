package x

import (
	"context"
	"strings"
	"sync"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
)

const attrDevice = "x-device"

// DeviceInfo is the classification of a user agent string.
type DeviceInfo struct {
	OS      string // macos, windows, linux, ios, android, ""
	Browser string // chrome, safari, firefox, edge, ""
	Mobile  bool
	Touch   bool
}

// Classes returns the CSS classes mirroring the classification onto
// the root element, the shape stylesheets key off.
func (d DeviceInfo) Classes() []string {
	var out []string
	if d.OS != "" {
		out = append(out, "os-"+d.OS)
	}
	if d.Browser != "" {
		out = append(out, "browser-"+d.Browser)
	}
	if d.Mobile {
		out = append(out, "mobile")
	} else {
		out = append(out, "desktop")
	}
	if d.Touch {
		out = append(out, "touch")
	} else {
		out = append(out, "no-touch")
	}
	return out
}

// DeviceController classifies the user agent once and applies the
// resulting classes to the document root, so styles can branch on
// platform without scripting.
type DeviceController struct {
	doc *dom.Document
	ua  string

	mu      sync.Mutex
	info    DeviceInfo
	applied []string
}

// NewDeviceController creates the controller for a user agent string.
func NewDeviceController(doc *dom.Document, userAgent string) *DeviceController {
	return &DeviceController{doc: doc, ua: userAgent}
}

// Attribute implements Controller.
func (c *DeviceController) Attribute() string { return attrDevice }

// Attach classifies the user agent and tags the root element.
// Re-attaching replaces the previous classification.
func (c *DeviceController) Attach(ctx context.Context) error {
	c.Detach()

	info := ClassifyUserAgent(c.ua)
	classes := info.Classes()

	root := c.doc.Root()
	if root != nil {
		root.AddClass(classes...)
	}

	c.mu.Lock()
	c.info = info
	c.applied = classes
	c.mu.Unlock()
	return nil
}

// Detach removes the applied classes.
func (c *DeviceController) Detach() {
	c.mu.Lock()
	applied := c.applied
	c.applied = nil
	c.mu.Unlock()
	if len(applied) == 0 {
		return
	}
	if root := c.doc.Root(); root != nil {
		root.RemoveClass(applied...)
	}
}

// Info returns the current classification.
func (c *DeviceController) Info() DeviceInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.info
}

// ClassifyUserAgent maps a user agent string to a DeviceInfo. Unknown
// agents classify as desktop with empty OS and browser.
func ClassifyUserAgent(ua string) DeviceInfo {
	s := strings.ToLower(ua)
	var d DeviceInfo

	switch {
	case strings.Contains(s, "iphone"), strings.Contains(s, "ipad"), strings.Contains(s, "ipod"):
		d.OS = "ios"
		d.Mobile = true
		d.Touch = true
	case strings.Contains(s, "android"):
		d.OS = "android"
		d.Mobile = true
		d.Touch = true
	case strings.Contains(s, "mac os x"), strings.Contains(s, "macintosh"):
		d.OS = "macos"
	case strings.Contains(s, "windows"):
		d.OS = "windows"
	case strings.Contains(s, "linux"):
		d.OS = "linux"
	}

	// Order matters: Edge and Chrome both advertise Safari, Chrome
	// advertises itself inside Edge.
	switch {
	case strings.Contains(s, "edg/"), strings.Contains(s, "edge/"):
		d.Browser = "edge"
	case strings.Contains(s, "firefox/"):
		d.Browser = "firefox"
	case strings.Contains(s, "chrome/"), strings.Contains(s, "crios/"):
		d.Browser = "chrome"
	case strings.Contains(s, "safari/"):
		d.Browser = "safari"
	}

	return d
}
