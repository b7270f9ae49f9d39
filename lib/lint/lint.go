// Package lint checks HTML files against the toolkit's attribute
// contract: modal and sheet ids must be unique and resolvable,
// per-element configuration attributes must parse, and signed x-detail
// tokens must verify under the deployment key. It catches at build
// time the errors the controllers would otherwise log and skip at
// attach time.
package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/andreyshpigunov/x-sub000/lib/dom"
	"github.com/andreyshpigunov/x-sub000/lib/encoding"
)

// Options configures the linter.
type Options struct {
	// Extensions are the file suffixes treated as markup. Defaults to
	// .html and .htm.
	Extensions []string

	// DetailKey, when set, verifies every x-detail attribute as a
	// signed token produced by encoding.Codec. Tampered or malformed
	// tokens are reported. Without a key the x-detail check is skipped.
	DetailKey []byte
}

// Issue is one problem found in a file.
type Issue struct {
	File    string
	Element string // tag plus the offending attribute, for locating it
	Message string
}

func (i Issue) String() string {
	if i.File == "" {
		return fmt.Sprintf("<%s>: %s", i.Element, i.Message)
	}
	return fmt.Sprintf("%s: <%s>: %s", i.File, i.Element, i.Message)
}

// Linter checks markup files.
type Linter struct {
	opts  Options
	codec *encoding.Codec
}

// New creates a linter.
func New(opts Options) *Linter {
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".html", ".htm"}
	}
	l := &Linter{opts: opts}
	if len(opts.DetailKey) > 0 {
		l.codec = encoding.NewCodec(opts.DetailKey)
	}
	return l
}

// Check lints the given paths. Directories are walked recursively;
// only files with a configured extension are read.
func (l *Linter) Check(paths ...string) ([]Issue, error) {
	var issues []Issue
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			found, err := l.CheckFile(path)
			if err != nil {
				return nil, err
			}
			issues = append(issues, found...)
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !l.markupFile(p) {
				return nil
			}
			found, err := l.CheckFile(p)
			if err != nil {
				return err
			}
			issues = append(issues, found...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return issues, nil
}

// CheckFile lints one file.
func (l *Linter) CheckFile(path string) ([]Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := dom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	issues := l.CheckDocument(doc)
	for i := range issues {
		issues[i].File = path
	}
	return issues, nil
}

// CheckDocument lints a parsed document with the linter's options,
// including x-detail token verification when a key is configured.
func (l *Linter) CheckDocument(doc *dom.Document) []Issue {
	issues := CheckDocument(doc)
	if l.codec != nil {
		issues = append(issues, checkDetails(doc, l.codec)...)
	}
	return issues
}

func (l *Linter) markupFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range l.opts.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// CheckDocument lints a parsed document.
func CheckDocument(doc *dom.Document) []Issue {
	var issues []Issue
	issues = append(issues, checkModals(doc)...)
	issues = append(issues, checkSheets(doc)...)
	issues = append(issues, checkAnimate(doc)...)
	issues = append(issues, checkSticky(doc)...)
	issues = append(issues, checkRects(doc)...)
	issues = append(issues, checkLazyload(doc)...)
	return issues
}

func checkModals(doc *dom.Document) []Issue {
	var issues []Issue
	seen := map[string]bool{}
	for _, el := range doc.QueryAll("[x-modal]") {
		id := el.Attr("x-modal")
		if id == "" {
			issues = append(issues, issue(el, "x-modal", "empty modal id"))
			continue
		}
		if seen[id] {
			issues = append(issues, issue(el, "x-modal", fmt.Sprintf("duplicate modal id %q", id)))
			continue
		}
		seen[id] = true
	}
	for _, el := range doc.QueryAll("[x-modal-open]") {
		target := el.Attr("x-modal-open")
		if target == "" {
			issues = append(issues, issue(el, "x-modal-open", "empty trigger target"))
			continue
		}
		if !seen[target] {
			issues = append(issues, issue(el, "x-modal-open",
				fmt.Sprintf("trigger targets unknown modal %q", target)))
		}
	}
	return issues
}

func checkSheets(doc *dom.Document) []Issue {
	var issues []Issue
	for _, group := range doc.QueryAll("[x-sheets]") {
		buttons := group.QueryAll("[x-sheet-open]")
		if len(buttons) == 0 {
			issues = append(issues, issue(group, "x-sheets", "sheet group has no buttons"))
			continue
		}
		panes := map[string]bool{}
		for _, p := range group.QueryAll("[x-sheet]") {
			panes[p.Attr("x-sheet")] = true
		}
		for _, btn := range buttons {
			id := btn.Attr("x-sheet-open")
			if id == "" {
				issues = append(issues, issue(btn, "x-sheet-open", "empty sheet id"))
				continue
			}
			if !panes[id] {
				issues = append(issues, issue(btn, "x-sheet-open",
					fmt.Sprintf("button targets unknown sheet %q", id)))
			}
		}
	}
	return issues
}

func checkAnimate(doc *dom.Document) []Issue {
	var issues []Issue
	for _, el := range doc.QueryAll("[x-animate]") {
		raw := el.Attr("x-animate")
		if raw == "" {
			continue
		}
		var cfg struct {
			Class  string `json:"class"`
			Offset int    `json:"offset"`
			Once   bool   `json:"once"`
		}
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			issues = append(issues, issue(el, "x-animate",
				fmt.Sprintf("malformed config: %v", err)))
		}
	}
	return issues
}

func checkSticky(doc *dom.Document) []Issue {
	var issues []Issue
	for _, el := range doc.QueryAll("[x-sticky]") {
		raw := el.Attr("x-sticky")
		if raw == "" {
			continue
		}
		if _, err := strconv.Atoi(raw); err != nil {
			issues = append(issues, issue(el, "x-sticky",
				fmt.Sprintf("offset %q is not a number", raw)))
		}
	}
	return issues
}

func checkRects(doc *dom.Document) []Issue {
	var issues []Issue
	for _, el := range doc.QueryAll("[x-rect]") {
		if _, ok := el.Rect(); !ok {
			issues = append(issues, issue(el, "x-rect",
				fmt.Sprintf("malformed geometry %q", el.Attr("x-rect"))))
		}
	}
	return issues
}

// checkDetails verifies signed detail tokens. An x-detail attribute
// must decode under the configured key; a failure means the token was
// tampered with or produced with another key.
func checkDetails(doc *dom.Document, codec *encoding.Codec) []Issue {
	var issues []Issue
	for _, el := range doc.QueryAll("[x-detail]") {
		if _, err := codec.Decode(el.Attr("x-detail")); err != nil {
			issues = append(issues, issue(el, "x-detail",
				fmt.Sprintf("token rejected: %v", err)))
		}
	}
	return issues
}

func checkLazyload(doc *dom.Document) []Issue {
	var issues []Issue
	for _, el := range doc.QueryAll("[x-lazyload]") {
		if !el.HasAttr("x-src") && !el.HasAttr("x-srcset") {
			issues = append(issues, issue(el, "x-lazyload", "no deferred source"))
		}
	}
	return issues
}

func issue(el *dom.Element, attr, msg string) Issue {
	elem := el.Tag()
	if id := el.ID(); id != "" {
		elem += "#" + id
	}
	elem += " " + attr
	return Issue{Element: elem, Message: msg}
}
